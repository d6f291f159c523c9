package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Delta is added to one day's counters. Zero fields leave a counter unchanged.
type Delta struct {
	Words      int
	Segments   int
	Characters int
	Stories    int
}

func (d Delta) IsZero() bool {
	return d.Words == 0 && d.Segments == 0 && d.Characters == 0 && d.Stories == 0
}

type ActivityRepo interface {
	Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, delta Delta) (*types.DailyActivityRecord, error)
	GetByDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.DailyActivityRecord, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DailyActivityRecord, error)
	ListRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end string) ([]*types.DailyActivityRecord, error)
}

type activityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	repoLog := baseLog.With("repo", "ActivityRepo")
	return &activityRepo{db: db, log: repoLog}
}

// Increment adds delta to the (userID, date) row, creating it on first use.
// The insert and the add happen in one statement so concurrent writers for
// the same day never overwrite each other.
func (ar *activityRepo) Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, delta Delta) (*types.DailyActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id required")
	}
	if date == "" {
		return nil, fmt.Errorf("date required")
	}

	now := time.Now().UTC()
	row := &types.DailyActivityRecord{
		ID:                uuid.New(),
		UserID:            userID,
		Date:              date,
		WordsWritten:      delta.Words,
		SegmentsAdded:     delta.Segments,
		CharactersCreated: delta.Characters,
		StoriesCreated:    delta.Stories,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	table := types.DailyActivityRecord{}.TableName()
	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoUpdates: clause.Assignments(map[string]any{
				"words_written":      gorm.Expr(table+".words_written + ?", delta.Words),
				"segments_added":     gorm.Expr(table+".segments_added + ?", delta.Segments),
				"characters_created": gorm.Expr(table+".characters_created + ?", delta.Characters),
				"stories_created":    gorm.Expr(table+".stories_created + ?", delta.Stories),
				"updated_at":         now,
			}),
		}).
		Create(row).Error
	if err != nil {
		return nil, err
	}

	return ar.GetByDate(ctx, transaction, userID, date)
}

// GetByDate returns nil when the user has no row for date.
func (ar *activityRepo) GetByDate(ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string) (*types.DailyActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var out types.DailyActivityRecord
	err := transaction.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns every row for the user, newest date first.
func (ar *activityRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.DailyActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.DailyActivityRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListRange returns rows with start <= date <= end, oldest first. Dates are
// YYYY-MM-DD so string order is calendar order.
func (ar *activityRepo) ListRange(ctx context.Context, tx *gorm.DB, userID uuid.UUID, start, end string) ([]*types.DailyActivityRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	results := []*types.DailyActivityRecord{}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
