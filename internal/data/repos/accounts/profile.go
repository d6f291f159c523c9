package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProfileRepo interface {
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error)
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]any) error
}

type profileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	repoLog := baseLog.With("repo", "ProfileRepo")
	return &profileRepo{db: db, log: repoLog}
}

// GetByUser returns nil when the user has no profile yet.
func (pr *profileRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var out types.UserProfile
	err := transaction.WithContext(ctx).Where("user_id = ?", userID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetOrCreate inserts the default profile if none exists and returns the
// stored row. Concurrent first reads settle on whichever insert won.
func (pr *profileRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	row := types.DefaultProfile(userID)
	now := time.Now().UTC()
	row.CreatedAt, row.UpdatedAt = now, now
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(row).Error; err != nil {
		return nil, err
	}
	out, err := pr.GetByUser(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("profile missing after insert")
	}
	return out, nil
}

// Update writes fields by column name. A map is used so false and "" are
// stored rather than skipped.
func (pr *profileRepo) Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]any) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.UserProfile{}).
		Where("user_id = ?", userID).
		Updates(fields).Error
}
