package stories

import (
	"context"

	"github.com/google/uuid"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type HistoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.StoryHistoryEntry) (*types.StoryHistoryEntry, error)
	ListByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) ([]*types.StoryHistoryEntry, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StoryHistoryEntry, error)
	DeleteByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error
}

type historyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	repoLog := baseLog.With("repo", "HistoryRepo")
	return &historyRepo{db: db, log: repoLog}
}

func (hr *historyRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.StoryHistoryEntry) (*types.StoryHistoryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// ListByStory returns entries newest first.
func (hr *historyRepo) ListByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) ([]*types.StoryHistoryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	results := []*types.StoryHistoryEntry{}
	if err := transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListByUser returns entries across all of the user's stories, newest first.
func (hr *historyRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.StoryHistoryEntry, error) {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	results := []*types.StoryHistoryEntry{}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (hr *historyRepo) DeleteByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = hr.db
	}
	return transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Delete(&types.StoryHistoryEntry{}).Error
}
