package stories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type StoryRepo interface {
	Create(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error)
	GetByID(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) (*types.Story, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Story, error)
	UpdateTitle(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, title string) error
	AddWordCount(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, words int) error
	Delete(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error
}

type storyRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoryRepo(db *gorm.DB, baseLog *logger.Logger) StoryRepo {
	repoLog := baseLog.With("repo", "StoryRepo")
	return &storyRepo{db: db, log: repoLog}
}

func (sr *storyRepo) Create(ctx context.Context, tx *gorm.DB, story *types.Story) (*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if err := transaction.WithContext(ctx).Create(story).Error; err != nil {
		return nil, err
	}
	return story, nil
}

// GetByID returns nil when the story does not exist.
func (sr *storyRepo) GetByID(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) (*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var out types.Story
	err := transaction.WithContext(ctx).Where("id = ?", storyID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByUser returns the user's stories, most recently updated first.
func (sr *storyRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Story, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	results := []*types.Story{}
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *storyRepo) UpdateTitle(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, title string) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Story{}).
		Where("id = ?", storyID).
		Updates(map[string]any{
			"title":      title,
			"updated_at": time.Now().UTC(),
		}).Error
}

// AddWordCount bumps the running total in place and marks the story updated.
func (sr *storyRepo) AddWordCount(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, words int) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Story{}).
		Where("id = ?", storyID).
		Updates(map[string]any{
			"word_count": gorm.Expr("word_count + ?", words),
			"updated_at": time.Now().UTC(),
		}).Error
}

func (sr *storyRepo) Delete(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", storyID).
		Delete(&types.Story{}).Error
}
