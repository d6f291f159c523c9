package stories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/yungbote/mysticwriter-backend/internal/data/dberr"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type SegmentRepo interface {
	Append(ctx context.Context, tx *gorm.DB, seg *types.StorySegment) (*types.StorySegment, error)
	ListByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) ([]*types.StorySegment, error)
	ListRecent(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, limit int) ([]*types.StorySegment, error)
	DeleteByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error
	CountByAuthorForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error)
}

type segmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSegmentRepo(db *gorm.DB, baseLog *logger.Logger) SegmentRepo {
	repoLog := baseLog.With("repo", "SegmentRepo")
	return &segmentRepo{db: db, log: repoLog}
}

// Append assigns the next position in the story and inserts seg. Two appends
// racing for one position fail on the (story_id, position) unique index; that
// failure is tagged dberr.ErrConflict.
func (sr *segmentRepo) Append(ctx context.Context, tx *gorm.DB, seg *types.StorySegment) (*types.StorySegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	err := transaction.WithContext(ctx).Transaction(func(inner *gorm.DB) error {
		var maxPos sql.NullInt64
		if err := inner.Model(&types.StorySegment{}).
			Where("story_id = ?", seg.StoryID).
			Select("MAX(position)").
			Row().
			Scan(&maxPos); err != nil {
			return err
		}
		seg.Position = 0
		if maxPos.Valid {
			seg.Position = int(maxPos.Int64) + 1
		}
		return inner.Create(seg).Error
	})
	if err != nil {
		return nil, dberr.Map(err)
	}
	return seg, nil
}

// ListByStory returns segments in story order.
func (sr *segmentRepo) ListByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) ([]*types.StorySegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	results := []*types.StorySegment{}
	if err := transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// ListRecent returns the last limit segments, still in story order.
func (sr *segmentRepo) ListRecent(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, limit int) ([]*types.StorySegment, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	if limit <= 0 {
		return []*types.StorySegment{}, nil
	}
	results := []*types.StorySegment{}
	if err := transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("position DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results, nil
}

func (sr *segmentRepo) DeleteByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	return transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Delete(&types.StorySegment{}).Error
}

// CountByAuthorForUser counts segments per author across the user's stories.
// Authors with no segments are absent from the map.
func (sr *segmentRepo) CountByAuthorForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (map[string]int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}
	var rows []struct {
		Author string
		N      int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.StorySegment{}).
		Select("story_segments.author AS author, COUNT(*) AS n").
		Joins("JOIN stories ON stories.id = story_segments.story_id").
		Where("stories.user_id = ?", userID).
		Group("story_segments.author").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Author] = r.N
	}
	return out, nil
}
