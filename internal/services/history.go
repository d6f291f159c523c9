package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

type StoryHistoryService interface {
	LogAction(ctx context.Context, storyID, userID uuid.UUID, action, description string, changes map[string]any) (*types.StoryHistoryEntry, error)
	GetStoryHistory(ctx context.Context, userID, storyID uuid.UUID) ([]*types.StoryHistoryEntry, error)
	GetUserStoryHistory(ctx context.Context, userID uuid.UUID) ([]*types.StoryHistoryEntry, error)
}

type storyHistoryService struct {
	log         *logger.Logger
	historyRepo repos.HistoryRepo
	storyRepo   repos.StoryRepo
}

func NewStoryHistoryService(log *logger.Logger, historyRepo repos.HistoryRepo, storyRepo repos.StoryRepo) StoryHistoryService {
	return &storyHistoryService{
		log:         log.With("service", "StoryHistoryService"),
		historyRepo: historyRepo,
		storyRepo:   storyRepo,
	}
}

func validHistoryAction(action string) bool {
	switch action {
	case types.HistoryCreated, types.HistoryUpdated, types.HistorySegmentAdded, types.HistoryCharacterAdded:
		return true
	}
	return false
}

func (hs *storyHistoryService) LogAction(ctx context.Context, storyID, userID uuid.UUID, action, description string, changes map[string]any) (*types.StoryHistoryEntry, error) {
	if !validHistoryAction(action) {
		return nil, invalid("invalid_action", fmt.Sprintf("unknown history action %q", action))
	}
	entry := &types.StoryHistoryEntry{
		StoryID:     storyID,
		UserID:      userID,
		Action:      action,
		Description: description,
	}
	if len(changes) > 0 {
		raw, err := json.Marshal(changes)
		if err != nil {
			return nil, fmt.Errorf("encode history changes: %w", err)
		}
		entry.Changes = datatypes.JSON(raw)
	}
	out, err := hs.historyRepo.Create(ctx, nil, entry)
	if err != nil {
		return nil, fmt.Errorf("log story action: %w", err)
	}
	return out, nil
}

func (hs *storyHistoryService) GetStoryHistory(ctx context.Context, userID, storyID uuid.UUID) ([]*types.StoryHistoryEntry, error) {
	if _, err := loadOwnedStory(ctx, hs.storyRepo, userID, storyID); err != nil {
		return nil, err
	}
	return hs.historyRepo.ListByStory(ctx, nil, storyID)
}

func (hs *storyHistoryService) GetUserStoryHistory(ctx context.Context, userID uuid.UUID) ([]*types.StoryHistoryEntry, error) {
	return hs.historyRepo.ListByUser(ctx, nil, userID)
}

// logBestEffort records an audit row; failures never fail the caller.
func logBestEffort(ctx context.Context, log *logger.Logger, hs StoryHistoryService, storyID, userID uuid.UUID, action, description string, changes map[string]any) {
	if hs == nil {
		return
	}
	if _, err := hs.LogAction(ctx, storyID, userID, action, description, changes); err != nil {
		log.Warn("story history write failed", "story_id", storyID, "action", action, "error", err)
	}
}

func loadOwnedStory(ctx context.Context, storyRepo repos.StoryRepo, userID, storyID uuid.UUID) (*types.Story, error) {
	story, err := storyRepo.GetByID(ctx, nil, storyID)
	if err != nil {
		return nil, fmt.Errorf("load story: %w", err)
	}
	if story == nil {
		return nil, notFound("story_not_found", "story not found")
	}
	if story.UserID != userID {
		return nil, forbidden("story belongs to another user")
	}
	return story, nil
}
