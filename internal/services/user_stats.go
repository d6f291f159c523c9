package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

// WritingStats summarizes a user's stories. Lengths are in words.
type WritingStats struct {
	TotalWords         int        `json:"total_words"`
	TotalStories       int        `json:"total_stories"`
	TotalSegments      int        `json:"total_segments"`
	AISegments         int        `json:"ai_segments"`
	UserSegments       int        `json:"user_segments"`
	AverageStoryLength int        `json:"average_story_length"`
	LongestStoryID     *uuid.UUID `json:"longest_story_id,omitempty"`
	LongestStoryTitle  string     `json:"longest_story_title,omitempty"`
	LongestStoryWords  int        `json:"longest_story_words"`
	StreakDays         int        `json:"streak_days"`
	LastWrittenAt      *time.Time `json:"last_written_at,omitempty"`
}

type UserStatsService interface {
	GetWritingStats(ctx context.Context, userID uuid.UUID) (WritingStats, error)
}

type userStatsService struct {
	log         *logger.Logger
	storyRepo   repos.StoryRepo
	segmentRepo repos.SegmentRepo
	analytics   AnalyticsService
}

func NewUserStatsService(
	log *logger.Logger,
	storyRepo repos.StoryRepo,
	segmentRepo repos.SegmentRepo,
	analytics AnalyticsService,
) UserStatsService {
	return &userStatsService{
		log:         log.With("service", "UserStatsService"),
		storyRepo:   storyRepo,
		segmentRepo: segmentRepo,
		analytics:   analytics,
	}
}

// GetWritingStats reads stories newest-updated first, so among equally long
// stories the most recently touched one is reported as longest. Stories with
// no words never count as longest.
func (us *userStatsService) GetWritingStats(ctx context.Context, userID uuid.UUID) (WritingStats, error) {
	list, err := us.storyRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return WritingStats{}, fmt.Errorf("load stories: %w", err)
	}
	counts, err := us.segmentRepo.CountByAuthorForUser(ctx, nil, userID)
	if err != nil {
		return WritingStats{}, fmt.Errorf("count segments: %w", err)
	}

	out := foldStories(list)
	for author, n := range counts {
		out.TotalSegments += int(n)
		switch author {
		case types.AuthorAI:
			out.AISegments = int(n)
		case types.AuthorUser:
			out.UserSegments = int(n)
		}
	}
	if us.analytics != nil {
		out.StreakDays = us.analytics.GetSummary(ctx, userID).StreakDays
	}
	return out, nil
}

func foldStories(list []*types.Story) WritingStats {
	var out WritingStats
	for _, s := range list {
		if s == nil {
			continue
		}
		out.TotalStories++
		words := s.WordCount
		if words < 0 {
			words = 0
		}
		out.TotalWords += words
		if words > out.LongestStoryWords {
			id := s.ID
			out.LongestStoryID = &id
			out.LongestStoryTitle = s.Title
			out.LongestStoryWords = words
		}
		if out.LastWrittenAt == nil || s.UpdatedAt.After(*out.LastWrittenAt) {
			at := s.UpdatedAt
			out.LastWrittenAt = &at
		}
	}
	if out.TotalStories > 0 {
		out.AverageStoryLength = int(math.Round(float64(out.TotalWords) / float64(out.TotalStories)))
	}
	return out
}
