package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

const continuationContextSegments = 6

// CountWords splits on any whitespace run.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

type CreateStoryInput struct {
	Title   string
	Genre   string
	Opening string
}

type ContinueResult struct {
	UserSegment *types.StorySegment `json:"user_segment"`
	AISegment   *types.StorySegment `json:"ai_segment"`
}

type StoryService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateStoryInput) (*types.Story, error)
	AddSegment(ctx context.Context, userID, storyID uuid.UUID, author, text string) (*types.StorySegment, error)
	Continue(ctx context.Context, userID, storyID uuid.UUID, userText string, opts ContinueOptions) (*ContinueResult, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Story, error)
	Get(ctx context.Context, userID, storyID uuid.UUID) (*types.Story, error)
	UpdateTitle(ctx context.Context, userID, storyID uuid.UUID, title string) error
	Delete(ctx context.Context, userID, storyID uuid.UUID) error
	SuggestTitles(ctx context.Context, userID, storyID uuid.UUID, count int) ([]string, error)
	RandomCharacter(ctx context.Context, userID, storyID uuid.UUID) (GeneratedCharacter, error)
	AnalyzeTone(ctx context.Context, userID, storyID uuid.UUID) (ToneAnalysis, error)
}

type storyService struct {
	db            *gorm.DB
	log           *logger.Logger
	storyRepo     repos.StoryRepo
	segmentRepo   repos.SegmentRepo
	characterRepo repos.CharacterRepo
	historyRepo   repos.HistoryRepo
	analytics     AnalyticsService
	history       StoryHistoryService
	ai            StoryAIService
	avatars       AvatarService
}

func NewStoryService(
	db *gorm.DB,
	log *logger.Logger,
	storyRepo repos.StoryRepo,
	segmentRepo repos.SegmentRepo,
	characterRepo repos.CharacterRepo,
	historyRepo repos.HistoryRepo,
	analytics AnalyticsService,
	history StoryHistoryService,
	ai StoryAIService,
	avatars AvatarService,
) StoryService {
	return &storyService{
		db:            db,
		log:           log.With("service", "StoryService"),
		storyRepo:     storyRepo,
		segmentRepo:   segmentRepo,
		characterRepo: characterRepo,
		historyRepo:   historyRepo,
		analytics:     analytics,
		history:       history,
		ai:            ai,
		avatars:       avatars,
	}
}

func (ss *storyService) Create(ctx context.Context, userID uuid.UUID, in CreateStoryInput) (*types.Story, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, invalid("invalid_title", "title required")
	}
	opening := strings.TrimSpace(in.Opening)

	story := &types.Story{
		UserID: userID,
		Title:  title,
		Genre:  strings.TrimSpace(in.Genre),
	}
	var openingSeg *types.StorySegment
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ss.storyRepo.Create(ctx, tx, story); err != nil {
			return fmt.Errorf("create story: %w", err)
		}
		if opening == "" {
			return nil
		}
		seg, err := ss.appendSegment(ctx, tx, story.ID, types.AuthorUser, opening)
		if err != nil {
			return err
		}
		openingSeg = seg
		story.WordCount = seg.WordCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	ss.analytics.TrackStoryCreated(ctx, userID)
	if openingSeg != nil {
		ss.trackWords(ctx, userID, openingSeg.WordCount)
		story.Segments = []*types.StorySegment{openingSeg}
	}
	logBestEffort(ctx, ss.log, ss.history, story.ID, userID, types.HistoryCreated, "Story created", map[string]any{"title": story.Title})
	return story, nil
}

func (ss *storyService) appendSegment(ctx context.Context, tx *gorm.DB, storyID uuid.UUID, author, text string) (*types.StorySegment, error) {
	seg := &types.StorySegment{
		StoryID:   storyID,
		Author:    author,
		Text:      text,
		WordCount: CountWords(text),
	}
	if _, err := ss.segmentRepo.Append(ctx, tx, seg); err != nil {
		return nil, fmt.Errorf("append segment: %w",
			storeConflict("segment_conflict", "story changed while saving; retry", err))
	}
	if err := ss.storyRepo.AddWordCount(ctx, tx, storyID, seg.WordCount); err != nil {
		return nil, fmt.Errorf("update story word count: %w", err)
	}
	return seg, nil
}

func (ss *storyService) trackWords(ctx context.Context, userID uuid.UUID, words int) {
	if _, err := ss.analytics.TrackWordsWritten(ctx, userID, words); err != nil {
		ss.log.Warn("track words written failed", "user_id", userID, "error", err)
	}
}

func (ss *storyService) AddSegment(ctx context.Context, userID, storyID uuid.UUID, author, text string) (*types.StorySegment, error) {
	if author != types.AuthorUser && author != types.AuthorAI {
		return nil, invalid("invalid_author", fmt.Sprintf("author must be %q or %q", types.AuthorUser, types.AuthorAI))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("invalid_text", "segment text required")
	}
	if _, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID); err != nil {
		return nil, err
	}
	var seg *types.StorySegment
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		s, err := ss.appendSegment(ctx, tx, storyID, author, text)
		seg = s
		return err
	})
	if err != nil {
		return nil, err
	}
	if author == types.AuthorUser {
		ss.trackWords(ctx, userID, seg.WordCount)
	}
	logBestEffort(ctx, ss.log, ss.history, storyID, userID, types.HistorySegmentAdded, "Segment added", map[string]any{
		"author":     author,
		"word_count": seg.WordCount,
	})
	return seg, nil
}

func (ss *storyService) Continue(ctx context.Context, userID, storyID uuid.UUID, userText string, opts ContinueOptions) (*ContinueResult, error) {
	story, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(userText) == "" {
		return nil, invalid("invalid_text", "segment text required")
	}
	recent, err := ss.segmentRepo.ListRecent(ctx, nil, storyID, continuationContextSegments)
	if err != nil {
		return nil, fmt.Errorf("load recent segments: %w", err)
	}

	userSeg, err := ss.AddSegment(ctx, userID, storyID, types.AuthorUser, userText)
	if err != nil {
		return nil, err
	}
	reply := ss.ai.ContinueStory(ctx, userText, continuationContext(story, recent), opts)
	aiSeg, err := ss.AddSegment(ctx, userID, storyID, types.AuthorAI, reply)
	if err != nil {
		return nil, err
	}
	return &ContinueResult{UserSegment: userSeg, AISegment: aiSeg}, nil
}

func continuationContext(story *types.Story, recent []*types.StorySegment) string {
	parts := []string{}
	if story.Title != "" {
		parts = append(parts, "Title: "+story.Title+".")
	}
	if story.Genre != "" {
		parts = append(parts, "Genre: "+story.Genre+".")
	}
	for _, seg := range recent {
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}

func (ss *storyService) List(ctx context.Context, userID uuid.UUID) ([]*types.Story, error) {
	return ss.storyRepo.ListByUser(ctx, nil, userID)
}

func (ss *storyService) Get(ctx context.Context, userID, storyID uuid.UUID) (*types.Story, error) {
	story, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID)
	if err != nil {
		return nil, err
	}
	segs, err := ss.segmentRepo.ListByStory(ctx, nil, storyID)
	if err != nil {
		return nil, fmt.Errorf("load segments: %w", err)
	}
	story.Segments = segs
	return story, nil
}

func (ss *storyService) UpdateTitle(ctx context.Context, userID, storyID uuid.UUID, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return invalid("invalid_title", "title required")
	}
	story, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID)
	if err != nil {
		return err
	}
	if err := ss.storyRepo.UpdateTitle(ctx, nil, storyID, title); err != nil {
		return fmt.Errorf("update story title: %w", err)
	}
	logBestEffort(ctx, ss.log, ss.history, storyID, userID, types.HistoryUpdated, "Title updated", map[string]any{
		"from": story.Title,
		"to":   title,
	})
	return nil
}

// Delete removes the story with its segments, characters and history, then
// drops stored avatar objects best-effort.
func (ss *storyService) Delete(ctx context.Context, userID, storyID uuid.UUID) error {
	if _, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID); err != nil {
		return err
	}
	chars, err := ss.characterRepo.ListByStory(ctx, nil, storyID)
	if err != nil {
		return fmt.Errorf("load characters: %w", err)
	}

	err = ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.segmentRepo.DeleteByStory(ctx, tx, storyID); err != nil {
			return fmt.Errorf("delete segments: %w", err)
		}
		if err := ss.characterRepo.DeleteByStory(ctx, tx, storyID); err != nil {
			return fmt.Errorf("delete characters: %w", err)
		}
		if err := ss.historyRepo.DeleteByStory(ctx, tx, storyID); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		if err := ss.storyRepo.Delete(ctx, tx, storyID); err != nil {
			return fmt.Errorf("delete story: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	ss.analytics.InvalidateSummary(ctx, userID)

	for _, c := range chars {
		if c.AvatarStorageKey == nil || ss.avatars == nil {
			continue
		}
		if err := ss.avatars.DeleteStored(ctx, *c.AvatarStorageKey); err != nil {
			ss.log.Warn("failed to delete avatar object (ignored)", "key", *c.AvatarStorageKey, "error", err)
		}
	}
	return nil
}

func (ss *storyService) storyText(ctx context.Context, storyID uuid.UUID) (string, error) {
	segs, err := ss.segmentRepo.ListByStory(ctx, nil, storyID)
	if err != nil {
		return "", fmt.Errorf("load segments: %w", err)
	}
	texts := make([]string, 0, len(segs))
	for _, s := range segs {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, "\n"), nil
}

func (ss *storyService) SuggestTitles(ctx context.Context, userID, storyID uuid.UUID, count int) ([]string, error) {
	if _, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID); err != nil {
		return nil, err
	}
	content, err := ss.storyText(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return ss.ai.SuggestTitles(ctx, content, count), nil
}

func (ss *storyService) RandomCharacter(ctx context.Context, userID, storyID uuid.UUID) (GeneratedCharacter, error) {
	story, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID)
	if err != nil {
		return GeneratedCharacter{}, err
	}
	content, err := ss.storyText(ctx, storyID)
	if err != nil {
		return GeneratedCharacter{}, err
	}
	return ss.ai.RandomCharacter(ctx, story.Title, content), nil
}

func (ss *storyService) AnalyzeTone(ctx context.Context, userID, storyID uuid.UUID) (ToneAnalysis, error) {
	if _, err := loadOwnedStory(ctx, ss.storyRepo, userID, storyID); err != nil {
		return ToneAnalysis{}, err
	}
	content, err := ss.storyText(ctx, storyID)
	if err != nil {
		return ToneAnalysis{}, err
	}
	return ss.ai.AnalyzeTone(ctx, content), nil
}
