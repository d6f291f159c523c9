package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedStory(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, title string) *types.Story {
	tb.Helper()
	s := &types.Story{
		ID:     uuid.New(),
		UserID: userID,
		Title:  title,
		Genre:  "fantasy",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed story: %v", err)
	}
	return s
}

func SeedSegment(tb testing.TB, ctx context.Context, tx *gorm.DB, storyID uuid.UUID, position int, author, text string) *types.StorySegment {
	tb.Helper()
	seg := &types.StorySegment{
		ID:       uuid.New(),
		StoryID:  storyID,
		Position: position,
		Author:   author,
		Text:     text,
	}
	if err := tx.WithContext(ctx).Create(seg).Error; err != nil {
		tb.Fatalf("seed segment: %v", err)
	}
	return seg
}

func SeedCharacter(tb testing.TB, ctx context.Context, tx *gorm.DB, storyID uuid.UUID, name string) *types.Character {
	tb.Helper()
	c := &types.Character{
		ID:          uuid.New(),
		StoryID:     storyID,
		Name:        name,
		Description: "desc",
		Role:        "protagonist",
		Traits:      types.TraitsJSON([]string{"brave"}),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed character: %v", err)
	}
	return c
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, words int) *types.DailyActivityRecord {
	tb.Helper()
	r := &types.DailyActivityRecord{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         date,
		WordsWritten: words,
	}
	if words > 0 {
		r.SegmentsAdded = 1
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed activity: %v", err)
	}
	return r
}

func PtrString(v string) *string { return &v }
