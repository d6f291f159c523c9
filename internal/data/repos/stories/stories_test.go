package stories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yungbote/mysticwriter-backend/internal/data/dberr"
	"github.com/yungbote/mysticwriter-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
)

func TestStoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewStoryRepo(db, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	older, err := repo.Create(ctx, tx, &types.Story{UserID: userID, Title: "First"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, older.ID)
	newer, err := repo.Create(ctx, tx, &types.Story{UserID: userID, Title: "Second"})
	require.NoError(t, err)
	_, err = repo.Create(ctx, tx, &types.Story{UserID: uuid.New(), Title: "Someone else"})
	require.NoError(t, err)

	// Bumping word count moves the older story to the top.
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, repo.AddWordCount(ctx, tx, older.ID, 7))
	require.NoError(t, repo.AddWordCount(ctx, tx, older.ID, 3))

	list, err := repo.ListByUser(ctx, tx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	if list[0].ID != older.ID || list[1].ID != newer.ID {
		t.Fatalf("ListByUser: want updated_at desc, got %q,%q", list[0].Title, list[1].Title)
	}
	if list[0].WordCount != 10 {
		t.Fatalf("AddWordCount: want=10 got=%d", list[0].WordCount)
	}

	require.NoError(t, repo.UpdateTitle(ctx, tx, newer.ID, "Renamed"))
	got, err := repo.GetByID(ctx, tx, newer.ID)
	require.NoError(t, err)
	if got.Title != "Renamed" {
		t.Fatalf("UpdateTitle: want=%q got=%q", "Renamed", got.Title)
	}

	require.NoError(t, repo.Delete(ctx, tx, newer.ID))
	got, err = repo.GetByID(ctx, tx, newer.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSegmentRepoAppendAssignsPositions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSegmentRepo(db, testutil.Logger(t))
	ctx := context.Background()
	story := testutil.SeedStory(t, ctx, tx, uuid.New(), "Tale")

	texts := []string{"Once upon a time", "a dragon woke", "and spoke", "softly"}
	for i, txt := range texts {
		author := types.AuthorUser
		if i%2 == 1 {
			author = types.AuthorAI
		}
		seg, err := repo.Append(ctx, tx, &types.StorySegment{StoryID: story.ID, Author: author, Text: txt})
		require.NoError(t, err)
		if seg.Position != i {
			t.Fatalf("Append #%d: want position=%d got=%d", i, i, seg.Position)
		}
	}

	all, err := repo.ListByStory(ctx, tx, story.ID)
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i, seg := range all {
		if seg.Text != texts[i] {
			t.Fatalf("ListByStory[%d]: want=%q got=%q", i, texts[i], seg.Text)
		}
	}

	recent, err := repo.ListRecent(ctx, tx, story.ID, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	if recent[0].Text != "and spoke" || recent[1].Text != "softly" {
		t.Fatalf("ListRecent: unexpected order %q,%q", recent[0].Text, recent[1].Text)
	}

	require.NoError(t, repo.DeleteByStory(ctx, tx, story.ID))
	all, err = repo.ListByStory(ctx, tx, story.ID)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestCharacterRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewCharacterRepo(db, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()
	s1 := testutil.SeedStory(t, ctx, tx, userID, "One")
	s2 := testutil.SeedStory(t, ctx, tx, userID, "Two")
	foreign := testutil.SeedStory(t, ctx, tx, uuid.New(), "Foreign")

	c1 := testutil.SeedCharacter(t, ctx, tx, s1.ID, "Ayla")
	testutil.SeedCharacter(t, ctx, tx, s1.ID, "Bram")
	testutil.SeedCharacter(t, ctx, tx, s2.ID, "Cato")
	testutil.SeedCharacter(t, ctx, tx, foreign.ID, "Dax")

	count, err := repo.CountByUser(ctx, tx, userID)
	require.NoError(t, err)
	if count != 3 {
		t.Fatalf("CountByUser: want=3 got=%d", count)
	}

	list, err := repo.ListByStory(ctx, tx, s1.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	newName := "Ayla the Bold"
	traits := []string{"bold", "loyal"}
	require.NoError(t, repo.Update(ctx, tx, c1.ID, CharacterUpdate{Name: &newName, Traits: &traits}))
	require.NoError(t, repo.Update(ctx, tx, c1.ID, CharacterUpdate{}))

	got, err := repo.GetByID(ctx, tx, c1.ID)
	require.NoError(t, err)
	if got.Name != newName || got.Description != "desc" {
		t.Fatalf("Update: partial update clobbered fields: %+v", got)
	}
	require.Equal(t, traits, got.TraitList())
	require.Nil(t, got.AvatarURL)

	require.NoError(t, repo.UpdateAvatar(ctx, tx, c1.ID, testutil.PtrString("https://cdn/x.jpg"), testutil.PtrString("avatar-x.jpg")))
	got, err = repo.GetByID(ctx, tx, c1.ID)
	require.NoError(t, err)
	require.Equal(t, "https://cdn/x.jpg", *got.AvatarURL)
	require.Equal(t, "avatar-x.jpg", *got.AvatarStorageKey)

	require.NoError(t, repo.UpdateAvatar(ctx, tx, c1.ID, testutil.PtrString("data:image/png;base64,AA"), nil))
	got, err = repo.GetByID(ctx, tx, c1.ID)
	require.NoError(t, err)
	require.Nil(t, got.AvatarStorageKey)

	require.NoError(t, repo.Delete(ctx, tx, c1.ID))
	got, err = repo.GetByID(ctx, tx, c1.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	require.NoError(t, repo.DeleteByStory(ctx, tx, s1.ID))
	count, err = repo.CountByUser(ctx, tx, userID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestHistoryRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewHistoryRepo(db, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()
	storyID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, action := range []string{types.HistoryCreated, types.HistorySegmentAdded, types.HistoryCharacterAdded} {
		_, err := repo.Create(ctx, tx, &types.StoryHistoryEntry{
			StoryID:   storyID,
			UserID:    userID,
			Action:    action,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, tx, &types.StoryHistoryEntry{StoryID: uuid.New(), UserID: userID, Action: types.HistoryCreated, CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	byStory, err := repo.ListByStory(ctx, tx, storyID)
	require.NoError(t, err)
	require.Len(t, byStory, 3)
	if byStory[0].Action != types.HistoryCharacterAdded {
		t.Fatalf("ListByStory: want newest first, got %q", byStory[0].Action)
	}

	byUser, err := repo.ListByUser(ctx, tx, userID)
	require.NoError(t, err)
	require.Len(t, byUser, 4)

	require.NoError(t, repo.DeleteByStory(ctx, tx, storyID))
	byStory, err = repo.ListByStory(ctx, tx, storyID)
	require.NoError(t, err)
	require.Empty(t, byStory)
}

func TestSegmentRepoDuplicatePositionIsConflict(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	story := testutil.SeedStory(t, ctx, tx, uuid.New(), "Tale")
	testutil.SeedSegment(t, ctx, tx, story.ID, 0, types.AuthorUser, "first")

	// Same slot a racing Append would have computed.
	err := tx.WithContext(ctx).Create(&types.StorySegment{StoryID: story.ID, Position: 0, Author: types.AuthorAI, Text: "second"}).Error
	require.Error(t, err)
	if !dberr.IsConflict(err) {
		t.Fatalf("duplicate position: want conflict, got %v", err)
	}
}

func TestSegmentRepoCountByAuthorForUser(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSegmentRepo(db, testutil.Logger(t))
	ctx := context.Background()
	userID := uuid.New()

	a := testutil.SeedStory(t, ctx, tx, userID, "A")
	b := testutil.SeedStory(t, ctx, tx, userID, "B")
	other := testutil.SeedStory(t, ctx, tx, uuid.New(), "Not mine")
	testutil.SeedSegment(t, ctx, tx, a.ID, 0, types.AuthorUser, "one")
	testutil.SeedSegment(t, ctx, tx, a.ID, 1, types.AuthorAI, "two")
	testutil.SeedSegment(t, ctx, tx, b.ID, 0, types.AuthorUser, "three")
	testutil.SeedSegment(t, ctx, tx, other.ID, 0, types.AuthorAI, "four")

	got, err := repo.CountByAuthorForUser(ctx, tx, userID)
	require.NoError(t, err)
	require.Equal(t, map[string]int64{types.AuthorUser: 2, types.AuthorAI: 1}, got)

	empty, err := repo.CountByAuthorForUser(ctx, tx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, empty)
}
