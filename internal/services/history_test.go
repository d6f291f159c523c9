package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
)

func TestStoryHistoryService(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewStoryHistoryService(testLog(), h.history, h.stories)
	userID := uuid.New()
	story := testutil.SeedStory(t, ctx, h.db, userID, "Ledger")

	entry, err := svc.LogAction(ctx, story.ID, userID, types.HistoryUpdated, "Title updated", map[string]any{"to": "Ledger 2"})
	require.NoError(t, err)
	var changes map[string]string
	require.NoError(t, json.Unmarshal(entry.Changes, &changes))
	require.Equal(t, "Ledger 2", changes["to"])

	_, err = svc.LogAction(ctx, story.ID, userID, "archived", "", nil)
	require.True(t, errors.Is(err, ErrInvalidInput))

	got, err := svc.GetStoryHistory(ctx, userID, story.ID)
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = svc.GetStoryHistory(ctx, uuid.New(), story.ID)
	require.True(t, errors.Is(err, ErrForbidden))

	all, err := svc.GetUserStoryHistory(ctx, userID)
	require.NoError(t, err)
	require.Len(t, all, 1)

	none, err := svc.GetUserStoryHistory(ctx, uuid.New())
	require.NoError(t, err)
	require.Empty(t, none)
}
