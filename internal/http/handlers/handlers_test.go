package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	"github.com/yungbote/mysticwriter-backend/internal/data/repos/testutil"
	"github.com/yungbote/mysticwriter-backend/internal/platform/ctxutil"
	"github.com/yungbote/mysticwriter-backend/internal/platform/imagegen"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/platform/openai"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type cannedChat struct{}

func (cannedChat) ChatCompletion(_ context.Context, _ []openai.Message, _ openai.ChatOptions) (string, error) {
	return "A lantern flickered.", nil
}

type failingGenerator struct{}

func (failingGenerator) GenerateImage(context.Context, string) (imagegen.Image, error) {
	return imagegen.Image{}, errors.New("quota exceeded")
}

// withUser stands in for the auth middleware; X-Test-User carries the caller.
func withUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := c.GetHeader("X-Test-User"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), id))
			}
		}
		c.Next()
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := logger.NewNop()

	storyRepo := repos.NewStoryRepo(db, log)
	segmentRepo := repos.NewSegmentRepo(db, log)
	characterRepo := repos.NewCharacterRepo(db, log)
	historyRepo := repos.NewHistoryRepo(db, log)
	activityRepo := repos.NewActivityRepo(db, log)
	profileRepo := repos.NewProfileRepo(db, log)

	an := services.NewAnalyticsService(log, activityRepo, characterRepo, services.AnalyticsConfig{})
	hist := services.NewStoryHistoryService(log, historyRepo, storyRepo)
	ai := services.NewStoryAIService(log, cannedChat{})
	av := services.NewAvatarService(log, failingGenerator{}, nil, nil)
	stories := services.NewStoryService(db, log, storyRepo, segmentRepo, characterRepo, historyRepo, an, hist, ai, av)
	chars := services.NewCharacterService(log, storyRepo, characterRepo, ai, av, an, hist)

	analyticsH := NewAnalyticsHandler(log, an)
	storyH := NewStoryHandler(log, stories)
	charH := NewCharacterHandler(log, chars, nil)
	avatarH := NewAvatarHandler(log, av)
	historyH := NewHistoryHandler(log, hist)
	userH := NewUserHandler(log, services.NewProfileService(log, profileRepo, nil, nil),
		services.NewUserStatsService(log, storyRepo, segmentRepo, an))

	r := gin.New()
	api := r.Group("/api", withUser())
	api.GET("/analytics/summary", analyticsH.GetSummary)
	api.GET("/analytics", analyticsH.GetRange)
	api.POST("/analytics/words", analyticsH.TrackWords)
	api.POST("/stories", storyH.CreateStory)
	api.GET("/stories/:id", storyH.GetStory)
	api.DELETE("/stories/:id", storyH.DeleteStory)
	api.POST("/stories/:id/continue", storyH.ContinueStory)
	api.POST("/stories/:id/characters", charH.CreateCharacter)
	api.GET("/stories/:id/history", historyH.GetStoryHistory)
	api.POST("/avatars/generate", avatarH.GenerateAvatar)
	api.GET("/users/me/stats", userH.GetStats)
	api.GET("/users/me/preferences", userH.GetPreferences)
	api.PATCH("/users/me/preferences", userH.UpdatePreferences)
	api.POST("/users/me/avatar", userH.UploadAvatar)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type storyEnvelope struct {
	Story struct {
		ID        uuid.UUID `json:"id"`
		Title     string    `json:"title"`
		WordCount int       `json:"word_count"`
		Segments  []struct {
			Author string `json:"author"`
			Text   string `json:"text"`
		} `json:"segments"`
	} `json:"story"`
}

func TestStoryLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	user := uuid.New()

	rec := do(t, r, http.MethodPost, "/api/stories", user, gin.H{"title": "Lanterns", "opening": "The pier was dark."})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: want=%d got=%d body=%s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	created := decode[storyEnvelope](t, rec)
	storyPath := "/api/stories/" + created.Story.ID.String()

	rec = do(t, r, http.MethodPost, storyPath+"/continue", user, gin.H{"text": "Someone waited."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, storyPath, user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[storyEnvelope](t, rec)
	require.Len(t, got.Story.Segments, 3)
	require.Equal(t, "ai", got.Story.Segments[2].Author)
	require.Equal(t, 4+2+3, got.Story.WordCount)

	rec = do(t, r, http.MethodGet, storyPath, uuid.New(), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, r, http.MethodGet, storyPath+"/history", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, r, http.MethodGet, "/api/analytics/summary", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]int](t, rec)
	require.Equal(t, 6, summary["words_today"])
	require.Equal(t, 1, summary["streak_days"])

	rec = do(t, r, http.MethodDelete, storyPath, user, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, r, http.MethodGet, storyPath, user, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCharacterCreatedWithoutAvatarOnGeneratorFailure(t *testing.T) {
	r := newTestRouter(t)
	user := uuid.New()
	created := decode[storyEnvelope](t, do(t, r, http.MethodPost, "/api/stories", user, gin.H{"title": "Lanterns"}))

	rec := do(t, r, http.MethodPost, "/api/stories/"+created.Story.ID.String()+"/characters", user, gin.H{"name": "Wren", "traits": []string{"quiet"}})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decode[map[string]map[string]any](t, rec)
	require.Equal(t, "Wren", body["character"]["name"])
	require.Equal(t, "A lantern flickered.", body["character"]["description"])
	_, hasAvatar := body["character"]["avatar_url"]
	require.False(t, hasAvatar)
}

func TestAvatarGenerateSoftFailure(t *testing.T) {
	r := newTestRouter(t)
	rec := do(t, r, http.MethodPost, "/api/avatars/generate", uuid.New(), gin.H{"name": "Wren", "description": "quiet"})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[services.AvatarResult](t, rec)
	require.Equal(t, "", res.URL)
	require.Equal(t, services.AvatarStageNoAvatar, res.Stage)

	rec = do(t, r, http.MethodPost, "/api/avatars/generate", uuid.New(), gin.H{"name": " "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsValidation(t *testing.T) {
	r := newTestRouter(t)
	user := uuid.New()

	cases := []struct {
		name   string
		method string
		path   string
		user   uuid.UUID
		body   any
		want   int
	}{
		{name: "unauthenticated", method: http.MethodGet, path: "/api/analytics/summary", want: http.StatusUnauthorized},
		{name: "bad range", method: http.MethodGet, path: "/api/analytics?start=2026-13-01&end=2026-01-01", user: user, want: http.StatusBadRequest},
		{name: "reversed range", method: http.MethodGet, path: "/api/analytics?start=2026-02-01&end=2026-01-01", user: user, want: http.StatusBadRequest},
		{name: "good range", method: http.MethodGet, path: "/api/analytics?start=2026-01-01&end=2026-01-31", user: user, want: http.StatusOK},
		{name: "missing words", method: http.MethodPost, path: "/api/analytics/words", user: user, body: gin.H{}, want: http.StatusBadRequest},
		{name: "negative words", method: http.MethodPost, path: "/api/analytics/words", user: user, body: gin.H{"words": -1}, want: http.StatusBadRequest},
		{name: "words", method: http.MethodPost, path: "/api/analytics/words", user: user, body: gin.H{"words": 12}, want: http.StatusOK},
		{name: "bad story id", method: http.MethodGet, path: "/api/stories/nope", user: user, want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := do(t, r, tc.method, tc.path, tc.user, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestUserStatsOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	user := uuid.New()

	rec := do(t, r, http.MethodGet, "/api/users/me/stats", uuid.Nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, r, http.MethodPost, "/api/stories", user, gin.H{"title": "Lanterns", "opening": "The pier was dark."})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[storyEnvelope](t, rec)
	rec = do(t, r, http.MethodPost, "/api/stories/"+created.Story.ID.String()+"/continue", user, gin.H{"text": "Someone waited."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/users/me/stats", user, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[struct {
		Stats struct {
			TotalStories      int        `json:"total_stories"`
			TotalSegments     int        `json:"total_segments"`
			AISegments        int        `json:"ai_segments"`
			UserSegments      int        `json:"user_segments"`
			LongestStoryID    *uuid.UUID `json:"longest_story_id"`
			LongestStoryTitle string     `json:"longest_story_title"`
		} `json:"stats"`
	}](t, rec)
	require.Equal(t, 1, got.Stats.TotalStories)
	require.Equal(t, 3, got.Stats.TotalSegments)
	require.Equal(t, 1, got.Stats.AISegments)
	require.Equal(t, 2, got.Stats.UserSegments)
	require.NotNil(t, got.Stats.LongestStoryID)
	require.Equal(t, created.Story.ID, *got.Stats.LongestStoryID)
	if got.Stats.LongestStoryTitle != "Lanterns" {
		t.Fatalf("longest title: want=%q got=%q", "Lanterns", got.Stats.LongestStoryTitle)
	}
}

func TestUserPreferencesOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	user := uuid.New()

	rec := do(t, r, http.MethodPatch, "/api/users/me/preferences", user, gin.H{"theme": "dark", "story_suggestions": false})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, r, http.MethodGet, "/api/users/me/preferences", user, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[struct {
		Preferences services.Preferences `json:"preferences"`
	}](t, rec)
	require.Equal(t, "dark", got.Preferences.Theme)
	require.False(t, got.Preferences.StorySuggestions)
	require.True(t, got.Preferences.NotificationsEnabled)

	rec = do(t, r, http.MethodPatch, "/api/users/me/preferences", user, gin.H{"theme": "sepia"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid_theme")

	// Storage is disabled in this router.
	rec = do(t, r, http.MethodPost, "/api/users/me/avatar", user, gin.H{"image": "AAAA"})
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
