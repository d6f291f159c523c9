package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/apierr"
)

func ptr[T any](v T) *T { return &v }

func TestProfileServiceDefaultsAndPartialUpdate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewProfileService(testLog(), h.profiles, nil, nil)
	userID := uuid.New()

	p, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, userID, p.UserID)
	require.Equal(t, types.ThemeSystem, p.Theme)
	require.True(t, p.NotificationsEnabled)

	p, err = svc.UpdateProfile(ctx, userID, UpdateProfileInput{Nickname: ptr("  Wren "), NotificationsEnabled: ptr(false)})
	require.NoError(t, err)
	if p.Nickname != "Wren" {
		t.Fatalf("nickname: want=%q got=%q", "Wren", p.Nickname)
	}
	require.False(t, p.NotificationsEnabled)
	require.Equal(t, types.ThemeSystem, p.Theme)

	_, err = svc.UpdateProfile(ctx, userID, UpdateProfileInput{Theme: ptr("neon")})
	require.True(t, errors.Is(err, ErrInvalidInput))
	ae, ok := apierr.From(err)
	require.True(t, ok)
	require.Equal(t, "invalid_theme", ae.Code)
}

func TestProfileServicePreferences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewProfileService(testLog(), h.profiles, nil, nil)
	userID := uuid.New()

	prefs, err := svc.GetPreferences(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, Preferences{Theme: types.ThemeSystem, NotificationsEnabled: true, EmailNotifications: true, StorySuggestions: true}, prefs)

	prefs, err = svc.UpdatePreferences(ctx, userID, UpdatePreferencesInput{
		Theme:              ptr(types.ThemeDark),
		EmailNotifications: ptr(false),
		PrivateProfile:     ptr(true),
	})
	require.NoError(t, err)
	require.Equal(t, Preferences{Theme: types.ThemeDark, NotificationsEnabled: true, PrivateProfile: true, StorySuggestions: true}, prefs)

	// Preferences and profile are one row.
	p, err := svc.GetProfile(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, types.ThemeDark, p.Theme)
	require.True(t, p.PrivateProfile)
}

func TestProfileServiceUploadAvatar(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	bucket := newFakeBucket()
	svc := NewProfileService(testLog(), h.profiles, bucket, fixedClock(now))
	userID := uuid.New()

	p, err := svc.UploadAvatar(ctx, userID, "data:image/png;base64,"+pngPayload(t))
	require.NoError(t, err)
	wantKey := "avatar-user-" + userID.String() + "-1782892800000.jpg"
	require.NotNil(t, p.AvatarURL)
	require.Equal(t, bucket.GetPublicURL(wantKey), *p.AvatarURL)
	require.Contains(t, bucket.uploaded, wantKey)

	// A second upload replaces the first object.
	later := NewProfileService(testLog(), h.profiles, bucket, fixedClock(now.Add(time.Second)))
	_, err = later.UploadAvatar(ctx, userID, pngPayload(t))
	require.NoError(t, err)
	require.Equal(t, []string{wantKey}, bucket.deleted)

	_, err = svc.UploadAvatar(ctx, userID, "not an image")
	require.True(t, errors.Is(err, ErrInvalidInput))
}

func TestProfileServiceUploadAvatarWithoutStorage(t *testing.T) {
	h := newHarness(t)
	svc := NewProfileService(testLog(), h.profiles, nil, nil)
	_, err := svc.UploadAvatar(context.Background(), uuid.New(), pngPayload(t))
	ae, ok := apierr.From(err)
	require.True(t, ok)
	if ae.Status != http.StatusServiceUnavailable {
		t.Fatalf("status: want=%d got=%d", http.StatusServiceUnavailable, ae.Status)
	}
}
