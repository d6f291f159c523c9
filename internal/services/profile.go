package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/modules/avatar"
	"github.com/yungbote/mysticwriter-backend/internal/platform/apierr"
	"github.com/yungbote/mysticwriter-backend/internal/platform/dbctx"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gcp"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

// UpdateProfileInput is partial; nil fields are left alone.
type UpdateProfileInput struct {
	Nickname             *string
	Bio                  *string
	Theme                *string
	NotificationsEnabled *bool
	PrivateProfile       *bool
}

type Preferences struct {
	Theme                string `json:"theme"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	PrivateProfile       bool   `json:"private_profile"`
	EmailNotifications   bool   `json:"email_notifications"`
	StorySuggestions     bool   `json:"story_suggestions"`
}

type UpdatePreferencesInput struct {
	Theme                *string
	NotificationsEnabled *bool
	PrivateProfile       *bool
	EmailNotifications   *bool
	StorySuggestions     *bool
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*types.UserProfile, error)
	GetPreferences(ctx context.Context, userID uuid.UUID) (Preferences, error)
	UpdatePreferences(ctx context.Context, userID uuid.UUID, in UpdatePreferencesInput) (Preferences, error)
	// UploadAvatar stores a base64 image (optionally a data URL) as the
	// user's profile picture and replaces any previous upload.
	UploadAvatar(ctx context.Context, userID uuid.UUID, payload string) (*types.UserProfile, error)
}

type profileService struct {
	log         *logger.Logger
	profileRepo repos.ProfileRepo
	bucket      gcp.BucketService
	clock       Clock
}

// NewProfileService wires profiles. bucket may be nil; uploads then fail
// with 503 while everything else keeps working.
func NewProfileService(log *logger.Logger, profileRepo repos.ProfileRepo, bucket gcp.BucketService, clock Clock) ProfileService {
	if clock == nil {
		clock = systemClock
	}
	return &profileService{
		log:         log.With("service", "ProfileService"),
		profileRepo: profileRepo,
		bucket:      bucket,
		clock:       clock,
	}
}

func (ps *profileService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	p, err := ps.profileRepo.GetOrCreate(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	return p, nil
}

func (ps *profileService) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*types.UserProfile, error) {
	fields := map[string]any{}
	if in.Nickname != nil {
		fields["nickname"] = strings.TrimSpace(*in.Nickname)
	}
	if in.Bio != nil {
		fields["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.Theme != nil {
		theme := strings.TrimSpace(*in.Theme)
		if !types.ValidTheme(theme) {
			return nil, invalidTheme(theme)
		}
		fields["theme"] = theme
	}
	if in.NotificationsEnabled != nil {
		fields["notifications_enabled"] = *in.NotificationsEnabled
	}
	if in.PrivateProfile != nil {
		fields["private_profile"] = *in.PrivateProfile
	}
	return ps.apply(ctx, userID, fields)
}

func (ps *profileService) GetPreferences(ctx context.Context, userID uuid.UUID) (Preferences, error) {
	p, err := ps.GetProfile(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	return preferencesOf(p), nil
}

func (ps *profileService) UpdatePreferences(ctx context.Context, userID uuid.UUID, in UpdatePreferencesInput) (Preferences, error) {
	fields := map[string]any{}
	if in.Theme != nil {
		theme := strings.TrimSpace(*in.Theme)
		if !types.ValidTheme(theme) {
			return Preferences{}, invalidTheme(theme)
		}
		fields["theme"] = theme
	}
	for col, v := range map[string]*bool{
		"notifications_enabled": in.NotificationsEnabled,
		"private_profile":       in.PrivateProfile,
		"email_notifications":   in.EmailNotifications,
		"story_suggestions":     in.StorySuggestions,
	} {
		if v != nil {
			fields[col] = *v
		}
	}
	p, err := ps.apply(ctx, userID, fields)
	if err != nil {
		return Preferences{}, err
	}
	return preferencesOf(p), nil
}

func (ps *profileService) UploadAvatar(ctx context.Context, userID uuid.UUID, payload string) (*types.UserProfile, error) {
	if strings.TrimSpace(payload) == "" {
		return nil, invalid("invalid_image", "image required")
	}
	if ps.bucket == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "storage_disabled", errors.New("object storage is disabled"))
	}
	processed, err := avatar.ProcessBase64(payload)
	if err != nil {
		return nil, invalid("invalid_image", err.Error())
	}
	prev, err := ps.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := avatar.UserObjectKey(userID.String(), ps.clock.now())
	obj, err := ps.bucket.UploadFile(dbctx.Context{Ctx: ctx}, key, bytes.NewReader(processed))
	if err != nil {
		return nil, fmt.Errorf("upload profile avatar: %w", err)
	}
	storedKey := obj.Key
	if storedKey == "" {
		storedKey = key
	}
	url := strings.TrimSpace(obj.URL)
	if url == "" {
		url = ps.bucket.GetPublicURL(storedKey)
	}

	p, err := ps.apply(ctx, userID, map[string]any{"avatar_url": url, "avatar_storage_key": storedKey})
	if err != nil {
		return nil, err
	}
	if prev.AvatarStorageKey != nil && *prev.AvatarStorageKey != storedKey {
		if err := ps.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, *prev.AvatarStorageKey); err != nil {
			ps.log.Warn("failed to delete previous profile avatar (ignored)", "key", *prev.AvatarStorageKey, "error", err)
		}
	}
	return p, nil
}

func (ps *profileService) apply(ctx context.Context, userID uuid.UUID, fields map[string]any) (*types.UserProfile, error) {
	if _, err := ps.profileRepo.GetOrCreate(ctx, nil, userID); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if err := ps.profileRepo.Update(ctx, nil, userID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return ps.GetProfile(ctx, userID)
}

func preferencesOf(p *types.UserProfile) Preferences {
	return Preferences{
		Theme:                p.Theme,
		NotificationsEnabled: p.NotificationsEnabled,
		PrivateProfile:       p.PrivateProfile,
		EmailNotifications:   p.EmailNotifications,
		StorySuggestions:     p.StorySuggestions,
	}
}

func invalidTheme(theme string) error {
	return invalid("invalid_theme", fmt.Sprintf("theme must be %q, %q or %q, got %q", types.ThemeLight, types.ThemeDark, types.ThemeSystem, theme))
}
