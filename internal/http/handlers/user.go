package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mysticwriter-backend/internal/http/response"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type UserHandler struct {
	log      *logger.Logger
	profiles services.ProfileService
	stats    services.UserStatsService
}

func NewUserHandler(log *logger.Logger, profiles services.ProfileService, stats services.UserStatsService) *UserHandler {
	return &UserHandler{
		log:      log.With("handler", "UserHandler"),
		profiles: profiles,
		stats:    stats,
	}
}

// GET /api/users/me/stats
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.stats.GetWritingStats(c.Request.Context(), userID)
	if err != nil {
		h.log.Warn("GetStats failed", "error", err)
		response.RespondErr(c, "load_stats_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /api/users/me/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	p, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, "load_profile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

type updateProfileRequest struct {
	Nickname             *string `json:"nickname"`
	Bio                  *string `json:"bio"`
	Theme                *string `json:"theme"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	PrivateProfile       *bool   `json:"private_profile"`
}

// PATCH /api/users/me/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Nickname:             req.Nickname,
		Bio:                  req.Bio,
		Theme:                req.Theme,
		NotificationsEnabled: req.NotificationsEnabled,
		PrivateProfile:       req.PrivateProfile,
	})
	if err != nil {
		response.RespondErr(c, "update_profile_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}

// GET /api/users/me/preferences
func (h *UserHandler) GetPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	prefs, err := h.profiles.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		response.RespondErr(c, "load_preferences_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

type updatePreferencesRequest struct {
	Theme                *string `json:"theme"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	PrivateProfile       *bool   `json:"private_profile"`
	EmailNotifications   *bool   `json:"email_notifications"`
	StorySuggestions     *bool   `json:"story_suggestions"`
}

// PATCH /api/users/me/preferences
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req updatePreferencesRequest
	if !bindJSON(c, &req) {
		return
	}
	prefs, err := h.profiles.UpdatePreferences(c.Request.Context(), userID, services.UpdatePreferencesInput{
		Theme:                req.Theme,
		NotificationsEnabled: req.NotificationsEnabled,
		PrivateProfile:       req.PrivateProfile,
		EmailNotifications:   req.EmailNotifications,
		StorySuggestions:     req.StorySuggestions,
	})
	if err != nil {
		response.RespondErr(c, "update_preferences_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": prefs})
}

type uploadAvatarRequest struct {
	Image string `json:"image" binding:"required"`
}

// POST /api/users/me/avatar
// image is base64, optionally as a data URL.
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req uploadAvatarRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.profiles.UploadAvatar(c.Request.Context(), userID, req.Image)
	if err != nil {
		h.log.Warn("UploadAvatar failed", "error", err)
		response.RespondErr(c, "upload_avatar_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"profile": p})
}
