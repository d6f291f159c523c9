package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mysticwriter-backend/internal/http/response"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type AvatarHandler struct {
	log     *logger.Logger
	avatars services.AvatarService
}

func NewAvatarHandler(log *logger.Logger, avatars services.AvatarService) *AvatarHandler {
	return &AvatarHandler{
		log:     log.With("handler", "AvatarHandler"),
		avatars: avatars,
	}
}

type generateAvatarRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	StoryContext string `json:"story_context"`
}

// POST /api/avatars/generate
// A soft failure is still a 200 with an empty url.
func (h *AvatarHandler) GenerateAvatar(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req generateAvatarRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		response.RespondError(c, http.StatusBadRequest, "invalid_name", nil)
		return
	}
	res := h.avatars.GenerateAvatar(c.Request.Context(), req.Name, req.Description, req.StoryContext)
	response.RespondOK(c, res)
}
