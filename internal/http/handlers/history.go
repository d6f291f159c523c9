package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/mysticwriter-backend/internal/http/response"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type HistoryHandler struct {
	log     *logger.Logger
	history services.StoryHistoryService
}

func NewHistoryHandler(log *logger.Logger, history services.StoryHistoryService) *HistoryHandler {
	return &HistoryHandler{
		log:     log.With("handler", "HistoryHandler"),
		history: history,
	}
}

// GET /api/stories/:id/history
func (h *HistoryHandler) GetStoryHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	entries, err := h.history.GetStoryHistory(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondErr(c, "load_history_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"history": entries})
}

// GET /api/history
func (h *HistoryHandler) GetUserHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	entries, err := h.history.GetUserStoryHistory(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("GetUserHistory failed", "error", err)
		response.RespondErr(c, "load_history_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"history": entries})
}
