package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mysticwriter-backend/internal/http/response"
	"github.com/yungbote/mysticwriter-backend/internal/modules/analytics"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type AnalyticsHandler struct {
	log       *logger.Logger
	analytics services.AnalyticsService
}

func NewAnalyticsHandler(log *logger.Logger, analytics services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{
		log:       log.With("handler", "AnalyticsHandler"),
		analytics: analytics,
	}
}

// GET /api/analytics/summary
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	response.RespondOK(c, h.analytics.GetSummary(c.Request.Context(), userID))
}

// GET /api/analytics?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *AnalyticsHandler) GetRange(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	start := strings.TrimSpace(c.Query("start"))
	end := strings.TrimSpace(c.Query("end"))
	if err := analytics.ValidateRange(start, end); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_date_range", err)
		return
	}
	response.RespondOK(c, gin.H{
		"start":   start,
		"end":     end,
		"records": h.analytics.GetByDateRange(c.Request.Context(), userID, start, end),
	})
}

type trackWordsRequest struct {
	Words *int `json:"words" binding:"required"`
}

// POST /api/analytics/words
func (h *AnalyticsHandler) TrackWords(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req trackWordsRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.analytics.TrackWordsWritten(c.Request.Context(), userID, *req.Words)
	if err != nil {
		h.log.Warn("TrackWords failed", "error", err)
		response.RespondErr(c, "track_words_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"record": rec})
}
