package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mysticwriter-backend/internal/http/response"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type StoryHandler struct {
	log     *logger.Logger
	stories services.StoryService
}

func NewStoryHandler(log *logger.Logger, stories services.StoryService) *StoryHandler {
	return &StoryHandler{
		log:     log.With("handler", "StoryHandler"),
		stories: stories,
	}
}

type createStoryRequest struct {
	Title   string `json:"title"`
	Genre   string `json:"genre"`
	Opening string `json:"opening"`
}

// POST /api/stories
func (h *StoryHandler) CreateStory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req createStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	story, err := h.stories.Create(c.Request.Context(), userID, services.CreateStoryInput{
		Title:   req.Title,
		Genre:   req.Genre,
		Opening: req.Opening,
	})
	if err != nil {
		h.log.Warn("CreateStory failed", "error", err)
		response.RespondErr(c, "create_story_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"story": story})
}

// GET /api/stories
func (h *StoryHandler) ListStories(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stories, err := h.stories.List(c.Request.Context(), userID)
	if err != nil {
		h.log.Error("ListStories failed", "error", err)
		response.RespondErr(c, "list_stories_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"stories": stories})
}

// GET /api/stories/:id
func (h *StoryHandler) GetStory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	story, err := h.stories.Get(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondErr(c, "load_story_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"story": story})
}

type updateStoryRequest struct {
	Title string `json:"title"`
}

// PATCH /api/stories/:id
func (h *StoryHandler) UpdateStory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	var req updateStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.stories.UpdateTitle(c.Request.Context(), userID, storyID, req.Title); err != nil {
		response.RespondErr(c, "update_story_failed", err)
		return
	}
	story, err := h.stories.Get(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondErr(c, "load_story_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"story": story})
}

// DELETE /api/stories/:id
func (h *StoryHandler) DeleteStory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	if err := h.stories.Delete(c.Request.Context(), userID, storyID); err != nil {
		h.log.Warn("DeleteStory failed", "story_id", storyID, "error", err)
		response.RespondErr(c, "delete_story_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addSegmentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// POST /api/stories/:id/segments
func (h *StoryHandler) AddSegment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	var req addSegmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Author == "" {
		req.Author = "user"
	}
	seg, err := h.stories.AddSegment(c.Request.Context(), userID, storyID, req.Author, req.Text)
	if err != nil {
		response.RespondErr(c, "add_segment_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"segment": seg})
}

type continueStoryRequest struct {
	Text string `json:"text"`
	services.ContinueOptions
}

// POST /api/stories/:id/continue
func (h *StoryHandler) ContinueStory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	var req continueStoryRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.stories.Continue(c.Request.Context(), userID, storyID, req.Text, req.ContinueOptions)
	if err != nil {
		response.RespondErr(c, "continue_story_failed", err)
		return
	}
	response.RespondOK(c, res)
}

type suggestTitlesRequest struct {
	Count int `json:"count"`
}

// POST /api/stories/:id/titles
func (h *StoryHandler) SuggestTitles(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	var req suggestTitlesRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	titles, err := h.stories.SuggestTitles(c.Request.Context(), userID, storyID, req.Count)
	if err != nil {
		response.RespondErr(c, "suggest_titles_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"titles": titles})
}

// POST /api/stories/:id/random-character
func (h *StoryHandler) RandomCharacter(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	char, err := h.stories.RandomCharacter(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondErr(c, "random_character_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"character": char})
}

// POST /api/stories/:id/tone
func (h *StoryHandler) AnalyzeTone(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	tone, err := h.stories.AnalyzeTone(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondErr(c, "analyze_tone_failed", err)
		return
	}
	response.RespondOK(c, tone)
}
