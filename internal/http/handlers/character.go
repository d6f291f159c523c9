package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/mysticwriter-backend/internal/http/response"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gcp"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type CharacterHandler struct {
	log        *logger.Logger
	characters services.CharacterService
	bucket     gcp.BucketService
}

func NewCharacterHandler(log *logger.Logger, characters services.CharacterService, bucket gcp.BucketService) *CharacterHandler {
	return &CharacterHandler{
		log:        log.With("handler", "CharacterHandler"),
		characters: characters,
		bucket:     bucket,
	}
}

type createCharacterRequest struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Traits         []string `json:"traits"`
	GenerateAvatar *bool    `json:"generate_avatar"`
}

// POST /api/stories/:id/characters
func (h *CharacterHandler) CreateCharacter(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	var req createCharacterRequest
	if !bindJSON(c, &req) {
		return
	}
	generate := true
	if req.GenerateAvatar != nil {
		generate = *req.GenerateAvatar
	}
	char, err := h.characters.Create(c.Request.Context(), userID, services.CreateCharacterInput{
		StoryID:        storyID,
		Name:           req.Name,
		Role:           req.Role,
		Traits:         req.Traits,
		GenerateAvatar: generate,
	})
	if err != nil {
		h.log.Warn("CreateCharacter failed", "story_id", storyID, "error", err)
		response.RespondErr(c, "create_character_failed", err)
		return
	}
	normalizeCharacterAvatarURL(h.bucket, char)
	response.RespondCreated(c, gin.H{"character": char})
}

// GET /api/stories/:id/characters
func (h *CharacterHandler) ListCharacters(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	storyID, ok := pathID(c, "invalid_story_id")
	if !ok {
		return
	}
	chars, err := h.characters.List(c.Request.Context(), userID, storyID)
	if err != nil {
		response.RespondErr(c, "list_characters_failed", err)
		return
	}
	normalizeCharacterAvatarURLs(h.bucket, chars)
	response.RespondOK(c, gin.H{"characters": chars})
}

// GET /api/characters/:id
func (h *CharacterHandler) GetCharacter(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	charID, ok := pathID(c, "invalid_character_id")
	if !ok {
		return
	}
	char, err := h.characters.Get(c.Request.Context(), userID, charID)
	if err != nil {
		response.RespondErr(c, "load_character_failed", err)
		return
	}
	normalizeCharacterAvatarURL(h.bucket, char)
	response.RespondOK(c, gin.H{"character": char})
}

type updateCharacterRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Role        *string   `json:"role"`
	Traits      *[]string `json:"traits"`
}

// PATCH /api/characters/:id
func (h *CharacterHandler) UpdateCharacter(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	charID, ok := pathID(c, "invalid_character_id")
	if !ok {
		return
	}
	var req updateCharacterRequest
	if !bindJSON(c, &req) {
		return
	}
	char, err := h.characters.Update(c.Request.Context(), userID, charID, services.UpdateCharacterInput{
		Name:        req.Name,
		Description: req.Description,
		Role:        req.Role,
		Traits:      req.Traits,
	})
	if err != nil {
		response.RespondErr(c, "update_character_failed", err)
		return
	}
	normalizeCharacterAvatarURL(h.bucket, char)
	response.RespondOK(c, gin.H{"character": char})
}

// DELETE /api/characters/:id
func (h *CharacterHandler) DeleteCharacter(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	charID, ok := pathID(c, "invalid_character_id")
	if !ok {
		return
	}
	if err := h.characters.Delete(c.Request.Context(), userID, charID); err != nil {
		response.RespondErr(c, "delete_character_failed", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/characters/:id/avatar
func (h *CharacterHandler) RegenerateAvatar(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	charID, ok := pathID(c, "invalid_character_id")
	if !ok {
		return
	}
	char, res, err := h.characters.RegenerateAvatar(c.Request.Context(), userID, charID)
	if err != nil {
		response.RespondErr(c, "regenerate_avatar_failed", err)
		return
	}
	normalizeCharacterAvatarURL(h.bucket, char)
	response.RespondOK(c, gin.H{"character": char, "avatar": res})
}
