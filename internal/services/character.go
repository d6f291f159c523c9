package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

const defaultCharacterTraits = "mysterious, enigmatic"

type CreateCharacterInput struct {
	StoryID        uuid.UUID
	Name           string
	Role           string
	Traits         []string
	GenerateAvatar bool
}

// UpdateCharacterInput is partial; nil or blank fields are ignored.
type UpdateCharacterInput struct {
	Name        *string
	Description *string
	Role        *string
	Traits      *[]string
}

type CharacterService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateCharacterInput) (*types.Character, error)
	RegenerateAvatar(ctx context.Context, userID, characterID uuid.UUID) (*types.Character, AvatarResult, error)
	List(ctx context.Context, userID, storyID uuid.UUID) ([]*types.Character, error)
	Get(ctx context.Context, userID, characterID uuid.UUID) (*types.Character, error)
	Update(ctx context.Context, userID, characterID uuid.UUID, in UpdateCharacterInput) (*types.Character, error)
	Delete(ctx context.Context, userID, characterID uuid.UUID) error
}

type characterService struct {
	log           *logger.Logger
	storyRepo     repos.StoryRepo
	characterRepo repos.CharacterRepo
	ai            StoryAIService
	avatars       AvatarService
	analytics     AnalyticsService
	history       StoryHistoryService
}

func NewCharacterService(
	log *logger.Logger,
	storyRepo repos.StoryRepo,
	characterRepo repos.CharacterRepo,
	ai StoryAIService,
	avatars AvatarService,
	analytics AnalyticsService,
	history StoryHistoryService,
) CharacterService {
	return &characterService{
		log:           log.With("service", "CharacterService"),
		storyRepo:     storyRepo,
		characterRepo: characterRepo,
		ai:            ai,
		avatars:       avatars,
		analytics:     analytics,
		history:       history,
	}
}

func cleanTraits(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Create describes, stores and optionally illustrates a character. A failed
// avatar leaves the character without one; it never fails creation.
func (cs *characterService) Create(ctx context.Context, userID uuid.UUID, in CreateCharacterInput) (*types.Character, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("invalid_name", "character name required")
	}
	story, err := loadOwnedStory(ctx, cs.storyRepo, userID, in.StoryID)
	if err != nil {
		return nil, err
	}

	traits := cleanTraits(in.Traits)
	traitsText := strings.Join(traits, ", ")
	if traitsText == "" {
		traitsText = defaultCharacterTraits
	}
	description, err := cs.ai.DescribeCharacter(ctx, name, traitsText)
	if err != nil {
		return nil, err
	}

	c := &types.Character{
		StoryID:     story.ID,
		Name:        name,
		Description: description,
		Role:        strings.TrimSpace(in.Role),
		Traits:      types.TraitsJSON(traits),
	}
	if _, err := cs.characterRepo.Create(ctx, nil, c); err != nil {
		return nil, fmt.Errorf("create character: %w", err)
	}
	cs.analytics.TrackCharacterCreated(ctx, userID)
	logBestEffort(ctx, cs.log, cs.history, story.ID, userID, types.HistoryCharacterAdded, "Character added: "+name, map[string]any{
		"character_id": c.ID.String(),
	})

	if in.GenerateAvatar {
		res := cs.avatars.GenerateAvatar(ctx, c.Name, c.Description, story.Title)
		cs.applyAvatar(ctx, c, res)
	}
	return c, nil
}

// applyAvatar persists a non-empty result onto c. Persist failures are logged only.
func (cs *characterService) applyAvatar(ctx context.Context, c *types.Character, res AvatarResult) bool {
	if res.URL == "" {
		return false
	}
	url := res.URL
	var key *string
	if res.StorageKey != "" {
		k := res.StorageKey
		key = &k
	}
	if err := cs.characterRepo.UpdateAvatar(ctx, nil, c.ID, &url, key); err != nil {
		cs.log.Warn("failed to save character avatar (ignored)", "character_id", c.ID, "error", err)
		return false
	}
	c.AvatarURL = &url
	c.AvatarStorageKey = key
	return true
}

func (cs *characterService) loadOwned(ctx context.Context, userID, characterID uuid.UUID) (*types.Character, *types.Story, error) {
	c, err := cs.characterRepo.GetByID(ctx, nil, characterID)
	if err != nil {
		return nil, nil, fmt.Errorf("load character: %w", err)
	}
	if c == nil {
		return nil, nil, notFound("character_not_found", "character not found")
	}
	story, err := loadOwnedStory(ctx, cs.storyRepo, userID, c.StoryID)
	if err != nil {
		return nil, nil, err
	}
	return c, story, nil
}

// RegenerateAvatar reruns the pipeline. The previous stored object is
// deleted only after the new result is saved.
func (cs *characterService) RegenerateAvatar(ctx context.Context, userID, characterID uuid.UUID) (*types.Character, AvatarResult, error) {
	c, story, err := cs.loadOwned(ctx, userID, characterID)
	if err != nil {
		return nil, AvatarResult{}, err
	}
	oldKey := ""
	if c.AvatarStorageKey != nil {
		oldKey = *c.AvatarStorageKey
	}

	res := cs.avatars.GenerateAvatar(ctx, c.Name, c.Description, story.Title)
	if !cs.applyAvatar(ctx, c, res) {
		return c, res, nil
	}
	if oldKey != "" && oldKey != res.StorageKey {
		if err := cs.avatars.DeleteStored(ctx, oldKey); err != nil {
			cs.log.Warn("failed to delete old avatar (ignored)", "oldKey", oldKey, "error", err)
		}
	}
	return c, res, nil
}

func (cs *characterService) List(ctx context.Context, userID, storyID uuid.UUID) ([]*types.Character, error) {
	if _, err := loadOwnedStory(ctx, cs.storyRepo, userID, storyID); err != nil {
		return nil, err
	}
	return cs.characterRepo.ListByStory(ctx, nil, storyID)
}

func (cs *characterService) Get(ctx context.Context, userID, characterID uuid.UUID) (*types.Character, error) {
	c, _, err := cs.loadOwned(ctx, userID, characterID)
	return c, err
}

func nonBlank(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}

func (cs *characterService) Update(ctx context.Context, userID, characterID uuid.UUID, in UpdateCharacterInput) (*types.Character, error) {
	if _, _, err := cs.loadOwned(ctx, userID, characterID); err != nil {
		return nil, err
	}
	upd := repos.CharacterUpdate{
		Name:        nonBlank(in.Name),
		Description: nonBlank(in.Description),
		Role:        nonBlank(in.Role),
	}
	if in.Traits != nil {
		traits := cleanTraits(*in.Traits)
		if len(traits) > 0 {
			upd.Traits = &traits
		}
	}
	if err := cs.characterRepo.Update(ctx, nil, characterID, upd); err != nil {
		return nil, fmt.Errorf("update character: %w", err)
	}
	c, err := cs.characterRepo.GetByID(ctx, nil, characterID)
	if err != nil {
		return nil, fmt.Errorf("reload character: %w", err)
	}
	return c, nil
}

func (cs *characterService) Delete(ctx context.Context, userID, characterID uuid.UUID) error {
	c, _, err := cs.loadOwned(ctx, userID, characterID)
	if err != nil {
		return err
	}
	if err := cs.characterRepo.Delete(ctx, nil, characterID); err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	cs.analytics.InvalidateSummary(ctx, userID)
	if c.AvatarStorageKey != nil {
		if err := cs.avatars.DeleteStored(ctx, *c.AvatarStorageKey); err != nil {
			cs.log.Warn("failed to delete avatar object (ignored)", "key", *c.AvatarStorageKey, "error", err)
		}
	}
	return nil
}
