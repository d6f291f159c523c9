package stories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// CharacterUpdate is a partial update; nil fields are left alone.
type CharacterUpdate struct {
	Name        *string
	Description *string
	Role        *string
	Traits      *[]string
}

func (u CharacterUpdate) columns() map[string]any {
	out := map[string]any{}
	if u.Name != nil {
		out["name"] = *u.Name
	}
	if u.Description != nil {
		out["description"] = *u.Description
	}
	if u.Role != nil {
		out["role"] = *u.Role
	}
	if u.Traits != nil {
		out["traits"] = types.TraitsJSON(*u.Traits)
	}
	return out
}

type CharacterRepo interface {
	Create(ctx context.Context, tx *gorm.DB, c *types.Character) (*types.Character, error)
	GetByID(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) (*types.Character, error)
	ListByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) ([]*types.Character, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, characterID uuid.UUID, upd CharacterUpdate) error
	UpdateAvatar(ctx context.Context, tx *gorm.DB, characterID uuid.UUID, avatarURL, storageKey *string) error
	Delete(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) error
	DeleteByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error
}

type characterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCharacterRepo(db *gorm.DB, baseLog *logger.Logger) CharacterRepo {
	repoLog := baseLog.With("repo", "CharacterRepo")
	return &characterRepo{db: db, log: repoLog}
}

func (cr *characterRepo) Create(ctx context.Context, tx *gorm.DB, c *types.Character) (*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// GetByID returns nil when the character does not exist.
func (cr *characterRepo) GetByID(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) (*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var out types.Character
	err := transaction.WithContext(ctx).Where("id = ?", characterID).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByStory returns characters oldest first.
func (cr *characterRepo) ListByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) ([]*types.Character, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	results := []*types.Character{}
	if err := transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CountByUser counts characters across every story the user owns.
func (cr *characterRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Character{}).
		Joins("JOIN stories ON stories.id = characters.story_id").
		Where("stories.user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (cr *characterRepo) Update(ctx context.Context, tx *gorm.DB, characterID uuid.UUID, upd CharacterUpdate) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	cols := upd.columns()
	if len(cols) == 0 {
		return nil
	}
	cols["updated_at"] = time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.Character{}).
		Where("id = ?", characterID).
		Updates(cols).Error
}

// UpdateAvatar writes both avatar columns; nil clears a column.
func (cr *characterRepo) UpdateAvatar(ctx context.Context, tx *gorm.DB, characterID uuid.UUID, avatarURL, storageKey *string) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Character{}).
		Where("id = ?", characterID).
		Updates(map[string]any{
			"avatar_url":         avatarURL,
			"avatar_storage_key": storageKey,
			"updated_at":         time.Now().UTC(),
		}).Error
}

func (cr *characterRepo) Delete(ctx context.Context, tx *gorm.DB, characterID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", characterID).
		Delete(&types.Character{}).Error
}

func (cr *characterRepo) DeleteByStory(ctx context.Context, tx *gorm.DB, storyID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("story_id = ?", storyID).
		Delete(&types.Character{}).Error
}
