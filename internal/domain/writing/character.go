package writing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Character belongs to exactly one story. A nil avatar is a valid terminal
// state; AvatarStorageKey is nil when the avatar is not a stored object.
type Character struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StoryID          uuid.UUID      `gorm:"type:uuid;not null;index" json:"story_id"`
	Name             string         `gorm:"column:name;not null" json:"name"`
	Description      string         `gorm:"column:description;type:text" json:"description"`
	Role             string         `gorm:"column:role" json:"role"`
	Traits           datatypes.JSON `gorm:"column:traits" json:"traits"`
	AvatarURL        *string        `gorm:"column:avatar_url;type:text" json:"avatar_url,omitempty"`
	AvatarStorageKey *string        `gorm:"column:avatar_storage_key" json:"avatar_storage_key,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null" json:"updated_at"`
}

func (Character) TableName() string { return "characters" }

func (c *Character) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if len(c.Traits) == 0 {
		c.Traits = datatypes.JSON([]byte("[]"))
	}
	return nil
}

func (c *Character) TraitList() []string {
	out := []string{}
	if c == nil || len(c.Traits) == 0 {
		return out
	}
	_ = json.Unmarshal(c.Traits, &out)
	return out
}

func TraitsJSON(traits []string) datatypes.JSON {
	if traits == nil {
		traits = []string{}
	}
	b, err := json.Marshal(traits)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(b)
}
