package writing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	HistoryCreated        = "created"
	HistoryUpdated        = "updated"
	HistorySegmentAdded   = "segment_added"
	HistoryCharacterAdded = "character_added"
)

// StoryHistoryEntry is an append-only audit row for a story.
type StoryHistoryEntry struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StoryID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"story_id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action      string         `gorm:"column:action;not null" json:"action"`
	Description string         `gorm:"column:description" json:"description,omitempty"`
	Changes     datatypes.JSON `gorm:"column:changes" json:"changes,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;index" json:"created_at"`
}

func (StoryHistoryEntry) TableName() string { return "story_history" }

func (h *StoryHistoryEntry) BeforeCreate(*gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}
