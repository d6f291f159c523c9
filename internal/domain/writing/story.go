package writing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuthorUser = "user"
	AuthorAI   = "ai"
)

// Story is a user-owned narrative. WordCount is the running total across all segments.
type Story struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title     string    `gorm:"column:title;not null" json:"title"`
	Genre     string    `gorm:"column:genre" json:"genre,omitempty"`
	WordCount int       `gorm:"column:word_count;not null;default:0" json:"word_count"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`

	Segments []*StorySegment `gorm:"-" json:"segments,omitempty"`
}

func (Story) TableName() string { return "stories" }

func (s *Story) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// StorySegment is one contribution to a story, by the user or the AI.
type StorySegment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoryID   uuid.UUID `gorm:"type:uuid;not null;index:idx_story_segment_position,unique,priority:1" json:"story_id"`
	Position  int       `gorm:"column:position;not null;index:idx_story_segment_position,unique,priority:2" json:"position"`
	Author    string    `gorm:"column:author;not null" json:"author"`
	Text      string    `gorm:"column:text;type:text;not null" json:"text"`
	WordCount int       `gorm:"column:word_count;not null;default:0" json:"word_count"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (StorySegment) TableName() string { return "story_segments" }

func (s *StorySegment) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
