package analytics

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyActivityRecord is one user's counters for one calendar day
// (Date is YYYY-MM-DD). (UserID, Date) is unique.
type DailyActivityRecord struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_writing_analytics_user_date,priority:1" json:"user_id"`
	Date              string    `gorm:"column:date;type:varchar(10);not null;uniqueIndex:idx_writing_analytics_user_date,priority:2" json:"date"`
	WordsWritten      int       `gorm:"column:words_written;not null;default:0" json:"words_written"`
	SegmentsAdded     int       `gorm:"column:segments_added;not null;default:0" json:"segments_added"`
	CharactersCreated int       `gorm:"column:characters_created;not null;default:0" json:"characters_created"`
	StoriesCreated    int       `gorm:"column:stories_created;not null;default:0" json:"stories_created"`
	CreatedAt         time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time `gorm:"not null" json:"updated_at"`
}

func (DailyActivityRecord) TableName() string { return "writing_analytics" }

func (r *DailyActivityRecord) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
