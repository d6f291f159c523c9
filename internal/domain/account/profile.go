package account

import (
	"time"

	"github.com/google/uuid"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// UserProfile holds display data and preferences for one authenticated user.
// Identity itself lives with the token issuer; the row is created on first read.
// Booleans carry no gorm defaults so an explicit false survives Create.
type UserProfile struct {
	UserID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nickname             string    `gorm:"column:nickname" json:"nickname,omitempty"`
	Bio                  string    `gorm:"column:bio" json:"bio,omitempty"`
	AvatarURL            *string   `gorm:"column:avatar_url" json:"avatar_url,omitempty"`
	AvatarStorageKey     *string   `gorm:"column:avatar_storage_key" json:"-"`
	Theme                string    `gorm:"column:theme;type:varchar(16);not null" json:"theme"`
	NotificationsEnabled bool      `gorm:"column:notifications_enabled;not null" json:"notifications_enabled"`
	PrivateProfile       bool      `gorm:"column:private_profile;not null" json:"private_profile"`
	EmailNotifications   bool      `gorm:"column:email_notifications;not null" json:"email_notifications"`
	StorySuggestions     bool      `gorm:"column:story_suggestions;not null" json:"story_suggestions"`
	CreatedAt            time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time `gorm:"not null" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profiles" }

// DefaultProfile is the row a user gets before changing anything.
func DefaultProfile(userID uuid.UUID) *UserProfile {
	return &UserProfile{
		UserID:               userID,
		Theme:                ThemeSystem,
		NotificationsEnabled: true,
		EmailNotifications:   true,
		StorySuggestions:     true,
	}
}

func ValidTheme(theme string) bool {
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}
