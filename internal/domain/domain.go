package domain

import (
	"github.com/yungbote/mysticwriter-backend/internal/domain/account"
	"github.com/yungbote/mysticwriter-backend/internal/domain/analytics"
	"github.com/yungbote/mysticwriter-backend/internal/domain/writing"
)

const (
	AuthorUser = writing.AuthorUser
	AuthorAI   = writing.AuthorAI

	HistoryCreated        = writing.HistoryCreated
	HistoryUpdated        = writing.HistoryUpdated
	HistorySegmentAdded   = writing.HistorySegmentAdded
	HistoryCharacterAdded = writing.HistoryCharacterAdded

	ThemeLight  = account.ThemeLight
	ThemeDark   = account.ThemeDark
	ThemeSystem = account.ThemeSystem
)

type (
	Story             = writing.Story
	StorySegment      = writing.StorySegment
	Character         = writing.Character
	StoryHistoryEntry = writing.StoryHistoryEntry

	DailyActivityRecord = analytics.DailyActivityRecord

	UserProfile = account.UserProfile
)

var (
	TraitsJSON     = writing.TraitsJSON
	DefaultProfile = account.DefaultProfile
	ValidTheme     = account.ValidTheme
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&Story{},
		&StorySegment{},
		&Character{},
		&StoryHistoryEntry{},
		&DailyActivityRecord{},
		&UserProfile{},
	}
}
