package repos

import (
	"github.com/yungbote/mysticwriter-backend/internal/data/repos/accounts"
	"github.com/yungbote/mysticwriter-backend/internal/data/repos/analytics"
	"github.com/yungbote/mysticwriter-backend/internal/data/repos/stories"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type StoryRepo = stories.StoryRepo
type SegmentRepo = stories.SegmentRepo
type CharacterRepo = stories.CharacterRepo
type HistoryRepo = stories.HistoryRepo
type CharacterUpdate = stories.CharacterUpdate

type ProfileRepo = accounts.ProfileRepo

type ActivityRepo = analytics.ActivityRepo
type ActivityDelta = analytics.Delta

func NewStoryRepo(db *gorm.DB, baseLog *logger.Logger) StoryRepo {
	return stories.NewStoryRepo(db, baseLog)
}
func NewSegmentRepo(db *gorm.DB, baseLog *logger.Logger) SegmentRepo {
	return stories.NewSegmentRepo(db, baseLog)
}
func NewCharacterRepo(db *gorm.DB, baseLog *logger.Logger) CharacterRepo {
	return stories.NewCharacterRepo(db, baseLog)
}
func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
	return stories.NewHistoryRepo(db, baseLog)
}

func NewActivityRepo(db *gorm.DB, baseLog *logger.Logger) ActivityRepo {
	return analytics.NewActivityRepo(db, baseLog)
}

func NewProfileRepo(db *gorm.DB, baseLog *logger.Logger) ProfileRepo {
	return accounts.NewProfileRepo(db, baseLog)
}
