package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

type Repos struct {
	Story     repos.StoryRepo
	Segment   repos.SegmentRepo
	Character repos.CharacterRepo
	History   repos.HistoryRepo
	Activity  repos.ActivityRepo
	Profile   repos.ProfileRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Story:     repos.NewStoryRepo(db, log),
		Segment:   repos.NewSegmentRepo(db, log),
		Character: repos.NewCharacterRepo(db, log),
		History:   repos.NewHistoryRepo(db, log),
		Activity:  repos.NewActivityRepo(db, log),
		Profile:   repos.NewProfileRepo(db, log),
	}
}
