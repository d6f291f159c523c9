package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/services"
)

type Services struct {
	// Core
	Analytics services.AnalyticsService
	Avatar    services.AvatarService
	AI        services.StoryAIService

	// Domain
	History   services.StoryHistoryService
	Story     services.StoryService
	Character services.CharacterService
	Profile   services.ProfileService
	UserStats services.UserStatsService

	Auth services.AuthService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients *Clients) (Services, error) {
	log.Info("Wiring services...")

	loc, err := cfg.Location()
	if err != nil {
		return Services{}, err
	}

	analyticsService := services.NewAnalyticsService(log, repos.Activity, repos.Character, services.AnalyticsConfig{
		Location: loc,
		Cache:    services.NewRedisSummaryCache(clients.Cache),
		CacheTTL: cfg.SummaryCacheTTL,
	})

	var chat services.ChatClient
	if clients.AI != nil {
		chat = clients.AI
	}
	aiService := services.NewStoryAIService(log, chat)
	avatarService := services.NewAvatarService(log, clients.Images, clients.Bucket, nil)
	historyService := services.NewStoryHistoryService(log, repos.History, repos.Story)

	storyService := services.NewStoryService(
		db, log,
		repos.Story,
		repos.Segment,
		repos.Character,
		repos.History,
		analyticsService,
		historyService,
		aiService,
		avatarService,
	)
	characterService := services.NewCharacterService(
		log,
		repos.Story,
		repos.Character,
		aiService,
		avatarService,
		analyticsService,
		historyService,
	)

	profileService := services.NewProfileService(log, repos.Profile, clients.Bucket, nil)
	userStatsService := services.NewUserStatsService(log, repos.Story, repos.Segment, analyticsService)

	authService, err := services.NewAuthService(log, services.AuthConfig{
		JWTSecret: cfg.JWTSecret,
		Issuer:    cfg.JWTIssuer,
		Audience:  cfg.JWTAudience,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	return Services{
		Analytics: analyticsService,
		Avatar:    avatarService,
		AI:        aiService,
		History:   historyService,
		Story:     storyService,
		Character: characterService,
		Profile:   profileService,
		UserStats: userStatsService,
		Auth:      authService,
	}, nil
}
