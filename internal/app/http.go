package app

import (
	"github.com/yungbote/mysticwriter-backend/internal/http"
	httpH "github.com/yungbote/mysticwriter-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mysticwriter-backend/internal/http/middleware"
	"github.com/yungbote/mysticwriter-backend/internal/observability"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health    *httpH.HealthHandler
	Analytics *httpH.AnalyticsHandler
	Story     *httpH.StoryHandler
	Character *httpH.CharacterHandler
	Avatar    *httpH.AvatarHandler
	History   *httpH.HistoryHandler
	User      *httpH.UserHandler
}

func wireHandlers(log *logger.Logger, services Services, clients *Clients) Handlers {
	log.Info("Wiring handlers...")
	checks := map[string]httpH.Pinger{}
	if clients.DB != nil {
		checks["db"] = clients.DB.Ping
	}
	if clients.Cache != nil {
		checks["redis"] = clients.Cache.Ping
	}
	return Handlers{
		Health:    httpH.NewHealthHandler(checks),
		Analytics: httpH.NewAnalyticsHandler(log, services.Analytics),
		Story:     httpH.NewStoryHandler(log, services.Story),
		Character: httpH.NewCharacterHandler(log, services.Character, clients.Bucket),
		Avatar:    httpH.NewAvatarHandler(log, services.Avatar),
		History:   httpH.NewHistoryHandler(log, services.History),
		User:      httpH.NewUserHandler(log, services.Profile, services.UserStats),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:              log,
		ServiceName:      cfg.ServiceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		Metrics:          observability.Current(),
		AuthMiddleware:   middleware.Auth,
		AnalyticsHandler: handlers.Analytics,
		StoryHandler:     handlers.Story,
		CharacterHandler: handlers.Character,
		AvatarHandler:    handlers.Avatar,
		HistoryHandler:   handlers.History,
		UserHandler:      handlers.User,
		HealthHandler:    handlers.Health,
	})
}
