package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mysticwriter-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mysticwriter-backend/internal/http/middleware"
	"github.com/yungbote/mysticwriter-backend/internal/observability"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	AnalyticsHandler *httpH.AnalyticsHandler
	StoryHandler     *httpH.StoryHandler
	CharacterHandler *httpH.CharacterHandler
	AvatarHandler    *httpH.AvatarHandler
	HistoryHandler   *httpH.HistoryHandler
	UserHandler      *httpH.UserHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}

	protected := r.Group("/api")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Analytics
		if cfg.AnalyticsHandler != nil {
			protected.GET("/analytics/summary", cfg.AnalyticsHandler.GetSummary)
			protected.GET("/analytics", cfg.AnalyticsHandler.GetRange)
			protected.POST("/analytics/words", cfg.AnalyticsHandler.TrackWords)
		}

		// Stories
		if cfg.StoryHandler != nil {
			protected.GET("/stories", cfg.StoryHandler.ListStories)
			protected.POST("/stories", cfg.StoryHandler.CreateStory)
			protected.GET("/stories/:id", cfg.StoryHandler.GetStory)
			protected.PATCH("/stories/:id", cfg.StoryHandler.UpdateStory)
			protected.DELETE("/stories/:id", cfg.StoryHandler.DeleteStory)
			protected.POST("/stories/:id/segments", cfg.StoryHandler.AddSegment)
			protected.POST("/stories/:id/continue", cfg.StoryHandler.ContinueStory)
			protected.POST("/stories/:id/titles", cfg.StoryHandler.SuggestTitles)
			protected.POST("/stories/:id/random-character", cfg.StoryHandler.RandomCharacter)
			protected.POST("/stories/:id/tone", cfg.StoryHandler.AnalyzeTone)
		}

		// Characters
		if cfg.CharacterHandler != nil {
			protected.GET("/stories/:id/characters", cfg.CharacterHandler.ListCharacters)
			protected.POST("/stories/:id/characters", cfg.CharacterHandler.CreateCharacter)
			protected.GET("/characters/:id", cfg.CharacterHandler.GetCharacter)
			protected.PATCH("/characters/:id", cfg.CharacterHandler.UpdateCharacter)
			protected.DELETE("/characters/:id", cfg.CharacterHandler.DeleteCharacter)
			protected.POST("/characters/:id/avatar", cfg.CharacterHandler.RegenerateAvatar)
		}

		// Avatars
		if cfg.AvatarHandler != nil {
			protected.POST("/avatars/generate", cfg.AvatarHandler.GenerateAvatar)
		}

		// History
		if cfg.HistoryHandler != nil {
			protected.GET("/stories/:id/history", cfg.HistoryHandler.GetStoryHistory)
			protected.GET("/history", cfg.HistoryHandler.GetUserHistory)
		}

		// Users
		if cfg.UserHandler != nil {
			protected.GET("/users/me/stats", cfg.UserHandler.GetStats)
			protected.GET("/users/me/profile", cfg.UserHandler.GetProfile)
			protected.PATCH("/users/me/profile", cfg.UserHandler.UpdateProfile)
			protected.GET("/users/me/preferences", cfg.UserHandler.GetPreferences)
			protected.PATCH("/users/me/preferences", cfg.UserHandler.UpdatePreferences)
			protected.POST("/users/me/avatar", cfg.UserHandler.UploadAvatar)
		}
	}

	return r
}
