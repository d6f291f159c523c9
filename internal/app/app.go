package app

import (
	"context"
	"fmt"

	"github.com/yungbote/mysticwriter-backend/internal/data/db"
	"github.com/yungbote/mysticwriter-backend/internal/http"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  *Clients
	Repos    Repos
	Services Services
	Server   *http.Server
}

// New loads configuration, connects every client and wires the HTTP stack.
// Callers must Close the returned App.
func New(ctx context.Context) (*App, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Config loaded", "config", cfg.String())

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrateAll(clients.DB.DB()); err != nil {
			clients.Close(ctx)
			log.Sync()
			return nil, err
		}
	}

	reposet := wireRepos(clients.DB.DB(), log)
	serviceset, err := wireServices(clients.DB.DB(), log, cfg, reposet, clients)
	if err != nil {
		clients.Close(ctx)
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset, clients)
	middleware := wireMiddleware(log, serviceset)
	server := wireServer(log, cfg, handlerset, middleware)

	return &App{
		Log:      log,
		Cfg:      cfg,
		Clients:  clients,
		Repos:    reposet,
		Services: serviceset,
		Server:   server,
	}, nil
}

// Run blocks serving HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr)
	return a.Server.Run(ctx, a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close(context.Background())
	if a.Log != nil {
		a.Log.Sync()
	}
}

// Migrate applies the schema without starting any other client.
func Migrate(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	pg, err := db.NewPostgresService(log, cfg.DB)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer pg.Close()
	if err := pg.Ping(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := db.AutoMigrateAll(pg.DB()); err != nil {
		return err
	}
	log.Info("Schema migrated", "driver", pg.Driver())
	return nil
}
