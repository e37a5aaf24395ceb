package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/labworks/tracker/internal/assist"
	"github.com/labworks/tracker/internal/config"
	"github.com/labworks/tracker/internal/db"
	"github.com/labworks/tracker/internal/markdown"
	"github.com/labworks/tracker/internal/repository"
	"github.com/labworks/tracker/internal/service"
	"github.com/labworks/tracker/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	EmailService    *service.EmailService
	GoalService     *service.GoalService
	AssistService   *service.AssistService
	InsightsService *service.InsightsService
	Markdown        *markdown.Parser
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a, err := Wire(ctx, cfg, database)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds the services on an already migrated database.
func Wire(ctx context.Context, cfg *config.Config, database *sqlx.DB) (*App, error) {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	activityRepository := repository.NewActivityRepository(database)

	// Storage is optional; without it the archive endpoint reports 503.
	var exportStorage storage.Storage
	s, err := storage.New(ctx, cfg)
	switch {
	case err == nil:
		exportStorage = s
	case errors.Is(err, storage.ErrNotConfigured):
		slog.Info("export archive disabled", "reason", err)
	default:
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// AI assist: explicit key per request, then env, then secrets file.
	assistClient := assist.New(
		assist.Config{
			URL:     cfg.GroqAPIURL,
			Model:   cfg.GroqModel,
			Timeout: cfg.GroqTimeout,
		},
		assist.EnvProvider("GROQ_API_KEY"),
		assist.SecretsFileProvider(cfg.GroqSecretsFile),
	)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
	)
	userService := service.NewUserService(userRepository, emailService)
	goalService := service.NewGoalService(
		goalRepository,
		activityRepository,
		userRepository,
		emailService,
		cfg.FeedLimit,
		cfg.GoalActivityLimit,
	)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     userService,
		EmailService:    emailService,
		GoalService:     goalService,
		AssistService:   service.NewAssistService(assistClient),
		InsightsService: service.NewInsightsService(goalService, exportStorage),
		Markdown:        markdown.NewParser(),
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
