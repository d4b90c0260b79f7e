package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lorepath/insight-api/internal/analytics"
	"github.com/lorepath/insight-api/internal/config"
	"github.com/lorepath/insight-api/internal/platform/gemini"
	"github.com/lorepath/insight-api/internal/platform/postgres"
	"github.com/lorepath/insight-api/internal/service"
	"github.com/lorepath/insight-api/internal/service/auth"
	"github.com/lorepath/insight-api/internal/store"
	"github.com/lorepath/insight-api/internal/suggestion"
)

// application holds the shared application dependencies to simplify
// wiring and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore       store.UserStore
	experienceStore store.ExperienceStore

	// Services
	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	kernelValidator   *analytics.Validator
	experienceService service.ExperienceService
	suggester         suggestion.Suggester // nil when the LLM feature is disabled
}

// newApplication creates a new application instance with all
// dependencies initialized. Core dependencies (config, logger,
// database) must be established by the caller.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.experienceStore = postgres.NewPostgresExperienceStore(db, logger)

	app.kernelValidator = analytics.NewValidator(analytics.Config{
		StrictMode: cfg.Server.StrictValidation,
	})

	app.experienceService, err = service.NewExperienceService(
		app.experienceStore,
		app.kernelValidator,
		db,
		cfg.Server.ListLimit,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create experience service: %w", err)
	}

	if cfg.LLM.Enabled {
		app.suggester, err = gemini.NewDomainSuggester(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize domain suggester: %w", err)
		}
		logger.Info("domain suggester initialized", "model", cfg.LLM.ModelName)
	} else {
		logger.Info("domain suggestion disabled")
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
