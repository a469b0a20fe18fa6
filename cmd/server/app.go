package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// sessionJanitorInterval is how often expired sessions are purged in session mode.
const sessionJanitorInterval = time.Hour

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	taskStore    store.TaskStore
	sessionStore store.SessionStore

	jwtService     auth.JWTService
	userService    service.UserService
	taskService    service.TaskService
	sessionService *service.SessionService
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}

	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	if cfg.Auth.UsesSessions() {
		app.sessionStore = postgres.NewPostgresSessionStore(db, logger)
		app.sessionService = service.NewSessionService(
			app.sessionStore,
			app.userStore,
			time.Duration(cfg.Auth.SessionLifetimeMinutes)*time.Minute,
			logger,
		)
	}

	app.userService = service.NewUserService(app.userStore, auth.NewBcryptVerifier(), db, logger)
	app.taskService = service.NewTaskService(app.taskStore, logger)

	logger.Info("Application initialized successfully", "auth_mode", cfg.Auth.Mode)
	return app, nil
}

// authenticator returns the request authenticator for the configured mode.
func (app *application) authenticator() apiMiddleware.Authenticator {
	if app.config.Auth.UsesSessions() {
		return apiMiddleware.NewSessionAuthenticator(app.sessionService)
	}
	return apiMiddleware.NewTokenAuthenticator(app.jwtService, app.userService)
}

// routerDeps builds the handlers and middleware the router mounts.
func (app *application) routerDeps() routerDeps {
	return routerDeps{
		authConfig:     app.config.Auth,
		requestTimeout: time.Duration(app.config.Server.RequestTimeoutSeconds) * time.Second,
		authHandler: api.NewAuthHandler(
			app.userService,
			app.jwtService,
			app.sessionService,
			app.config.Auth,
			app.logger,
		),
		taskHandler:    api.NewTaskHandler(app.taskService, app.logger),
		authMiddleware: apiMiddleware.NewAuthMiddleware(app.authenticator()),
		logger:         app.logger,
	}
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	if app.sessionService != nil {
		go app.sessionService.RunJanitor(ctx, sessionJanitorInterval)
	}

	if err := app.startHTTPServer(ctx, newRouter(app.routerDeps())); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
