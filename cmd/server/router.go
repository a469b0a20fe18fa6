package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/tasks-api/internal/api"
	apiMiddleware "github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/config"
)

// routerDeps is everything newRouter mounts.
type routerDeps struct {
	authConfig     config.AuthConfig
	requestTimeout time.Duration
	authHandler    *api.AuthHandler
	taskHandler    *api.TaskHandler
	authMiddleware *apiMiddleware.AuthMiddleware
	logger         *slog.Logger
}

// newRouter creates the application router. Routes are served at the root
// and again under /api, with or without a trailing slash.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	if d.requestTimeout > 0 {
		r.Use(middleware.Timeout(d.requestTimeout))
	}

	mount := func(r chi.Router) {
		r.With(d.authMiddleware.Optional).Post("/register", d.authHandler.Register)

		if d.authConfig.UsesSessions() {
			r.Post("/session/login", d.authHandler.SessionLogin)
		} else {
			r.Post("/login", d.authHandler.Login)
			r.Post("/token/refresh", d.authHandler.RefreshToken)
		}

		r.Group(func(r chi.Router) {
			r.Use(d.authMiddleware.RequireAuth)

			r.Post("/logout", d.authHandler.Logout)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", d.taskHandler.ListTasks)
				r.Post("/", d.taskHandler.CreateTask)
				r.Get("/{id}", d.taskHandler.GetTask)
				r.Put("/{id}", d.taskHandler.ReplaceTask)
				r.Patch("/{id}", d.taskHandler.UpdateTask)
				r.Delete("/{id}", d.taskHandler.DeleteTask)
			})
		})
	}

	mount(r)
	r.Route("/api", mount)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			d.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
