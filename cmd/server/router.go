package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lorepath/insight-api/internal/api"
	apimiddleware "github.com/lorepath/insight-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
	)
	experienceHandler := api.NewExperienceHandler(
		app.experienceService,
		app.kernelValidator,
		app.suggester,
	)
	analyticsHandler := api.NewAnalyticsHandler(app.experienceService)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Experience endpoints
			r.Post("/experiences/validate", experienceHandler.Validate)
			r.Post("/experiences/suggest-domains", experienceHandler.SuggestDomains)
			r.Post("/experiences", experienceHandler.Create)
			r.Get("/experiences", experienceHandler.List)
			r.Get("/experiences/{id}", experienceHandler.GetByID)
			r.Delete("/experiences/{id}", experienceHandler.Delete)

			// Analytics endpoints
			r.Post("/analytics/network", analyticsHandler.NetworkFromBatch)
			r.Get("/analytics/network", analyticsHandler.NetworkFromStore)
			r.Post("/analytics/similarity", analyticsHandler.Similarity)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
