package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/fluentdeck/fluentdeck-api/internal/api"
	apiMiddleware "github.com/fluentdeck/fluentdeck-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes and middleware.
// It accepts the application dependencies to create handlers and register routes.
// Returns the configured router.
func (app *application) setupRouter() http.Handler {
	// Create a router
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware) // Add trace IDs for improved error handling

	// Create API handlers using the application's services
	practiceHandler := api.NewPracticeHandler(app.sessions, app.logger)
	cardHandler := api.NewCardHandler(app.cardStore, app.logger)
	streakHandler := api.NewStreakHandler(app.streakTracker, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Practice session endpoints
		r.Route("/practice/session", func(r chi.Router) {
			r.Post("/", practiceHandler.StartSession)
			r.Get("/", practiceHandler.GetSessionState)
			r.Delete("/", practiceHandler.EndSession)
			r.Post("/restart", practiceHandler.RestartSession)
			r.Post("/answer", practiceHandler.CheckAnswer)
			r.Post("/answer/override", practiceHandler.OverrideAnswer)
			r.Post("/answer/confirm", practiceHandler.ConfirmAnswer)
			r.Post("/skip", practiceHandler.SkipExercise)
			r.Delete("/queue/{id}", practiceHandler.RemoveCardFromQueue)
			r.Get("/stats", practiceHandler.GetStats)
		})

		// Card lookup endpoints
		r.Get("/cards", cardHandler.ListCards)
		r.Get("/cards/{id}", cardHandler.GetCard)

		// Streak endpoint
		r.Get("/streak", streakHandler.GetStreak)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
