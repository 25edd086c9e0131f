package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/fluentdeck/fluentdeck-api/internal/api"
	"github.com/fluentdeck/fluentdeck-api/internal/config"
	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/domain/srs"
	"github.com/fluentdeck/fluentdeck-api/internal/events"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/postgres"
	"github.com/fluentdeck/fluentdeck-api/internal/service/practice"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
	"github.com/fluentdeck/fluentdeck-api/internal/streak"
	"github.com/fluentdeck/fluentdeck-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	cardStore   store.CardStore
	streakStore store.StreakStore

	// Scheduling
	srsService srs.Service
	sessions   *api.SessionManager

	// Event system
	eventEmitter  events.EventEmitter
	streakTracker *streak.Tracker

	// Background persistence
	cardSaver *task.CardSaver
}

// newApplication creates a new application instance with all dependencies initialized.
// It accepts core dependencies like configuration, logger, and database connection that
// must be established before application initialization.
func newApplication(_ context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize stores
	app.cardStore = postgres.NewPostgresCardStore(db, logger)
	app.streakStore = postgres.NewPostgresStreakStore(db, logger)

	// Initialize SRS service
	app.srsService = srs.NewDefaultService()

	// Initialize the background card saver. Saves are fire-and-forget:
	// failures are logged, never surfaced to the session.
	app.cardSaver = task.NewCardSaver(app.cardStore, task.CardSaverConfig{
		QueueSize:   cfg.Practice.SaveQueueSize,
		WorkerCount: task.DefaultCardSaverConfig().WorkerCount,
	}, logger)
	app.cardSaver.Start()

	// Initialize event emitter and register the streak tracker on it
	emitter := events.NewInMemoryEventEmitter(logger)
	app.streakTracker = streak.NewTracker(app.streakStore, logger)
	emitter.RegisterHandler(app.streakTracker)
	app.eventEmitter = emitter

	// Build the session manager. Each session gets a fresh scheduler so
	// per-session preference overrides never leak into the next run.
	defaults, err := preferencesFromConfig(cfg.Practice)
	if err != nil {
		return nil, fmt.Errorf("failed to build exercise preferences: %w", err)
	}

	candidateSource := practice.NewStoreCandidateSource(app.cardStore)
	factory := func(prefs practice.ExercisePreferences) practice.Scheduler {
		return practice.NewScheduler(
			candidateSource,
			app.cardSaver,
			app.srsService,
			prefs,
			app.eventEmitter,
			logger,
		)
	}
	app.sessions = api.NewSessionManager(factory, defaults)

	logger.Info("Application initialized successfully")
	return app, nil
}

// preferencesFromConfig translates the practice configuration block into
// scheduler preferences.
func preferencesFromConfig(cfg config.PracticeConfig) (practice.ExercisePreferences, error) {
	enabled := make(map[domain.ExerciseType]bool, len(cfg.EnabledExerciseTypes))
	for _, name := range cfg.EnabledExerciseTypes {
		t := domain.ExerciseType(name)
		if !domain.IsValidExerciseType(t) {
			return practice.ExercisePreferences{}, fmt.Errorf("unknown exercise type %q", name)
		}
		enabled[t] = true
	}

	return practice.ExercisePreferences{
		EnabledTypes:         enabled,
		PrioritizeWeaknesses: cfg.PrioritizeWeaknesses,
		WeaknessThreshold:    cfg.WeaknessThreshold,
	}, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	// Set up router using the application dependencies
	router := app.setupRouter()

	// Start the HTTP server
	err := app.startHTTPServer(ctx, router)
	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Stop the card saver, draining queued saves
	if app.cardSaver != nil {
		app.cardSaver.Stop()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
