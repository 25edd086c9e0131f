package api

import (
	"log/slog"
	"net/http"

	"github.com/fluentdeck/fluentdeck-api/internal/api/shared"
	"github.com/fluentdeck/fluentdeck-api/internal/streak"
)

// StreakHandler handles activity-streak HTTP requests.
type StreakHandler struct {
	tracker *streak.Tracker
	logger  *slog.Logger
}

// NewStreakHandler creates a new StreakHandler.
func NewStreakHandler(tracker *streak.Tracker, log *slog.Logger) *StreakHandler {
	if tracker == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("streak tracker cannot be nil for StreakHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StreakHandler")
	}
	return &StreakHandler{
		tracker: tracker,
		logger:  log.With(slog.String("component", "streak_handler")),
	}
}

// GetStreak handles GET /streak requests.
func (h *StreakHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	summary, err := h.tracker.Summary(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), "Failed to load streak summary", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, streakToResponse(summary))
}
