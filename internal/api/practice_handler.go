package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-api/internal/api/shared"
	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
)

// PracticeHandler handles practice-session HTTP requests. All session state
// lives in the SessionManager; the handler only translates HTTP to session
// operations.
type PracticeHandler struct {
	sessions *SessionManager
	logger   *slog.Logger
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(sessions *SessionManager, log *slog.Logger) *PracticeHandler {
	if sessions == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("session manager cannot be nil for PracticeHandler")
	}
	if log == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for PracticeHandler")
	}
	return &PracticeHandler{
		sessions: sessions,
		logger:   log.With(slog.String("component", "practice_handler")),
	}
}

// StartSession handles POST /practice/session requests.
// An empty body starts a session with the server default preferences.
func (h *PracticeHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	prefs := h.sessions.DefaultPreferences()
	if len(req.EnabledExerciseTypes) > 0 {
		enabled := make(map[domain.ExerciseType]bool, len(req.EnabledExerciseTypes))
		for _, name := range req.EnabledExerciseTypes {
			enabled[domain.ExerciseType(name)] = true
		}
		prefs.EnabledTypes = enabled
	}
	if req.PrioritizeWeaknesses != nil {
		prefs.PrioritizeWeaknesses = *req.PrioritizeWeaknesses
	}
	if req.WeaknessThreshold != nil {
		prefs.WeaknessThreshold = *req.WeaknessThreshold
	}

	state, err := h.sessions.Start(r.Context(), prefs)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("practice session started",
		slog.Bool("no_due_items", state.NoDueItems),
		slog.Int("queue_length", state.Total))
	shared.RespondWithJSON(w, r, http.StatusCreated, stateToResponse(state))
}

// RestartSession handles POST /practice/session/restart requests.
func (h *PracticeHandler) RestartSession(w http.ResponseWriter, r *http.Request) {
	state, err := h.sessions.Restart(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// EndSession handles DELETE /practice/session requests. The response carries
// the final run stats.
func (h *PracticeHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.End(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// GetSessionState handles GET /practice/session requests.
func (h *PracticeHandler) GetSessionState(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(h.sessions.State()))
}

// CheckAnswer handles POST /practice/session/answer requests.
// The body carries either the answer text for server-validated exercise
// types, or an explicit correctness for self-graded ones.
func (h *PracticeHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req CheckAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if (req.Answer == nil) == (req.IsCorrect == nil) {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Exactly one of answer or is_correct must be provided")
		return
	}

	if req.IsCorrect != nil {
		state := h.sessions.CheckExplicit(*req.IsCorrect)
		shared.RespondWithJSON(w, r, http.StatusOK, CheckAnswerResponse{
			Correct:     *req.IsCorrect,
			AutoChecked: false,
			State:       stateToResponse(state),
		})
		return
	}

	correct, autoChecked, state := h.sessions.CheckWithAnswer(*req.Answer)
	if !autoChecked {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Current exercise cannot be auto-checked; submit is_correct instead")
		return
	}

	resp := CheckAnswerResponse{
		Correct:     correct,
		AutoChecked: true,
		State:       stateToResponse(state),
	}
	if state.CurrentItem != nil {
		resp.CorrectAnswer = state.CurrentItem.Answer
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// OverrideAnswer handles POST /practice/session/answer/override requests.
func (h *PracticeHandler) OverrideAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req OverrideAnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	state := h.sessions.Override(req.IsCorrect)
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// ConfirmAnswer handles POST /practice/session/answer/confirm requests.
func (h *PracticeHandler) ConfirmAnswer(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Confirm(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// SkipExercise handles POST /practice/session/skip requests.
func (h *PracticeHandler) SkipExercise(w http.ResponseWriter, r *http.Request) {
	state := h.sessions.Skip(r.Context())
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// RemoveCardFromQueue handles DELETE /practice/session/queue/{id} requests.
func (h *PracticeHandler) RemoveCardFromQueue(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	pathCardID := chi.URLParam(r, "id")
	cardID, err := uuid.Parse(pathCardID)
	if err != nil {
		log.Warn("invalid card ID format", slog.String("card_id", pathCardID))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID format")
		return
	}

	state := h.sessions.RemoveCard(r.Context(), cardID)
	shared.RespondWithJSON(w, r, http.StatusOK, stateToResponse(state))
}

// GetStats handles GET /practice/session/stats requests.
func (h *PracticeHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(h.sessions.Stats()))
}

// stateToResponse converts a SessionState snapshot to its response shape.
func stateToResponse(state SessionState) SessionStateResponse {
	resp := SessionStateResponse{
		Active:       state.Active,
		NoDueItems:   state.NoDueItems,
		Current:      state.Current,
		Total:        state.Total,
		AnswerState:  string(state.AnswerState),
		CurrentItem:  itemToResponse(state.CurrentItem),
		SessionStats: statsToResponse(state.Stats),
	}
	if state.Answered {
		isCorrect := state.IsCorrect
		resp.IsCorrect = &isCorrect
	}
	return resp
}
