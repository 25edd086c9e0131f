package api

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-api/internal/service/practice"
)

// SchedulerFactory builds a fresh scheduler for one practice session with the
// given exercise preferences.
type SchedulerFactory func(prefs practice.ExercisePreferences) practice.Scheduler

// SessionState is an atomic snapshot of the scheduler's observable state,
// taken under the session lock so handlers never see a half-advanced queue.
type SessionState struct {
	Active      bool
	NoDueItems  bool
	Current     int
	Total       int
	AnswerState practice.AnswerState
	Answered    bool
	IsCorrect   bool
	CurrentItem *practice.PracticeItem
	Stats       practice.SessionStats
}

// SessionManager owns the single live practice session and serializes all
// access to it. The scheduler itself is not safe for concurrent use; the
// manager's mutex is what upholds the single-goroutine ownership contract
// over concurrent HTTP requests.
type SessionManager struct {
	mu        sync.Mutex
	scheduler practice.Scheduler
	factory   SchedulerFactory
	defaults  practice.ExercisePreferences
}

// NewSessionManager creates a SessionManager that builds schedulers through
// factory, falling back to defaults when a session does not narrow its
// preferences.
func NewSessionManager(factory SchedulerFactory, defaults practice.ExercisePreferences) *SessionManager {
	if factory == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("scheduler factory cannot be nil for SessionManager")
	}
	return &SessionManager{
		factory:  factory,
		defaults: defaults,
	}
}

// DefaultPreferences returns the server-wide preference defaults.
func (m *SessionManager) DefaultPreferences() practice.ExercisePreferences {
	return m.defaults
}

// Start replaces any live session with a freshly built one.
func (m *SessionManager) Start(ctx context.Context, prefs practice.ExercisePreferences) (SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scheduler = m.factory(prefs)
	if err := m.scheduler.StartSession(ctx, nil); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// Restart rebuilds the current session's queue from its original candidates.
func (m *SessionManager) Restart(ctx context.Context) (SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler == nil {
		return m.snapshotLocked(), nil
	}
	if err := m.scheduler.RestartSession(ctx); err != nil {
		return m.snapshotLocked(), err
	}
	return m.snapshotLocked(), nil
}

// End deactivates the live session. The final stats stay readable until the
// next Start.
func (m *SessionManager) End(ctx context.Context) SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		m.scheduler.EndSession(ctx)
	}
	return m.snapshotLocked()
}

// State returns the current session snapshot.
func (m *SessionManager) State() SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// CheckWithAnswer validates the given answer text against the current item
// and records the result. Self-graded items cannot be auto-checked; the
// second return value reports whether validation happened at all.
func (m *SessionManager) CheckWithAnswer(given string) (correct bool, autoChecked bool, state SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler == nil {
		return false, false, m.snapshotLocked()
	}
	item := m.scheduler.CurrentItem()
	correct, autoChecked = practice.CheckProposedAnswer(item, given)
	if autoChecked {
		m.scheduler.CheckAnswer(correct)
	}
	return correct, autoChecked, m.snapshotLocked()
}

// CheckExplicit records a user-reported correctness for the current item.
// Used by self-graded exercise types.
func (m *SessionManager) CheckExplicit(isCorrect bool) SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		m.scheduler.CheckAnswer(isCorrect)
	}
	return m.snapshotLocked()
}

// Override flips the recorded correctness of an answered item.
func (m *SessionManager) Override(isCorrect bool) SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		m.scheduler.OverrideAnswer(isCorrect)
	}
	return m.snapshotLocked()
}

// Confirm commits the recorded answer and advances the queue. Confirming
// while the current item is unanswered is a no-op.
func (m *SessionManager) Confirm(ctx context.Context) SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler == nil {
		return m.snapshotLocked()
	}
	state, markedCorrect := m.scheduler.AnswerState()
	if state != practice.AnswerStateAnswered {
		return m.snapshotLocked()
	}
	m.scheduler.ConfirmAnswerAndAdvance(ctx, markedCorrect)
	return m.snapshotLocked()
}

// Skip advances past the current item without scoring it.
func (m *SessionManager) Skip(ctx context.Context) SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		m.scheduler.SkipExercise(ctx)
	}
	return m.snapshotLocked()
}

// RemoveCard drops every queue item for the given card.
func (m *SessionManager) RemoveCard(ctx context.Context, cardID uuid.UUID) SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler != nil {
		m.scheduler.RemoveCardFromQueue(ctx, cardID)
	}
	return m.snapshotLocked()
}

// Stats returns the run counters of the live session, or of the last
// completed one.
func (m *SessionManager) Stats() practice.SessionStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scheduler == nil {
		return practice.SessionStats{}
	}
	return m.scheduler.Stats()
}

// snapshotLocked assembles a SessionState. Callers must hold m.mu.
func (m *SessionManager) snapshotLocked() SessionState {
	if m.scheduler == nil {
		return SessionState{AnswerState: practice.AnswerStatePending}
	}

	current, total := m.scheduler.Progress()
	answerState, isCorrect := m.scheduler.AnswerState()
	return SessionState{
		Active:      m.scheduler.IsActive(),
		NoDueItems:  m.scheduler.NoDueItems(),
		Current:     current,
		Total:       total,
		AnswerState: answerState,
		Answered:    answerState == practice.AnswerStateAnswered,
		IsCorrect:   isCorrect,
		CurrentItem: m.scheduler.CurrentItem(),
		Stats:       m.scheduler.Stats(),
	}
}
