// Package practice implements the session scheduler: the state machine that
// builds a queue of due practice items, serves them one at a time, feeds
// answers into the scoring model, and persists updated cards.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// ExercisePreferences configures which exercise types a session may draw from
// and how weaknesses are prioritized. It is passed explicitly into the
// scheduler rather than read from ambient state.
type ExercisePreferences struct {
	// EnabledTypes is the set of exercise types the user wants to practice.
	EnabledTypes map[domain.ExerciseType]bool

	// PrioritizeWeaknesses biases the queue toward exercise types whose
	// success rate is below WeaknessThreshold.
	PrioritizeWeaknesses bool

	// WeaknessThreshold is the success-rate percentage (0-100) below which
	// an exercise type counts as a weakness.
	WeaknessThreshold float64
}

// DefaultExercisePreferences enables every exercise type with weakness
// prioritization on and a threshold of 70 percent.
func DefaultExercisePreferences() ExercisePreferences {
	enabled := make(map[domain.ExerciseType]bool, len(domain.AllExerciseTypes()))
	for _, t := range domain.AllExerciseTypes() {
		enabled[t] = true
	}
	return ExercisePreferences{
		EnabledTypes:         enabled,
		PrioritizeWeaknesses: true,
		WeaknessThreshold:    70,
	}
}

// Enabled reports whether the given exercise type is allowed by these
// preferences.
func (p ExercisePreferences) Enabled(t domain.ExerciseType) bool {
	return p.EnabledTypes[t]
}

// PracticeItem is one entry in a session's queue: a card paired with the
// exercise type to practice it with. Items are ephemeral; identity is the
// (card ID, exercise type) pair.
type PracticeItem struct {
	Card         *domain.Card
	ExerciseType domain.ExerciseType

	// Prompt and Answer are the rendered faces of the item. Answer is empty
	// for self-graded types, which have nothing to auto-check against.
	Prompt string
	Answer string

	// Options holds generated choice sets: distractor translations for
	// multiple choice, the gender set for article drills, shuffled words for
	// sentence building. Empty for plain text-entry types.
	Options []string
}

// Same reports whether two items refer to the same (card, exercise type) pair.
func (i *PracticeItem) Same(other *PracticeItem) bool {
	if i == nil || other == nil {
		return i == other
	}
	return i.Card.ID == other.Card.ID && i.ExerciseType == other.ExerciseType
}

// AnswerState tracks the transient answer lifecycle of the current item.
type AnswerState string

// Possible answer states
const (
	// AnswerStatePending means the current item has not been answered yet.
	AnswerStatePending AnswerState = "pending"

	// AnswerStateAnswered means a correctness has been recorded but not yet
	// committed; the UI may still override it before confirming.
	AnswerStateAnswered AnswerState = "answered"
)

// SessionStats summarizes a practice run.
type SessionStats struct {
	CorrectCount   int
	IncorrectCount int
	Accuracy       float64 // correct / (correct + incorrect), 0 with no answers
	Duration       time.Duration
}

// CardsReviewed returns the total number of committed answers.
func (s SessionStats) CardsReviewed() int {
	return s.CorrectCount + s.IncorrectCount
}

// CandidateSource supplies the pool of cards a session is built from.
// Typically backed by the card store.
type CandidateSource interface {
	// GetCandidateUnits returns the cards eligible for scheduling.
	// Archived cards may be included; the scheduler excludes them.
	GetCandidateUnits(ctx context.Context) ([]*domain.Card, error)
}

// UnitPersister persists a card after a confirmed answer. Implementations may
// complete the save asynchronously; the scheduler treats failures as
// log-and-continue and never rolls back the in-memory update.
type UnitPersister interface {
	PersistUnit(ctx context.Context, card *domain.Card) error
}

// Scheduler owns the practice-queue state machine for one session at a time.
//
// A Scheduler is driven by discrete calls from a single goroutine (the UI
// event loop or one serialized HTTP session); it performs no background work
// and holds no locks. Operations invoked in an invalid state are defensive
// no-ops, never errors.
type Scheduler interface {
	// StartSession builds a fresh queue and activates the session. When
	// candidates is nil the candidate source collaborator is consulted.
	// An empty queue is not an error: the session stays idle and NoDueItems
	// reports true.
	StartSession(ctx context.Context, candidates []*domain.Card) error

	// RestartSession rebuilds the queue from the same candidate source the
	// current session was started with and resets all run counters.
	RestartSession(ctx context.Context) error

	// EndSession deactivates the session and clears its state. Scores are
	// never mutated by ending a session.
	EndSession(ctx context.Context)

	// IsActive reports whether a session is in progress.
	IsActive() bool

	// NoDueItems reports whether the last StartSession found nothing to
	// practice.
	NoDueItems() bool

	// CurrentItem returns the queue entry at the current index, or nil if
	// the queue is empty or exhausted.
	CurrentItem() *PracticeItem

	// Progress returns the number of consumed items and the queue length.
	Progress() (current int, total int)

	// AnswerState returns the transient answer state of the current item
	// and, when answered, the recorded correctness.
	AnswerState() (state AnswerState, markedCorrect bool)

	// CheckAnswer records the proposed correctness for the current item
	// without persisting or advancing core state. The UI renders the
	// answered state and may still override before confirming.
	CheckAnswer(isCorrect bool)

	// OverrideAnswer flips the recorded correctness while the current item
	// is in the answered state. Used by self-graded exercise types.
	OverrideAnswer(isCorrect bool)

	// ConfirmAnswerAndAdvance commits the answer: updates the card's score
	// through the scoring model, hands the card to the persister, bumps run
	// counters and advances the queue. Calling it with no current item is a
	// no-op.
	ConfirmAnswerAndAdvance(ctx context.Context, markedCorrect bool)

	// SkipExercise advances past the current item without recording any
	// score change.
	SkipExercise(ctx context.Context)

	// RemoveCardFromQueue drops every queue item referencing the card, e.g.
	// after the card was deleted elsewhere. Removing the last remaining
	// items ends the session.
	RemoveCardFromQueue(ctx context.Context, cardID uuid.UUID)

	// Stats returns the run counters of the current session, or of the last
	// completed one after the session ended.
	Stats() SessionStats
}

// Common error types for the practice scheduler.
var (
	// ErrNoCandidateSource indicates StartSession was called without an
	// explicit candidate list on a scheduler that has no candidate source.
	ErrNoCandidateSource = errors.New("no candidate source configured")

	// ErrCandidateFetchFailed indicates the candidate source collaborator
	// failed; the wrapped error has the cause.
	ErrCandidateFetchFailed = errors.New("failed to fetch candidate units")
)

// ServiceError wraps errors from the practice scheduler with additional
// context, allowing consumers to differentiate error sources with errors.As
// instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g. "start_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewStartSessionError returns a new ServiceError for the start_session operation.
func NewStartSessionError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "start_session",
		Message:   message,
		Err:       err,
	}
}
