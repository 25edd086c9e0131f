package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session event types emitted by the practice scheduler.
const (
	// EventTypeSessionStateChanged is emitted after every scheduler state
	// transition (start, answer, advance, skip, removal, end). The payload
	// is a snapshot of the session's externally visible state.
	EventTypeSessionStateChanged = "session_state_changed"

	// EventTypeSessionCompleted is emitted exactly once per ended session
	// and carries the run totals the streak tracker accumulates.
	EventTypeSessionCompleted = "session_completed"
)

// SessionEvent represents a notification about a practice session.
// It carries event data as JSON so subscribers do not depend on the
// scheduler's internal types.
type SessionEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the EventType constants above
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time `json:"occurred_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *SessionEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewSessionEvent creates a new SessionEvent with the specified type and payload.
func NewSessionEvent(eventType string, payload interface{}) (*SessionEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &SessionEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Payload:    payloadBytes,
		OccurredAt: time.Now().UTC(),
	}, nil
}

// SessionCompletedPayload is the payload of EventTypeSessionCompleted.
type SessionCompletedPayload struct {
	CardsReviewed  int     `json:"cards_reviewed"`
	CorrectCount   int     `json:"correct_count"`
	IncorrectCount int     `json:"incorrect_count"`
	Accuracy       float64 `json:"accuracy"`
	DurationMillis int64   `json:"duration_millis"`
}

// SessionStateChangedPayload is the payload of EventTypeSessionStateChanged.
type SessionStateChangedPayload struct {
	Active         bool   `json:"active"`
	NoDueItems     bool   `json:"no_due_items"`
	QueueLength    int    `json:"queue_length"`
	CurrentIndex   int    `json:"current_index"`
	AnswerState    string `json:"answer_state"`
	CorrectCount   int    `json:"correct_count"`
	IncorrectCount int    `json:"incorrect_count"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows the scheduler to publish notifications without direct knowledge
// of subscribers (UI adapters, the streak tracker).
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *SessionEvent) error
}
