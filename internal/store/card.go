package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	// Returns ErrDuplicate if a card with the same ID already exists.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// ListCandidates retrieves all non-archived cards, the candidate pool for
	// practice sessions. The scheduler applies due/eligibility filtering;
	// the store only excludes archived cards.
	ListCandidates(ctx context.Context) ([]*domain.Card, error)

	// Update persists the card's current state, including its per-exercise
	// score map and legacy aggregate counters.
	// Returns ErrCardNotFound if the card does not exist.
	// Returns validation errors if the card data is invalid.
	Update(ctx context.Context, card *domain.Card) error

	// Delete removes a card from the store by its ID.
	// Returns ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) CardStore
}
