package practice

import (
	"context"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// storeCandidateSource adapts a store.CardStore to the CandidateSource
// collaborator interface.
type storeCandidateSource struct {
	cards store.CardStore
}

// NewStoreCandidateSource returns a CandidateSource backed by the card store.
func NewStoreCandidateSource(cards store.CardStore) CandidateSource {
	if cards == nil {
		panic("cards cannot be nil")
	}
	return &storeCandidateSource{cards: cards}
}

// GetCandidateUnits implements CandidateSource.
func (s *storeCandidateSource) GetCandidateUnits(ctx context.Context) ([]*domain.Card, error) {
	return s.cards.ListCandidates(ctx)
}

// storePersister adapts a store.CardStore to the UnitPersister collaborator
// interface with synchronous saves. Production wiring usually prefers the
// asynchronous saver in internal/task; this adapter serves tests and simple
// embeddings.
type storePersister struct {
	cards store.CardStore
}

// NewStorePersister returns a UnitPersister that saves synchronously through
// the card store.
func NewStorePersister(cards store.CardStore) UnitPersister {
	if cards == nil {
		panic("cards cannot be nil")
	}
	return &storePersister{cards: cards}
}

// PersistUnit implements UnitPersister.
func (s *storePersister) PersistUnit(ctx context.Context, card *domain.Card) error {
	return s.cards.Update(ctx, card)
}
