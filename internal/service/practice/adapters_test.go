package practice

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// stubCardStore implements store.CardStore for the adapter tests.
type stubCardStore struct {
	candidates []*domain.Card
	updated    []*domain.Card
	listErr    error
	updateErr  error
}

func (s *stubCardStore) Create(_ context.Context, _ *domain.Card) error { return nil }

func (s *stubCardStore) GetByID(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (s *stubCardStore) ListCandidates(_ context.Context) ([]*domain.Card, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.candidates, nil
}

func (s *stubCardStore) Update(_ context.Context, card *domain.Card) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, card)
	return nil
}

func (s *stubCardStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *stubCardStore) WithTx(_ *sql.Tx) store.CardStore { return s }

func TestStoreCandidateSource(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	card, err := domain.NewCard("brot", "bread")
	require.NoError(t, err)

	source := NewStoreCandidateSource(&stubCardStore{candidates: []*domain.Card{card}})
	candidates, err := source.GetCandidateUnits(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, card.ID, candidates[0].ID)

	cause := errors.New("query failed")
	source = NewStoreCandidateSource(&stubCardStore{listErr: cause})
	_, err = source.GetCandidateUnits(ctx)
	assert.ErrorIs(t, err, cause)

	assert.Panics(t, func() { NewStoreCandidateSource(nil) })
}

func TestStorePersister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	card, err := domain.NewCard("brot", "bread")
	require.NoError(t, err)

	cards := &stubCardStore{}
	persister := NewStorePersister(cards)
	require.NoError(t, persister.PersistUnit(ctx, card))
	require.Len(t, cards.updated, 1)
	assert.Equal(t, card.ID, cards.updated[0].ID)

	cause := errors.New("write failed")
	persister = NewStorePersister(&stubCardStore{updateErr: cause})
	assert.ErrorIs(t, persister.PersistUnit(ctx, card), cause)

	assert.Panics(t, func() { NewStorePersister(nil) })
}
