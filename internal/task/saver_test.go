package task

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// blockingCardStore implements store.CardStore and records Update calls.
// Updates can be held open with the gate channel to keep the queue occupied.
type blockingCardStore struct {
	mu        sync.Mutex
	updated   []uuid.UUID
	updateErr error
	gate      chan struct{}
	inflight  chan struct{}
}

func (s *blockingCardStore) Update(_ context.Context, card *domain.Card) error {
	if s.inflight != nil {
		s.inflight <- struct{}{}
	}
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updated = append(s.updated, card.ID)
	return nil
}

func (s *blockingCardStore) updatedIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, len(s.updated))
	copy(out, s.updated)
	return out
}

func (s *blockingCardStore) Create(_ context.Context, _ *domain.Card) error { return nil }

func (s *blockingCardStore) GetByID(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (s *blockingCardStore) ListCandidates(_ context.Context) ([]*domain.Card, error) {
	return nil, nil
}

func (s *blockingCardStore) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func (s *blockingCardStore) WithTx(_ *sql.Tx) store.CardStore { return s }

func newTestCard(t *testing.T) *domain.Card {
	t.Helper()
	card, err := domain.NewCard("laufen", "to run")
	require.NoError(t, err)
	return card
}

func TestCardSaverPersistsInBackground(t *testing.T) {
	t.Parallel()

	cards := &blockingCardStore{}
	saver := NewCardSaver(cards, CardSaverConfig{QueueSize: 4, WorkerCount: 2}, nil)
	saver.Start()

	first := newTestCard(t)
	second := newTestCard(t)
	require.NoError(t, saver.PersistUnit(context.Background(), first))
	require.NoError(t, saver.PersistUnit(context.Background(), second))

	// Stop drains the queue, so every enqueued card must be saved by now.
	saver.Stop()

	assert.ElementsMatch(t, []uuid.UUID{first.ID, second.ID}, cards.updatedIDs())
}

func TestCardSaverSwallowsStoreFailures(t *testing.T) {
	t.Parallel()

	cards := &blockingCardStore{updateErr: errors.New("deadlock detected")}
	saver := NewCardSaver(cards, CardSaverConfig{QueueSize: 4, WorkerCount: 1}, nil)
	saver.Start()

	require.NoError(t, saver.PersistUnit(context.Background(), newTestCard(t)))
	saver.Stop()

	assert.Empty(t, cards.updatedIDs())
}

func TestCardSaverDropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	cards := &blockingCardStore{gate: gate, inflight: make(chan struct{}, 2)}
	saver := NewCardSaver(cards, CardSaverConfig{QueueSize: 1, WorkerCount: 1}, nil)
	saver.Start()

	// First card occupies the worker, second fills the buffer, third must be
	// dropped without blocking the caller.
	require.NoError(t, saver.PersistUnit(context.Background(), newTestCard(t)))
	<-cards.inflight
	require.NoError(t, saver.PersistUnit(context.Background(), newTestCard(t)))

	dropped := newTestCard(t)
	require.NoError(t, saver.PersistUnit(context.Background(), dropped))

	close(gate)
	saver.Stop()

	saved := cards.updatedIDs()
	assert.Len(t, saved, 2)
	assert.NotContains(t, saved, dropped.ID)
}

func TestNewCardSaverAppliesDefaults(t *testing.T) {
	t.Parallel()

	saver := NewCardSaver(&blockingCardStore{}, CardSaverConfig{}, nil)

	defaults := DefaultCardSaverConfig()
	assert.Equal(t, defaults.QueueSize, saver.config.QueueSize)
	assert.Equal(t, defaults.WorkerCount, saver.config.WorkerCount)

	assert.Panics(t, func() {
		NewCardSaver(nil, CardSaverConfig{}, nil)
	})
}
