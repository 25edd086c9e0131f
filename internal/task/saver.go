package task

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// saveTimeout bounds one store write so a stalled database cannot wedge the
// worker forever.
const saveTimeout = 5 * time.Second

// CardSaverConfig holds configuration for the background card saver.
type CardSaverConfig struct {
	// QueueSize determines the buffer size for the in-memory save queue.
	QueueSize int

	// WorkerCount determines how many goroutines drain the queue.
	WorkerCount int
}

// DefaultCardSaverConfig returns a CardSaverConfig with reasonable defaults.
func DefaultCardSaverConfig() CardSaverConfig {
	return CardSaverConfig{
		QueueSize:   128,
		WorkerCount: 1,
	}
}

// CardSaver persists updated cards in the background. It implements the
// scheduler's UnitPersister collaborator: PersistUnit enqueues and returns
// immediately, and the worker performs the store write. A full queue or a
// failed write is logged and the card update dropped; the in-memory session
// state is the source of truth until the next successful save.
type CardSaver struct {
	cards      store.CardStore
	queue      chan *domain.Card
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     CardSaverConfig
	logger     *slog.Logger
}

// NewCardSaver creates a new CardSaver draining into the given card store.
func NewCardSaver(cards store.CardStore, config CardSaverConfig, logger *slog.Logger) *CardSaver {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultCardSaverConfig().QueueSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultCardSaverConfig().WorkerCount
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &CardSaver{
		cards:      cards,
		queue:      make(chan *domain.Card, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "card_saver")),
	}
}

// Start launches the worker goroutines.
func (s *CardSaver) Start() {
	for i := 0; i < s.config.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}
	s.logger.Debug("card saver started",
		slog.Int("workers", s.config.WorkerCount),
		slog.Int("queue_size", s.config.QueueSize))
}

// Stop drains the queue and waits for in-flight saves to finish.
func (s *CardSaver) Stop() {
	close(s.queue)
	s.wg.Wait()
	s.cancelFunc()
	s.logger.Debug("card saver stopped")
}

// PersistUnit implements the practice.UnitPersister interface. The card is
// enqueued for a background save; the call never blocks. When the queue is
// full the update is dropped with an error log, matching the fire-and-forget
// persistence contract.
func (s *CardSaver) PersistUnit(_ context.Context, card *domain.Card) error {
	select {
	case s.queue <- card:
		return nil
	default:
		s.logger.Error("save queue full, dropping card update",
			slog.String("card_id", card.ID.String()))
		return nil
	}
}

// worker drains the queue until it is closed.
func (s *CardSaver) worker(id int) {
	defer s.wg.Done()
	log := s.logger.With(slog.Int("worker", id))

	for card := range s.queue {
		ctx, cancel := context.WithTimeout(s.ctx, saveTimeout)
		err := s.cards.Update(ctx, card)
		cancel()

		if err != nil {
			log.Error("failed to save card",
				slog.String("card_id", card.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		log.Debug("card saved", slog.String("card_id", card.ID.String()))
	}
}
