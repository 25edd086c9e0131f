package practice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/domain/srs"
	"github.com/fluentdeck/fluentdeck-api/internal/events"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
)

// Verify interface compliance at compile time
var _ Scheduler = (*schedulerImpl)(nil)

// schedulerImpl implements the Scheduler interface.
//
// All state is owned by the single goroutine driving the scheduler; there is
// no internal locking. Callers exposing a scheduler to concurrent transports
// must serialize access themselves.
type schedulerImpl struct {
	source     CandidateSource
	persister  UnitPersister
	srsService srs.Service
	prefs      ExercisePreferences
	emitter    events.EventEmitter
	logger     *slog.Logger

	nowFn func() time.Time
	rng   *rand.Rand

	// Session state
	queue        []*PracticeItem
	currentIndex int
	active       bool
	noDueItems   bool
	sessionStart time.Time

	runCorrect   int
	runIncorrect int

	answerState   AnswerState
	answerCorrect bool

	// explicitCandidates remembers a list passed to StartSession so
	// RestartSession can rebuild from the same pool.
	explicitCandidates []*domain.Card

	// finalStats survives the transition back to idle so the UI can render
	// the session summary.
	finalStats SessionStats
}

// NewScheduler creates a new session scheduler.
//
// source may be nil when every session will be started with an explicit
// candidate list. persister and srsService are required. emitter may be nil
// when nobody subscribes to session events.
func NewScheduler(
	source CandidateSource,
	persister UnitPersister,
	srsService srs.Service,
	prefs ExercisePreferences,
	emitter events.EventEmitter,
	log *slog.Logger,
) Scheduler {
	if persister == nil {
		panic("persister cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &schedulerImpl{
		source:      source,
		persister:   persister,
		srsService:  srsService,
		prefs:       prefs,
		emitter:     emitter,
		logger:      log.With(slog.String("component", "practice_scheduler")),
		nowFn:       func() time.Time { return time.Now().UTC() },
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		answerState: AnswerStatePending,
	}
}

// StartSession implements Scheduler.StartSession.
func (s *schedulerImpl) StartSession(ctx context.Context, candidates []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.explicitCandidates = candidates
	if candidates == nil {
		if s.source == nil {
			return NewStartSessionError("no candidates", ErrNoCandidateSource)
		}
		fetched, err := s.source.GetCandidateUnits(ctx)
		if err != nil {
			log.Error("failed to fetch candidate units", slog.String("error", err.Error()))
			return NewStartSessionError(
				"candidate source failed",
				fmt.Errorf("%w: %w", ErrCandidateFetchFailed, err),
			)
		}
		candidates = fetched
	}

	now := s.nowFn()
	s.resetRunState()
	s.queue = buildQueue(candidates, s.prefs, s.srsService.DueExerciseTypes, now, s.rng)

	if len(s.queue) == 0 {
		log.Debug("no due items for session", slog.Int("candidates", len(candidates)))
		s.noDueItems = true
		s.active = false
		s.emitStateChanged(ctx)
		return nil
	}

	s.active = true
	s.sessionStart = now
	log.Debug("session started",
		slog.Int("queue_length", len(s.queue)),
		slog.Int("candidates", len(candidates)))
	s.emitStateChanged(ctx)
	return nil
}

// RestartSession implements Scheduler.RestartSession.
func (s *schedulerImpl) RestartSession(ctx context.Context) error {
	return s.StartSession(ctx, s.explicitCandidates)
}

// EndSession implements Scheduler.EndSession.
func (s *schedulerImpl) EndSession(ctx context.Context) {
	if s.active {
		s.completeSession(ctx)
		return
	}
	s.resetRunState()
}

// IsActive implements Scheduler.IsActive.
func (s *schedulerImpl) IsActive() bool {
	return s.active
}

// NoDueItems implements Scheduler.NoDueItems.
func (s *schedulerImpl) NoDueItems() bool {
	return s.noDueItems
}

// CurrentItem implements Scheduler.CurrentItem.
func (s *schedulerImpl) CurrentItem() *PracticeItem {
	if !s.active || s.currentIndex >= len(s.queue) {
		return nil
	}
	return s.queue[s.currentIndex]
}

// Progress implements Scheduler.Progress.
func (s *schedulerImpl) Progress() (int, int) {
	return s.currentIndex, len(s.queue)
}

// AnswerState implements Scheduler.AnswerState.
func (s *schedulerImpl) AnswerState() (AnswerState, bool) {
	return s.answerState, s.answerCorrect
}

// CheckAnswer implements Scheduler.CheckAnswer.
func (s *schedulerImpl) CheckAnswer(isCorrect bool) {
	if s.CurrentItem() == nil || s.answerState == AnswerStateAnswered {
		return
	}
	s.answerState = AnswerStateAnswered
	s.answerCorrect = isCorrect
}

// OverrideAnswer implements Scheduler.OverrideAnswer.
func (s *schedulerImpl) OverrideAnswer(isCorrect bool) {
	if s.CurrentItem() == nil || s.answerState != AnswerStateAnswered {
		return
	}
	s.answerCorrect = isCorrect
}

// ConfirmAnswerAndAdvance implements Scheduler.ConfirmAnswerAndAdvance.
// This is the commit point: the scoring model runs, the card is handed to
// the persister, and the queue advances. Persistence failures are logged and
// never roll back the in-memory score update.
func (s *schedulerImpl) ConfirmAnswerAndAdvance(ctx context.Context, markedCorrect bool) {
	item := s.CurrentItem()
	if item == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	now := s.nowFn()

	newScore := s.srsService.RecordAnswer(item.Card.ScoreFor(item.ExerciseType), markedCorrect, now)
	item.Card.SetScore(newScore, now)

	if err := s.persister.PersistUnit(ctx, item.Card.Clone()); err != nil {
		// Accepted tradeoff: the in-memory update survives, the save is lost.
		log.Error("failed to persist updated card",
			slog.String("card_id", item.Card.ID.String()),
			slog.String("exercise_type", string(item.ExerciseType)),
			slog.String("error", err.Error()))
	}

	if markedCorrect {
		s.runCorrect++
	} else {
		s.runIncorrect++
	}

	log.Debug("answer committed",
		slog.String("card_id", item.Card.ID.String()),
		slog.String("exercise_type", string(item.ExerciseType)),
		slog.Bool("correct", markedCorrect),
		slog.Int("chain", newScore.CurrentChain),
		slog.Time("next_review_at", *newScore.NextReviewAt))

	s.advance(ctx)
}

// SkipExercise implements Scheduler.SkipExercise.
func (s *schedulerImpl) SkipExercise(ctx context.Context) {
	if s.CurrentItem() == nil {
		return
	}
	s.advance(ctx)
}

// RemoveCardFromQueue implements Scheduler.RemoveCardFromQueue.
func (s *schedulerImpl) RemoveCardFromQueue(ctx context.Context, cardID uuid.UUID) {
	if !s.active {
		return
	}

	removedCurrent := false
	kept := s.queue[:0]
	newIndex := s.currentIndex
	for i, item := range s.queue {
		if item.Card.ID == cardID {
			if i < s.currentIndex {
				newIndex--
			} else if i == s.currentIndex {
				removedCurrent = true
			}
			continue
		}
		kept = append(kept, item)
	}
	s.queue = kept
	s.currentIndex = newIndex

	if removedCurrent {
		s.resetItemState()
	}

	if s.currentIndex >= len(s.queue) {
		s.completeSession(ctx)
		return
	}
	s.emitStateChanged(ctx)
}

// Stats implements Scheduler.Stats.
func (s *schedulerImpl) Stats() SessionStats {
	if !s.active {
		return s.finalStats
	}
	return s.snapshotStats()
}

// advance resets per-item state and moves to the next queue entry, completing
// the session when the queue is exhausted.
func (s *schedulerImpl) advance(ctx context.Context) {
	s.resetItemState()
	s.currentIndex++
	if s.currentIndex >= len(s.queue) {
		s.completeSession(ctx)
		return
	}
	s.emitStateChanged(ctx)
}

// completeSession transitions back to idle, freezes the final statistics and
// notifies subscribers, including the streak tracker.
func (s *schedulerImpl) completeSession(ctx context.Context) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.finalStats = s.snapshotStats()
	s.active = false
	s.queue = nil
	s.currentIndex = 0
	s.resetItemState()

	log.Debug("session completed",
		slog.Int("correct", s.finalStats.CorrectCount),
		slog.Int("incorrect", s.finalStats.IncorrectCount),
		slog.Duration("duration", s.finalStats.Duration))

	s.emitCompleted(ctx, s.finalStats)
	s.emitStateChanged(ctx)
}

// snapshotStats captures the current run counters.
func (s *schedulerImpl) snapshotStats() SessionStats {
	stats := SessionStats{
		CorrectCount:   s.runCorrect,
		IncorrectCount: s.runIncorrect,
	}
	if total := stats.CardsReviewed(); total > 0 {
		stats.Accuracy = float64(stats.CorrectCount) / float64(total)
	}
	if !s.sessionStart.IsZero() {
		stats.Duration = s.nowFn().Sub(s.sessionStart)
	}
	return stats
}

// resetRunState clears everything belonging to one session run.
func (s *schedulerImpl) resetRunState() {
	s.queue = nil
	s.currentIndex = 0
	s.active = false
	s.noDueItems = false
	s.sessionStart = time.Time{}
	s.runCorrect = 0
	s.runIncorrect = 0
	s.finalStats = SessionStats{}
	s.resetItemState()
}

// resetItemState clears the transient answer state of the current item.
func (s *schedulerImpl) resetItemState() {
	s.answerState = AnswerStatePending
	s.answerCorrect = false
}

// emitStateChanged publishes a state snapshot. Emit failures are logged and
// never affect the state machine.
func (s *schedulerImpl) emitStateChanged(ctx context.Context) {
	if s.emitter == nil {
		return
	}

	payload := events.SessionStateChangedPayload{
		Active:         s.active,
		NoDueItems:     s.noDueItems,
		QueueLength:    len(s.queue),
		CurrentIndex:   s.currentIndex,
		AnswerState:    string(s.answerState),
		CorrectCount:   s.runCorrect,
		IncorrectCount: s.runIncorrect,
	}
	event, err := events.NewSessionEvent(events.EventTypeSessionStateChanged, payload)
	if err != nil {
		s.logger.Error("failed to build state change event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit state change event", slog.String("error", err.Error()))
	}
}

// emitCompleted publishes the end-of-session totals.
func (s *schedulerImpl) emitCompleted(ctx context.Context, stats SessionStats) {
	if s.emitter == nil {
		return
	}

	payload := events.SessionCompletedPayload{
		CardsReviewed:  stats.CardsReviewed(),
		CorrectCount:   stats.CorrectCount,
		IncorrectCount: stats.IncorrectCount,
		Accuracy:       stats.Accuracy,
		DurationMillis: stats.Duration.Milliseconds(),
	}
	event, err := events.NewSessionEvent(events.EventTypeSessionCompleted, payload)
	if err != nil {
		s.logger.Error("failed to build completion event", slog.String("error", err.Error()))
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.logger.Error("failed to emit completion event", slog.String("error", err.Error()))
	}
}
