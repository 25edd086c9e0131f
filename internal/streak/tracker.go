// Package streak tracks daily practice consistency. The tracker subscribes
// to session-completed events and accumulates per-day reviewed-card totals,
// from which current and longest streaks are derived.
package streak

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/events"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/logger"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// summaryWindowDays bounds how far back streaks are computed. A streak longer
// than a year is reported as the window size.
const summaryWindowDays = 365

// Tracker consumes session-completed events and persists daily activity.
// It implements events.EventHandler.
type Tracker struct {
	activities store.StreakStore
	logger     *slog.Logger
	nowFn      func() time.Time
}

// Verify interface compliance at compile time
var _ events.EventHandler = (*Tracker)(nil)

// NewTracker creates a new streak tracker backed by the given store.
func NewTracker(activities store.StreakStore, log *slog.Logger) *Tracker {
	if activities == nil {
		panic("activities cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		activities: activities,
		logger:     log.With(slog.String("component", "streak_tracker")),
		nowFn:      func() time.Time { return time.Now().UTC() },
	}
}

// HandleEvent implements events.EventHandler. Only session-completed events
// are of interest; everything else is ignored. Sessions with zero reviewed
// cards do not count toward a streak day.
func (t *Tracker) HandleEvent(ctx context.Context, event *events.SessionEvent) error {
	if event.Type != events.EventTypeSessionCompleted {
		return nil
	}

	var payload events.SessionCompletedPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		return fmt.Errorf("failed to decode session completed payload: %w", err)
	}

	if payload.CardsReviewed == 0 {
		return nil
	}

	log := logger.FromContextOrDefault(ctx, t.logger)
	day := domain.ActivityDay(t.nowFn())

	if err := t.activities.RecordActivity(ctx, day, payload.CardsReviewed); err != nil {
		log.Error("failed to record daily activity",
			slog.Time("day", day),
			slog.Int("cards_reviewed", payload.CardsReviewed),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to record daily activity: %w", err)
	}

	log.Debug("daily activity recorded",
		slog.Time("day", day),
		slog.Int("cards_reviewed", payload.CardsReviewed))
	return nil
}

// Summary computes the user's streak state from recent activity.
// The current streak counts consecutive active days ending today or
// yesterday; a gap of one full day breaks it.
func (t *Tracker) Summary(ctx context.Context) (*domain.StreakSummary, error) {
	activity, err := t.activities.ListRecentActivity(ctx, summaryWindowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent activity: %w", err)
	}

	summary := &domain.StreakSummary{}
	if len(activity) == 0 {
		return summary, nil
	}

	for _, a := range activity {
		summary.TotalCardsReviewed += a.CardsReviewed
	}
	last := activity[0].Day
	summary.LastActiveDay = &last

	today := domain.ActivityDay(t.nowFn())
	summary.CurrentStreakDays = currentStreak(activity, today)
	summary.LongestStreakDays = longestStreak(activity)

	return summary, nil
}

// currentStreak counts consecutive active days ending today or yesterday.
// activity must be ordered most recent day first.
func currentStreak(activity []domain.DailyActivity, today time.Time) int {
	// A streak survives until a full day was missed, so it may anchor on
	// yesterday when today has no practice yet.
	anchor := activity[0].Day
	if anchor.Before(today.AddDate(0, 0, -1)) {
		return 0
	}

	streak := 1
	for i := 1; i < len(activity); i++ {
		if !activity[i].Day.Equal(activity[i-1].Day.AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

// longestStreak finds the longest run of consecutive days in the window.
// activity must be ordered most recent day first.
func longestStreak(activity []domain.DailyActivity) int {
	longest, run := 1, 1
	for i := 1; i < len(activity); i++ {
		if activity[i].Day.Equal(activity[i-1].Day.AddDate(0, 0, -1)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
