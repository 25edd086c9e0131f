package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// StreakStore defines the interface for daily practice activity persistence.
type StreakStore interface {
	// RecordActivity adds reviewed cards to the daily total for the given
	// day. The day is truncated to UTC midnight; recording twice on the same
	// day accumulates into a single row.
	RecordActivity(ctx context.Context, day time.Time, cardsReviewed int) error

	// ListRecentActivity returns up to limit daily activity rows, most
	// recent day first. Returns an empty slice when nothing was recorded.
	ListRecentActivity(ctx context.Context, limit int) ([]domain.DailyActivity, error)

	// WithTx returns a new StreakStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) StreakStore
}
