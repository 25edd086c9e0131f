package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// PostgresStreakStore implements the store.StreakStore interface
// using a PostgreSQL database as the storage backend.
type PostgresStreakStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresStreakStore creates a new PostgreSQL implementation of the
// StreakStore interface. If logger is nil, a default logger will be used.
func NewPostgresStreakStore(db store.DBTX, logger *slog.Logger) *PostgresStreakStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresStreakStore{
		db:     db,
		logger: logger.With(slog.String("component", "streak_store")),
	}
}

// Ensure PostgresStreakStore implements store.StreakStore interface
var _ store.StreakStore = (*PostgresStreakStore)(nil)

// RecordActivity implements store.StreakStore.RecordActivity.
// The day column is unique, so repeated sessions on one day accumulate.
func (s *PostgresStreakStore) RecordActivity(
	ctx context.Context,
	day time.Time,
	cardsReviewed int,
) error {
	query := `
		INSERT INTO daily_activity (day, cards_reviewed)
		VALUES ($1, $2)
		ON CONFLICT (day)
		DO UPDATE SET cards_reviewed = daily_activity.cards_reviewed + EXCLUDED.cards_reviewed`

	_, err := s.db.ExecContext(ctx, query, domain.ActivityDay(day), cardsReviewed)
	if err != nil {
		return store.NewStoreError(
			"daily_activity", "record_activity", "failed to upsert daily activity", MapError(err))
	}
	return nil
}

// ListRecentActivity implements store.StreakStore.ListRecentActivity.
func (s *PostgresStreakStore) ListRecentActivity(
	ctx context.Context,
	limit int,
) ([]domain.DailyActivity, error) {
	query := `
		SELECT day, cards_reviewed
		FROM daily_activity
		ORDER BY day DESC
		LIMIT $1`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	activity := make([]domain.DailyActivity, 0)
	for rows.Next() {
		var a domain.DailyActivity
		if err := rows.Scan(&a.Day, &a.CardsReviewed); err != nil {
			return nil, MapError(err)
		}
		a.Day = a.Day.UTC()
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return activity, nil
}

// WithTx implements store.StreakStore.WithTx.
func (s *PostgresStreakStore) WithTx(tx *sql.Tx) store.StreakStore {
	return &PostgresStreakStore{
		db:     tx,
		logger: s.logger,
	}
}
