package postgres_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/platform/postgres"
)

func TestPostgresStreakStoreAccumulatesPerDay(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	activities := postgres.NewPostgresStreakStore(testDB, slog.Default())

	// Two sessions on the same day land in a single row; the timestamps
	// differ but truncate to the same UTC date.
	morning := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 15, 21, 30, 0, 0, time.UTC)
	require.NoError(t, activities.RecordActivity(ctx, morning, 5))
	require.NoError(t, activities.RecordActivity(ctx, evening, 3))

	recent, err := activities.ListRecentActivity(ctx, 10)
	require.NoError(t, err)

	require.Len(t, recent, 1)
	assert.True(t, recent[0].Day.Equal(domain.ActivityDay(morning)))
	assert.Equal(t, 8, recent[0].CardsReviewed)
}

func TestPostgresStreakStoreListOrderAndLimit(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	activities := postgres.NewPostgresStreakStore(testDB, slog.Default())

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, activities.RecordActivity(ctx, base.AddDate(0, 0, i), i+1))
	}

	recent, err := activities.ListRecentActivity(ctx, 2)
	require.NoError(t, err)

	require.Len(t, recent, 2)
	assert.True(t, recent[0].Day.After(recent[1].Day), "most recent day must come first")
	assert.Equal(t, 4, recent[0].CardsReviewed)
}

func TestPostgresStreakStoreEmpty(t *testing.T) {
	resetTables(t)
	ctx := context.Background()
	activities := postgres.NewPostgresStreakStore(testDB, slog.Default())

	recent, err := activities.ListRecentActivity(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
