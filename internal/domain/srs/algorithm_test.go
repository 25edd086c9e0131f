package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

func TestCalculateNextScore(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name             string
		initial          domain.ExerciseScore
		wasCorrect       bool
		expectedCorrect  int
		expectedWrong    int
		expectedChain    int
		expectedInterval int // days until next review
	}{
		{
			// First rung (1 day), 100% rate after the answer: 1 * (1 + 1*2) = 3.
			name:             "first correct answer",
			initial:          domain.NewExerciseScore(domain.ExerciseWritingTranslation),
			wasCorrect:       true,
			expectedCorrect:  1,
			expectedChain:    1,
			expectedInterval: 3,
		},
		{
			// A miss always lands on the first rung, unscaled.
			name:             "first incorrect answer",
			initial:          domain.NewExerciseScore(domain.ExerciseWritingTranslation),
			wasCorrect:       false,
			expectedWrong:    1,
			expectedChain:    0,
			expectedInterval: 1,
		},
		{
			// Chain 3 selects the third rung (4 days), perfect rate triples it.
			name: "chain advances the ladder",
			initial: domain.ExerciseScore{
				Type:         domain.ExerciseWritingTranslation,
				CorrectCount: 2,
				CurrentChain: 2,
			},
			wasCorrect:       true,
			expectedCorrect:  3,
			expectedChain:    3,
			expectedInterval: 12,
		},
		{
			// A long chain collapses to chain 0 and the first rung on a miss.
			name: "incorrect answer resets the chain",
			initial: domain.ExerciseScore{
				Type:         domain.ExerciseWritingTranslation,
				CorrectCount: 5,
				CurrentChain: 5,
			},
			wasCorrect:       false,
			expectedCorrect:  5,
			expectedWrong:    1,
			expectedChain:    0,
			expectedInterval: 1,
		},
		{
			// Even with a poor track record a correct answer rounds up past the
			// flat 1-day miss interval: ceil(1 * (1 + 0.1818*2)) = 2.
			name: "low success rate still beats a miss",
			initial: domain.ExerciseScore{
				Type:           domain.ExerciseWritingTranslation,
				CorrectCount:   1,
				IncorrectCount: 9,
			},
			wasCorrect:       true,
			expectedCorrect:  2,
			expectedWrong:    9,
			expectedChain:    1,
			expectedInterval: 2,
		},
		{
			// Chains past the ladder clamp to the last rung (32 days).
			name: "chain clamps at the last rung",
			initial: domain.ExerciseScore{
				Type:         domain.ExerciseWritingTranslation,
				CorrectCount: 10,
				CurrentChain: 10,
			},
			wasCorrect:       true,
			expectedCorrect:  11,
			expectedChain:    11,
			expectedInterval: 96,
		},
		{
			// Imperfect history shrinks the bonus: rate 2/3 after the answer,
			// rung 2 days, 2 * (1 + 0.6667*2) = 4.67 rounds up to 5.
			name: "success rate scales the interval",
			initial: domain.ExerciseScore{
				Type:           domain.ExerciseWritingTranslation,
				CorrectCount:   1,
				IncorrectCount: 1,
				CurrentChain:   1,
			},
			wasCorrect:       true,
			expectedCorrect:  2,
			expectedWrong:    1,
			expectedChain:    2,
			expectedInterval: 5,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			result := calculateNextScore(tc.initial, tc.wasCorrect, now, params)

			assert.Equal(t, tc.expectedCorrect, result.CorrectCount)
			assert.Equal(t, tc.expectedWrong, result.IncorrectCount)
			assert.Equal(t, tc.expectedChain, result.CurrentChain)

			require.NotNil(t, result.LastPracticedAt)
			assert.Equal(t, now, *result.LastPracticedAt)

			require.NotNil(t, result.NextReviewAt)
			expectedNext := now.AddDate(0, 0, tc.expectedInterval)
			assert.Equal(t, expectedNext, *result.NextReviewAt,
				"expected an interval of %d days", tc.expectedInterval)
		})
	}
}

func TestCalculateNextScoreDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Now().UTC()
	initial := domain.ExerciseScore{
		Type:         domain.ExerciseWritingTranslation,
		CorrectCount: 2,
		CurrentChain: 2,
	}
	snapshot := initial

	_ = calculateNextScore(initial, true, now, params)
	_ = calculateNextScore(initial, false, now, params)

	assert.Equal(t, snapshot, initial)
}

func TestCalculateNextScoreCorrectOutlastsIncorrect(t *testing.T) {
	t.Parallel()

	params := NewDefaultParams()
	now := time.Now().UTC()

	priors := []domain.ExerciseScore{
		domain.NewExerciseScore(domain.ExerciseWritingTranslation),
		{Type: domain.ExerciseWritingTranslation, CorrectCount: 1, CurrentChain: 1},
		{Type: domain.ExerciseWritingTranslation, CorrectCount: 3, IncorrectCount: 2, CurrentChain: 1},
		{Type: domain.ExerciseWritingTranslation, CorrectCount: 8, IncorrectCount: 1, CurrentChain: 4},
		{Type: domain.ExerciseWritingTranslation, CorrectCount: 1, IncorrectCount: 9},
	}

	for _, prior := range priors {
		afterCorrect := calculateNextScore(prior, true, now, params)
		afterIncorrect := calculateNextScore(prior, false, now, params)
		assert.True(t, afterCorrect.NextReviewAt.After(*afterIncorrect.NextReviewAt),
			"correct answer not scheduled strictly later than incorrect for prior %+v", prior)
	}
}

func TestServiceRecordAnswer(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	now := time.Now().UTC()

	score := service.RecordAnswer(domain.NewExerciseScore(domain.ExerciseMultipleChoice), true, now)
	assert.Equal(t, 1, score.CorrectCount)
	assert.Equal(t, 1, score.CurrentChain)
	assert.False(t, service.IsDue(score, now))
	assert.True(t, service.IsDue(score, now.AddDate(0, 0, 4)))
}

func TestServiceDueExerciseTypes(t *testing.T) {
	t.Parallel()

	service := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil card", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, service.DueExerciseTypes(nil, now))
	})

	t.Run("archived card yields nothing", func(t *testing.T) {
		t.Parallel()
		card, err := domain.NewCard("der Hund", "the dog")
		require.NoError(t, err)
		card.Archived = true
		assert.Empty(t, service.DueExerciseTypes(card, now))
	})

	t.Run("fresh card is due for every applicable type", func(t *testing.T) {
		t.Parallel()
		card, err := domain.NewCard("der Hund", "the dog")
		require.NoError(t, err)
		card.Gender = "der"

		due := service.DueExerciseTypes(card, now)
		assert.ElementsMatch(t, card.ApplicableExerciseTypes(), due)
	})

	t.Run("recently practiced type drops out", func(t *testing.T) {
		t.Parallel()
		card, err := domain.NewCard("der Hund", "the dog")
		require.NoError(t, err)

		score := service.RecordAnswer(card.ScoreFor(domain.ExerciseWritingTranslation), true, now)
		card.SetScore(score, now)

		due := service.DueExerciseTypes(card, now)
		assert.NotContains(t, due, domain.ExerciseWritingTranslation)
		assert.Contains(t, due, domain.ExerciseReadingRecognition)
	})
}
