package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExerciseScoreSuccessRate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		correct   int
		incorrect int
		expected  float64
	}{
		{name: "no attempts", correct: 0, incorrect: 0, expected: 0},
		{name: "all correct", correct: 4, incorrect: 0, expected: 100},
		{name: "all incorrect", correct: 0, incorrect: 3, expected: 0},
		{name: "mixed", correct: 3, incorrect: 1, expected: 75},
		{name: "single correct", correct: 1, incorrect: 0, expected: 100},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			score := ExerciseScore{
				Type:           ExerciseWritingTranslation,
				CorrectCount:   tc.correct,
				IncorrectCount: tc.incorrect,
			}
			assert.InDelta(t, tc.expected, score.SuccessRate(), 0.001)
		})
	}
}

func TestExerciseScoreMasteryLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		correct   int
		incorrect int
		expected  MasteryLevel
	}{
		// Per-exercise mastery classifies by rate alone, even with one attempt.
		{name: "single correct answer is mastered", correct: 1, incorrect: 0, expected: MasteryMastered},
		{name: "single incorrect answer is difficult", correct: 0, incorrect: 1, expected: MasteryDifficult},
		{name: "40 percent is difficult", correct: 2, incorrect: 3, expected: MasteryDifficult},
		{name: "50 percent is learning", correct: 1, incorrect: 1, expected: MasteryLearning},
		{name: "60 percent is learning", correct: 3, incorrect: 2, expected: MasteryLearning},
		{name: "70 percent is good", correct: 7, incorrect: 3, expected: MasteryGood},
		{name: "89 percent is good", correct: 89, incorrect: 11, expected: MasteryGood},
		{name: "90 percent is mastered", correct: 9, incorrect: 1, expected: MasteryMastered},
		// No attempts defaults to a 0 rate; the new-card floor lives at the
		// card level, not here.
		{name: "no attempts is difficult by rate", correct: 0, incorrect: 0, expected: MasteryDifficult},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			score := ExerciseScore{
				Type:           ExerciseMultipleChoice,
				CorrectCount:   tc.correct,
				IncorrectCount: tc.incorrect,
			}
			assert.Equal(t, tc.expected, score.MasteryLevel())
		})
	}
}

func TestExerciseScoreIsDue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	testCases := []struct {
		name         string
		nextReviewAt *time.Time
		expected     bool
	}{
		{name: "never practiced is due", nextReviewAt: nil, expected: true},
		{name: "past review time is due", nextReviewAt: &past, expected: true},
		{name: "exact review time is due", nextReviewAt: &now, expected: true},
		{name: "future review time is not due", nextReviewAt: &future, expected: false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			score := ExerciseScore{
				Type:         ExerciseReadingRecognition,
				NextReviewAt: tc.nextReviewAt,
			}
			assert.Equal(t, tc.expected, score.IsDue(now))
		})
	}
}

func TestExerciseScoreValidate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		score       ExerciseScore
		expectedErr error
	}{
		{
			name:  "valid fresh score",
			score: NewExerciseScore(ExerciseWritingTranslation),
		},
		{
			name: "valid score with attempts",
			score: ExerciseScore{
				Type:           ExerciseMultipleChoice,
				CorrectCount:   3,
				IncorrectCount: 1,
				CurrentChain:   2,
			},
		},
		{
			name:        "unknown exercise type",
			score:       ExerciseScore{Type: "telepathy_drill"},
			expectedErr: ErrInvalidExerciseType,
		},
		{
			name: "negative correct count",
			score: ExerciseScore{
				Type:         ExerciseWritingTranslation,
				CorrectCount: -1,
			},
			expectedErr: ErrNegativeCount,
		},
		{
			name: "chain longer than attempts",
			score: ExerciseScore{
				Type:         ExerciseWritingTranslation,
				CorrectCount: 1,
				CurrentChain: 2,
			},
			expectedErr: ErrInvalidChain,
		},
		{
			name: "negative chain",
			score: ExerciseScore{
				Type:         ExerciseWritingTranslation,
				CurrentChain: -1,
			},
			expectedErr: ErrInvalidChain,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.score.Validate()
			if tc.expectedErr == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func TestExerciseScoreNetScore(t *testing.T) {
	t.Parallel()

	score := ExerciseScore{Type: ExerciseIconMatch, CorrectCount: 5, IncorrectCount: 2}
	assert.Equal(t, 3, score.NetScore())
	assert.Equal(t, 7, score.TotalAttempts())
}
