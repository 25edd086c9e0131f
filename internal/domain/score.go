package domain

import (
	"time"
)

// MasteryLevel is a discrete classification of performance on a card or
// on a single exercise type of a card.
type MasteryLevel string

// Possible mastery level values
const (
	MasteryNew       MasteryLevel = "new"
	MasteryDifficult MasteryLevel = "difficult"
	MasteryLearning  MasteryLevel = "learning"
	MasteryGood      MasteryLevel = "good"
	MasteryMastered  MasteryLevel = "mastered"
)

// Success rate thresholds (percent) for the mastery bands.
const (
	masteryLearningThreshold = 50.0
	masteryGoodThreshold     = 70.0
	masteryMasteredThreshold = 90.0
)

// newMasteryAttemptFloor is the minimum number of aggregate attempts a card
// needs before its overall mastery is classified by success rate. Below the
// floor the card is considered MasteryNew. The floor applies only at the card
// level; per-exercise mastery uses the success rate bands directly.
const newMasteryAttemptFloor = 5

// masteryForRate maps a success rate percentage to its mastery band.
func masteryForRate(successRate float64) MasteryLevel {
	switch {
	case successRate < masteryLearningThreshold:
		return MasteryDifficult
	case successRate < masteryGoodThreshold:
		return MasteryLearning
	case successRate < masteryMasteredThreshold:
		return MasteryGood
	default:
		return MasteryMastered
	}
}

// ExerciseScore is the performance record for one (card, exercise type) pair.
// A zero-value score (no attempts, nil NextReviewAt) represents an exercise
// that has never been practiced and is always due.
type ExerciseScore struct {
	Type            ExerciseType `json:"type"`
	CorrectCount    int          `json:"correct_count"`
	IncorrectCount  int          `json:"incorrect_count"`
	CurrentChain    int          `json:"current_chain"`     // Consecutive correct streak, reset on any miss
	LastPracticedAt *time.Time   `json:"last_practiced_at"` // Nil until the first answer
	NextReviewAt    *time.Time   `json:"next_review_at"`    // Nil means due immediately
}

// NewExerciseScore creates a fresh score for the given exercise type.
// Fresh scores have no attempts and are due immediately.
func NewExerciseScore(exerciseType ExerciseType) ExerciseScore {
	return ExerciseScore{Type: exerciseType}
}

// TotalAttempts returns the total number of recorded answers.
func (s ExerciseScore) TotalAttempts() int {
	return s.CorrectCount + s.IncorrectCount
}

// SuccessRate returns the percentage of correct answers, or 0 when there
// are no attempts.
func (s ExerciseScore) SuccessRate() float64 {
	total := s.TotalAttempts()
	if total == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(total) * 100
}

// NetScore returns correct minus incorrect answers.
func (s ExerciseScore) NetScore() int {
	return s.CorrectCount - s.IncorrectCount
}

// MasteryLevel classifies this score by its success rate. Per-exercise
// mastery applies the rate bands directly; the attempt floor for MasteryNew
// exists only at the card level (see Card.OverallMasteryLevel).
func (s ExerciseScore) MasteryLevel() MasteryLevel {
	return masteryForRate(s.SuccessRate())
}

// IsDue reports whether this score is due for review at the given time.
// A nil NextReviewAt means due immediately.
func (s ExerciseScore) IsDue(now time.Time) bool {
	if s.NextReviewAt == nil {
		return true
	}
	return !s.NextReviewAt.After(now)
}

// Validate checks if the ExerciseScore has valid data.
func (s ExerciseScore) Validate() error {
	if !IsValidExerciseType(s.Type) {
		return ErrInvalidExerciseType
	}
	if s.CorrectCount < 0 || s.IncorrectCount < 0 {
		return ErrNegativeCount
	}
	if s.CurrentChain < 0 || s.CurrentChain > s.TotalAttempts() {
		return ErrInvalidChain
	}
	return nil
}
