package srs

import (
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// Service defines the interface for the scoring model operations.
// All methods are pure: they operate on value snapshots and never perform I/O,
// so a single Service is safe to share across goroutines.
type Service interface {
	// RecordAnswer computes a new score from one answer. The input score is
	// returned updated as a new value; the original is unmodified.
	RecordAnswer(
		score domain.ExerciseScore,
		wasCorrect bool,
		now time.Time,
	) domain.ExerciseScore

	// IsDue reports whether the score is due for review at the given time.
	// Scores that were never practiced (nil NextReviewAt) are always due.
	IsDue(score domain.ExerciseScore, now time.Time) bool

	// DueExerciseTypes returns the exercise types that are both structurally
	// applicable to the card and due per IsDue. Archived cards yield nothing.
	DueExerciseTypes(card *domain.Card, now time.Time) []domain.ExerciseType
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scoring service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scoring service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// RecordAnswer implements the Service interface.
func (s *defaultService) RecordAnswer(
	score domain.ExerciseScore,
	wasCorrect bool,
	now time.Time,
) domain.ExerciseScore {
	return calculateNextScore(score, wasCorrect, now, s.params)
}

// IsDue implements the Service interface.
func (s *defaultService) IsDue(score domain.ExerciseScore, now time.Time) bool {
	return score.IsDue(now)
}

// DueExerciseTypes implements the Service interface.
func (s *defaultService) DueExerciseTypes(
	card *domain.Card,
	now time.Time,
) []domain.ExerciseType {
	if card == nil || card.Archived {
		return nil
	}

	applicable := card.ApplicableExerciseTypes()
	due := make([]domain.ExerciseType, 0, len(applicable))
	for _, t := range applicable {
		if s.IsDue(card.ScoreFor(t), now) {
			due = append(due, t)
		}
	}
	return due
}
