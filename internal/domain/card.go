package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardTermEmpty is returned when a card's term is empty.
	ErrCardTermEmpty = errors.New("card term cannot be empty")

	// ErrCardTranslationEmpty is returned when a card's translation is empty.
	ErrCardTranslationEmpty = errors.New("card translation cannot be empty")
)

// Card represents one learnable unit: a vocabulary flashcard with optional
// linguistic metadata that determines which exercise types apply to it.
//
// Per-exercise performance lives in the Scores map. The aggregate counters
// (ReviewCount, CorrectCount, LastReviewedAt, NextReviewAt) predate the
// per-exercise scores and are kept for backward compatibility with data
// written before the split; scheduling reads only the per-exercise scores.
type Card struct {
	ID          uuid.UUID `json:"id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`

	// Linguistic metadata. Empty values simply make the related exercise
	// types inapplicable; they are never validation errors.
	Gender           string            `json:"gender,omitempty"`
	VerbForms        map[string]string `json:"verb_forms,omitempty"`
	ExampleSentences []string          `json:"example_sentences,omitempty"`
	Icon             string            `json:"icon,omitempty"`

	Scores map[ExerciseType]ExerciseScore `json:"scores,omitempty"`

	// Legacy aggregate counters, superseded by Scores.
	ReviewCount    int        `json:"review_count"`
	CorrectCount   int        `json:"correct_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   *time.Time `json:"next_review_at,omitempty"`

	Favorite bool `json:"favorite"`
	Archived bool `json:"archived"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card with the given term and translation.
// It generates a new UUID for the card ID and sets the creation/update
// timestamps. Returns an error if validation fails.
func NewCard(term, translation string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:          uuid.New(),
		Term:        term,
		Translation: translation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.Term == "" {
		return ErrCardTermEmpty
	}

	if c.Translation == "" {
		return ErrCardTranslationEmpty
	}

	for _, score := range c.Scores {
		if err := score.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ApplicableExerciseTypes returns the exercise types this card can structurally
// support, derived purely from its content and metadata. Types backed by
// missing metadata (e.g. a conjugation drill on a card without verb forms)
// are excluded.
func (c *Card) ApplicableExerciseTypes() []ExerciseType {
	types := make([]ExerciseType, 0, len(AllExerciseTypes()))
	for _, t := range AllExerciseTypes() {
		if c.supportsExerciseType(t) {
			types = append(types, t)
		}
	}
	return types
}

// supportsExerciseType checks the structural eligibility of one exercise type.
func (c *Card) supportsExerciseType(t ExerciseType) bool {
	switch t {
	case ExerciseArticleDrill:
		return c.Gender != ""
	case ExerciseConjugationDrill:
		return len(c.VerbForms) > 0
	case ExerciseSentenceBuilding:
		return len(c.ExampleSentences) > 0
	case ExerciseIconMatch:
		return c.Icon != ""
	case ExerciseReadingRecognition,
		ExerciseWritingTranslation,
		ExerciseReverseTranslation,
		ExerciseMultipleChoice:
		// The base types only need term and translation, which Validate
		// already guarantees.
		return true
	default:
		return false
	}
}

// ScoreFor returns the score for the given exercise type. An absent entry is
// returned as a fresh score with zero attempts, which is always due.
func (c *Card) ScoreFor(t ExerciseType) ExerciseScore {
	if score, ok := c.Scores[t]; ok {
		return score
	}
	return NewExerciseScore(t)
}

// SetScore stores an updated score for one exercise type and refreshes the
// legacy aggregate counters and the UpdatedAt timestamp. This is the only
// mutation answer-processing performs on a card.
func (c *Card) SetScore(score ExerciseScore, now time.Time) {
	if c.Scores == nil {
		c.Scores = make(map[ExerciseType]ExerciseScore)
	}
	c.Scores[score.Type] = score

	// Keep the legacy aggregates in sync for old readers.
	c.ReviewCount++
	c.CorrectCount = 0
	for _, s := range c.Scores {
		c.CorrectCount += s.CorrectCount
	}
	c.LastReviewedAt = &now
	c.UpdatedAt = now
}

// TotalAttempts sums the attempts across all of the card's exercise scores.
func (c *Card) TotalAttempts() int {
	total := 0
	for _, s := range c.Scores {
		total += s.TotalAttempts()
	}
	return total
}

// OverallMasteryLevel aggregates attempts and attempt-weighted success rate
// across all of the card's exercise scores. Cards with fewer than five
// aggregate attempts are classified as MasteryNew regardless of rate.
func (c *Card) OverallMasteryLevel() MasteryLevel {
	totalAttempts := 0
	totalCorrect := 0
	for _, s := range c.Scores {
		totalAttempts += s.TotalAttempts()
		totalCorrect += s.CorrectCount
	}

	if totalAttempts < newMasteryAttemptFloor {
		return MasteryNew
	}

	rate := float64(totalCorrect) / float64(totalAttempts) * 100
	return masteryForRate(rate)
}

// Clone returns a deep copy of the card. The scheduler hands clones to the
// persistence collaborator so in-flight saves never observe later mutations.
func (c *Card) Clone() *Card {
	clone := *c

	if c.VerbForms != nil {
		clone.VerbForms = make(map[string]string, len(c.VerbForms))
		for k, v := range c.VerbForms {
			clone.VerbForms[k] = v
		}
	}
	if c.ExampleSentences != nil {
		clone.ExampleSentences = append([]string(nil), c.ExampleSentences...)
	}
	if c.Scores != nil {
		clone.Scores = make(map[ExerciseType]ExerciseScore, len(c.Scores))
		for k, v := range c.Scores {
			clone.Scores[k] = v
		}
	}
	if c.LastReviewedAt != nil {
		t := *c.LastReviewedAt
		clone.LastReviewedAt = &t
	}
	if c.NextReviewAt != nil {
		t := *c.NextReviewAt
		clone.NextReviewAt = &t
	}

	return &clone
}
