package api

import (
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/service/practice"
)

// StartSessionRequest optionally narrows the exercise preferences for the
// session being started. Omitted fields fall back to the server defaults.
type StartSessionRequest struct {
	EnabledExerciseTypes []string `json:"enabled_exercise_types,omitempty" validate:"omitempty,min=1,dive,oneof=reading_recognition writing_translation reverse_translation conjugation_drill multiple_choice article_drill icon_match sentence_building"`
	PrioritizeWeaknesses *bool    `json:"prioritize_weaknesses,omitempty"`
	WeaknessThreshold    *float64 `json:"weakness_threshold,omitempty"  validate:"omitempty,gte=0,lte=100"`
}

// CheckAnswerRequest carries the user's proposed answer for the current item.
// Exactly one of Answer or IsCorrect must be set: Answer for types the server
// can validate, IsCorrect for self-graded types where the user reports their
// own result.
type CheckAnswerRequest struct {
	Answer    *string `json:"answer,omitempty"`
	IsCorrect *bool   `json:"is_correct,omitempty"`
}

// OverrideAnswerRequest flips the recorded correctness before confirming.
type OverrideAnswerRequest struct {
	IsCorrect bool `json:"is_correct"`
}

// PracticeItemResponse is the rendered current queue entry.
type PracticeItemResponse struct {
	CardID       string   `json:"card_id"`
	ExerciseType string   `json:"exercise_type"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options,omitempty"`
	SelfGraded   bool     `json:"self_graded"`
}

// SessionStateResponse is the full observable scheduler state, returned after
// every session mutation so clients never need a follow-up read.
type SessionStateResponse struct {
	Active       bool                  `json:"active"`
	NoDueItems   bool                  `json:"no_due_items"`
	Current      int                   `json:"current"`
	Total        int                   `json:"total"`
	AnswerState  string                `json:"answer_state"`
	IsCorrect    *bool                 `json:"is_correct,omitempty"`
	CurrentItem  *PracticeItemResponse `json:"current_item,omitempty"`
	SessionStats SessionStatsResponse  `json:"stats"`
}

// CheckAnswerResponse reports the outcome of an answer check along with the
// refreshed session state.
type CheckAnswerResponse struct {
	Correct       bool                 `json:"correct"`
	AutoChecked   bool                 `json:"auto_checked"`
	CorrectAnswer string               `json:"correct_answer,omitempty"`
	State         SessionStateResponse `json:"state"`
}

// SessionStatsResponse summarizes a practice run.
type SessionStatsResponse struct {
	CorrectCount   int     `json:"correct_count"`
	IncorrectCount int     `json:"incorrect_count"`
	CardsReviewed  int     `json:"cards_reviewed"`
	Accuracy       float64 `json:"accuracy"`
	DurationMillis int64   `json:"duration_ms"`
}

// ExerciseScoreResponse is the per-exercise scoring state of a card.
type ExerciseScoreResponse struct {
	ExerciseType    string     `json:"exercise_type"`
	CorrectCount    int        `json:"correct_count"`
	IncorrectCount  int        `json:"incorrect_count"`
	CurrentChain    int        `json:"current_chain"`
	SuccessRate     float64    `json:"success_rate"`
	MasteryLevel    string     `json:"mastery_level"`
	LastPracticedAt *time.Time `json:"last_practiced_at,omitempty"`
	NextReviewAt    *time.Time `json:"next_review_at,omitempty"`
}

// CardResponse represents the response data for a card.
type CardResponse struct {
	ID               string                  `json:"id"`
	Term             string                  `json:"term"`
	Translation      string                  `json:"translation"`
	Gender           string                  `json:"gender,omitempty"`
	VerbForms        map[string]string       `json:"verb_forms,omitempty"`
	ExampleSentences []string                `json:"example_sentences,omitempty"`
	Icon             string                  `json:"icon,omitempty"`
	Scores           []ExerciseScoreResponse `json:"scores"`
	OverallMastery   string                  `json:"overall_mastery"`
	Favorite         bool                    `json:"favorite"`
	Archived         bool                    `json:"archived"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// StreakResponse represents the response data for the activity streak summary.
type StreakResponse struct {
	CurrentStreakDays  int    `json:"current_streak_days"`
	LongestStreakDays  int    `json:"longest_streak_days"`
	TotalCardsReviewed int    `json:"total_cards_reviewed"`
	LastActiveDay      string `json:"last_active_day,omitempty"`
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card) CardResponse {
	scores := make([]ExerciseScoreResponse, 0, len(card.Scores))
	for _, t := range domain.AllExerciseTypes() {
		score, ok := card.Scores[t]
		if !ok {
			continue
		}
		scores = append(scores, ExerciseScoreResponse{
			ExerciseType:    string(t),
			CorrectCount:    score.CorrectCount,
			IncorrectCount:  score.IncorrectCount,
			CurrentChain:    score.CurrentChain,
			SuccessRate:     score.SuccessRate(),
			MasteryLevel:    string(score.MasteryLevel()),
			LastPracticedAt: score.LastPracticedAt,
			NextReviewAt:    score.NextReviewAt,
		})
	}

	return CardResponse{
		ID:               card.ID.String(),
		Term:             card.Term,
		Translation:      card.Translation,
		Gender:           card.Gender,
		VerbForms:        card.VerbForms,
		ExampleSentences: card.ExampleSentences,
		Icon:             card.Icon,
		Scores:           scores,
		OverallMastery:   string(card.OverallMasteryLevel()),
		Favorite:         card.Favorite,
		Archived:         card.Archived,
		CreatedAt:        card.CreatedAt,
		UpdatedAt:        card.UpdatedAt,
	}
}

// itemToResponse converts a practice.PracticeItem to its response shape.
func itemToResponse(item *practice.PracticeItem) *PracticeItemResponse {
	if item == nil {
		return nil
	}
	return &PracticeItemResponse{
		CardID:       item.Card.ID.String(),
		ExerciseType: string(item.ExerciseType),
		Prompt:       item.Prompt,
		Options:      item.Options,
		SelfGraded:   item.ExerciseType.IsSelfGraded(),
	}
}

// statsToResponse converts practice.SessionStats to its response shape.
func statsToResponse(stats practice.SessionStats) SessionStatsResponse {
	return SessionStatsResponse{
		CorrectCount:   stats.CorrectCount,
		IncorrectCount: stats.IncorrectCount,
		CardsReviewed:  stats.CardsReviewed(),
		Accuracy:       stats.Accuracy,
		DurationMillis: stats.Duration.Milliseconds(),
	}
}

// streakToResponse converts a domain.StreakSummary to its response shape.
func streakToResponse(summary *domain.StreakSummary) StreakResponse {
	resp := StreakResponse{
		CurrentStreakDays:  summary.CurrentStreakDays,
		LongestStreakDays:  summary.LongestStreakDays,
		TotalCardsReviewed: summary.TotalCardsReviewed,
	}
	if summary.LastActiveDay != nil {
		resp.LastActiveDay = summary.LastActiveDay.Format("2006-01-02")
	}
	return resp
}
