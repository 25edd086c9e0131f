package domain

import "time"

// DailyActivity records how many cards were reviewed on one calendar day.
// Days are stored at UTC midnight so a day has exactly one row.
type DailyActivity struct {
	Day           time.Time `json:"day"`
	CardsReviewed int       `json:"cards_reviewed"`
}

// StreakSummary aggregates a user's practice consistency.
type StreakSummary struct {
	CurrentStreakDays  int        `json:"current_streak_days"`
	LongestStreakDays  int        `json:"longest_streak_days"`
	TotalCardsReviewed int        `json:"total_cards_reviewed"`
	LastActiveDay      *time.Time `json:"last_active_day,omitempty"`
}

// ActivityDay truncates a timestamp to its UTC calendar day.
func ActivityDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
