package srs

import (
	"math"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// calculateIntervalDays determines how many days until the next review of a
// score that has just been updated.
//
// An incorrect answer always schedules at the first rung of the ladder,
// regardless of how long the prior chain was. A correct answer advances one
// rung per consecutive correct chain step (clamped to the last rung) and is
// then scaled by the success-rate bonus, so a score answered accurately over
// many attempts grows its interval faster than the raw ladder alone.
func calculateIntervalDays(score domain.ExerciseScore, wasCorrect bool, params *Params) int {
	ladder := params.IntervalLadderDays

	if !wasCorrect {
		return ladder[0]
	}

	// CurrentChain has already been incremented for this answer, so chain 1
	// is the first rung.
	rung := score.CurrentChain - 1
	if rung < 0 {
		rung = 0
	}
	if rung >= len(ladder) {
		rung = len(ladder) - 1
	}

	// After a correct answer the success rate is above zero, so the
	// multiplier exceeds 1 and rounding up keeps a correct answer scheduled
	// strictly further out than the flat first-rung reset of a miss.
	multiplier := 1 + score.SuccessRate()/100*params.SuccessRateBonus
	days := float64(ladder[rung]) * multiplier

	return int(math.Ceil(days))
}

// calculateNextScore creates a new ExerciseScore with updated values for one
// answer. The input score is never modified; callers that need the old state
// keep their copy.
//
// Behavior:
//   - Correct answers increment CorrectCount and extend CurrentChain.
//   - Incorrect answers increment IncorrectCount and reset CurrentChain to 0.
//   - LastPracticedAt is set to now.
//   - NextReviewAt is now plus the interval from calculateIntervalDays,
//     computed against the updated counts so the bonus reflects this answer.
func calculateNextScore(
	score domain.ExerciseScore,
	wasCorrect bool,
	now time.Time,
	params *Params,
) domain.ExerciseScore {
	newScore := score

	if wasCorrect {
		newScore.CorrectCount++
		newScore.CurrentChain++
	} else {
		newScore.IncorrectCount++
		newScore.CurrentChain = 0
	}

	practiced := now
	newScore.LastPracticedAt = &practiced

	next := now.AddDate(0, 0, calculateIntervalDays(newScore, wasCorrect, params))
	newScore.NextReviewAt = &next

	return newScore
}
