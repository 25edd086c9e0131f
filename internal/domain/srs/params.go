// Package srs implements the spaced-repetition scoring model: pure functions
// that update a card's per-exercise scores after an answer and derive the
// next review time from an interval ladder.
package srs

// Params defines all configurable parameters for the scheduling policy.
type Params struct {
	// IntervalLadderDays is the base interval ladder. A score's consecutive
	// correct chain indexes into it: chain 1 sits on the first rung, each
	// further chain step advances one rung, clamped to the last entry.
	// An incorrect answer drops back to the first rung.
	IntervalLadderDays []int

	// SuccessRateBonus scales base intervals for accurate scores:
	// days = base * (1 + successRate/100 * SuccessRateBonus). Consistently
	// accurate scores drift to longer intervals faster than the raw ladder.
	SuccessRateBonus float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance.
type ParamsConfig struct {
	IntervalLadderDays []int
	SuccessRateBonus   float64
}

// NewDefaultParams creates a new Params instance with default values.
func NewDefaultParams() *Params {
	return &Params{
		IntervalLadderDays: []int{1, 2, 4, 8, 16, 32},
		SuccessRateBonus:   2.0,
	}
}

// NewParams creates a new Params instance with custom configuration.
// Zero-valued fields keep their defaults.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if len(config.IntervalLadderDays) > 0 {
		params.IntervalLadderDays = config.IntervalLadderDays
	}
	if config.SuccessRateBonus > 0 {
		params.SuccessRateBonus = config.SuccessRateBonus
	}

	return params
}
