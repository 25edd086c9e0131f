package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidExerciseType is returned when an exercise type is not a known value.
	ErrInvalidExerciseType = errors.New("invalid exercise type")

	// ErrNegativeCount is returned when an answer counter is negative.
	ErrNegativeCount = errors.New("answer counts cannot be negative")

	// ErrInvalidChain is returned when a correct-answer chain is negative or
	// exceeds the total number of attempts.
	ErrInvalidChain = errors.New("chain must be between 0 and total attempts")
)
