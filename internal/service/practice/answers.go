package practice

import (
	"strings"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// NormalizeTextAnswer prepares a typed answer for comparison: surrounding
// whitespace is trimmed, inner runs of whitespace collapse to single spaces,
// and the result is lowercased.
func NormalizeTextAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CheckProposedAnswer validates what the user did against the item's answer.
//
// The second return value reports whether the item can be auto-validated at
// all: self-graded types (reading recognition) return false and the caller
// must rely on the user's self-report via CheckAnswer/OverrideAnswer.
// Text-entry types compare case-insensitively after whitespace normalization;
// choice-based types compare the selected option verbatim.
func CheckProposedAnswer(item *PracticeItem, given string) (correct bool, autoChecked bool) {
	if item == nil || item.ExerciseType.IsSelfGraded() {
		return false, false
	}

	// Sentence building answers are reassembled from word tiles, so they get
	// the same whitespace-insensitive comparison as typed text.
	if item.ExerciseType.IsTextEntry() || item.ExerciseType == domain.ExerciseSentenceBuilding {
		return NormalizeTextAnswer(given) == NormalizeTextAnswer(item.Answer), true
	}

	// Choice-based types: the UI submits the selected option exactly as offered.
	return given == item.Answer, true
}
