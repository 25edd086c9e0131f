package domain

// ExerciseType identifies a distinct practice modality for a card.
type ExerciseType string

// Possible exercise type values
const (
	// ExerciseReadingRecognition shows the term and asks the user to self-report
	// whether they recognized it. There is no automatic answer check.
	ExerciseReadingRecognition ExerciseType = "reading_recognition"

	// ExerciseWritingTranslation asks the user to type the translation of the term.
	ExerciseWritingTranslation ExerciseType = "writing_translation"

	// ExerciseReverseTranslation asks the user to type the term given its translation.
	ExerciseReverseTranslation ExerciseType = "reverse_translation"

	// ExerciseMultipleChoice asks the user to pick the translation from a set of options.
	ExerciseMultipleChoice ExerciseType = "multiple_choice"

	// ExerciseArticleDrill asks for the grammatical gender/article of the term.
	// Requires gender metadata on the card.
	ExerciseArticleDrill ExerciseType = "article_drill"

	// ExerciseConjugationDrill asks for a verb form of the term.
	// Requires verb form metadata on the card.
	ExerciseConjugationDrill ExerciseType = "conjugation_drill"

	// ExerciseSentenceBuilding asks the user to reassemble an example sentence.
	// Requires at least one example sentence on the card.
	ExerciseSentenceBuilding ExerciseType = "sentence_building"

	// ExerciseIconMatch asks the user to match the term to its icon.
	// Requires an icon on the card.
	ExerciseIconMatch ExerciseType = "icon_match"
)

// AllExerciseTypes lists every known exercise type in a stable order.
func AllExerciseTypes() []ExerciseType {
	return []ExerciseType{
		ExerciseReadingRecognition,
		ExerciseWritingTranslation,
		ExerciseReverseTranslation,
		ExerciseMultipleChoice,
		ExerciseArticleDrill,
		ExerciseConjugationDrill,
		ExerciseSentenceBuilding,
		ExerciseIconMatch,
	}
}

// IsValidExerciseType checks if the given exercise type is a known value.
func IsValidExerciseType(t ExerciseType) bool {
	switch t {
	case ExerciseReadingRecognition,
		ExerciseWritingTranslation,
		ExerciseReverseTranslation,
		ExerciseMultipleChoice,
		ExerciseArticleDrill,
		ExerciseConjugationDrill,
		ExerciseSentenceBuilding,
		ExerciseIconMatch:
		return true
	default:
		return false
	}
}

// IsTextEntry reports whether answers for this exercise type are typed free text.
// Text-entry answers are compared case-insensitively after whitespace trimming.
func (t ExerciseType) IsTextEntry() bool {
	return t == ExerciseWritingTranslation ||
		t == ExerciseReverseTranslation ||
		t == ExerciseConjugationDrill
}

// IsSelfGraded reports whether this exercise type has no automatic answer check
// and relies entirely on the user's self-report.
func (t ExerciseType) IsSelfGraded() bool {
	return t == ExerciseReadingRecognition
}

// IsChoiceBased reports whether this exercise type presents a fixed set of
// options and auto-submits on selection.
func (t ExerciseType) IsChoiceBased() bool {
	return t == ExerciseMultipleChoice ||
		t == ExerciseArticleDrill ||
		t == ExerciseIconMatch
}
