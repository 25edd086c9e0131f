package practice

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
)

// distractorCount is how many wrong options a multiple-choice item carries
// in addition to the correct one.
const distractorCount = 3

// weaknessBias scales the shuffle keys of weak items. Keys below 1 sort
// earlier, so a smaller factor pushes weak exercise types toward the front
// of the queue without changing how often they appear.
const weaknessBias = 0.5

// buildQueue constructs the session queue from the candidate pool.
//
// For every non-archived candidate, the due exercise types are intersected
// with the enabled preferences; one item is built per surviving (card, type)
// pair. Cards that yield no eligible pair are silently excluded. The result
// is shuffled, with weak types biased toward the front when the preferences
// ask for it.
func buildQueue(
	candidates []*domain.Card,
	prefs ExercisePreferences,
	dueTypes func(*domain.Card, time.Time) []domain.ExerciseType,
	now time.Time,
	rng *rand.Rand,
) []*PracticeItem {
	var items []*PracticeItem
	for _, card := range candidates {
		if card == nil || card.Archived {
			continue
		}
		for _, t := range dueTypes(card, now) {
			if !prefs.Enabled(t) {
				continue
			}
			items = append(items, newPracticeItem(card, t, candidates, rng))
		}
	}

	shuffleItems(items, prefs, rng)
	return items
}

// shuffleItems randomizes queue order. Every item draws a uniform key; when
// weakness prioritization is on, items whose score sits below the threshold
// have their key scaled down so they tend to surface earlier.
func shuffleItems(items []*PracticeItem, prefs ExercisePreferences, rng *rand.Rand) {
	keys := make(map[*PracticeItem]float64, len(items))
	for _, item := range items {
		key := rng.Float64()
		if prefs.PrioritizeWeaknesses {
			score := item.Card.ScoreFor(item.ExerciseType)
			if score.SuccessRate() < prefs.WeaknessThreshold {
				key *= weaknessBias
			}
		}
		keys[item] = key
	}

	sort.SliceStable(items, func(i, j int) bool {
		return keys[items[i]] < keys[items[j]]
	})
}

// newPracticeItem renders the prompt, answer and option set for one
// (card, exercise type) pair. Options for choice-based types are drawn from
// the rest of the candidate pool.
func newPracticeItem(
	card *domain.Card,
	exerciseType domain.ExerciseType,
	pool []*domain.Card,
	rng *rand.Rand,
) *PracticeItem {
	item := &PracticeItem{
		Card:         card,
		ExerciseType: exerciseType,
	}

	switch exerciseType {
	case domain.ExerciseReadingRecognition:
		// Self-graded: the user reports whether they recognized the term.
		item.Prompt = card.Term

	case domain.ExerciseWritingTranslation:
		item.Prompt = card.Term
		item.Answer = card.Translation

	case domain.ExerciseReverseTranslation:
		item.Prompt = card.Translation
		item.Answer = card.Term

	case domain.ExerciseMultipleChoice:
		item.Prompt = card.Term
		item.Answer = card.Translation
		item.Options = choiceOptions(card.Translation, pool, rng, func(c *domain.Card) string {
			return c.Translation
		})

	case domain.ExerciseArticleDrill:
		item.Prompt = card.Term
		item.Answer = card.Gender
		item.Options = genderOptions(card.Gender, pool)

	case domain.ExerciseConjugationDrill:
		form, value := randomVerbForm(card.VerbForms, rng)
		item.Prompt = form
		item.Answer = value

	case domain.ExerciseSentenceBuilding:
		sentence := card.ExampleSentences[rng.Intn(len(card.ExampleSentences))]
		item.Answer = sentence
		item.Options = shuffledWords(sentence, rng)

	case domain.ExerciseIconMatch:
		item.Prompt = card.Term
		item.Answer = card.Icon
		item.Options = choiceOptions(card.Icon, pool, rng, func(c *domain.Card) string {
			return c.Icon
		})
	}

	return item
}

// choiceOptions builds a shuffled option set containing the correct value and
// up to distractorCount distinct wrong values from the pool.
func choiceOptions(
	correct string,
	pool []*domain.Card,
	rng *rand.Rand,
	value func(*domain.Card) string,
) []string {
	seen := map[string]bool{correct: true}
	var wrong []string
	for _, c := range pool {
		v := value(c)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		wrong = append(wrong, v)
	}

	rng.Shuffle(len(wrong), func(i, j int) {
		wrong[i], wrong[j] = wrong[j], wrong[i]
	})
	if len(wrong) > distractorCount {
		wrong = wrong[:distractorCount]
	}

	options := append(wrong, correct)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// genderOptions returns the distinct genders present in the pool, always
// including the card's own. The UI renders these as the article choices.
func genderOptions(correct string, pool []*domain.Card) []string {
	seen := map[string]bool{correct: true}
	options := []string{correct}
	for _, c := range pool {
		if c.Gender == "" || seen[c.Gender] {
			continue
		}
		seen[c.Gender] = true
		options = append(options, c.Gender)
	}
	sort.Strings(options)
	return options
}

// randomVerbForm picks one verb form to drill. Map iteration order is not
// stable, so the keys are sorted first and the pick drawn from the slice.
func randomVerbForm(forms map[string]string, rng *rand.Rand) (string, string) {
	keys := make([]string, 0, len(forms))
	for k := range forms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	k := keys[rng.Intn(len(keys))]
	return k, forms[k]
}

// shuffledWords splits a sentence into words and shuffles them for the
// sentence-building exercise.
func shuffledWords(sentence string, rng *rand.Rand) []string {
	words := strings.Fields(sentence)
	rng.Shuffle(len(words), func(i, j int) {
		words[i], words[j] = words[j], words[i]
	})
	return words
}
