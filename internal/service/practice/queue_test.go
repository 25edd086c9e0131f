package practice

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/domain/srs"
)

// mustCard builds a card for queue tests, failing the test on invalid input.
func mustCard(t *testing.T, term, translation string) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(term, translation)
	require.NoError(t, err)
	return card
}

func TestBuildQueueOneItemPerDuePair(t *testing.T) {
	t.Parallel()

	srsService := srs.NewDefaultService()
	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(1))

	hund := mustCard(t, "der Hund", "the dog")
	hund.Gender = "der"
	katze := mustCard(t, "die Katze", "the cat")

	queue := buildQueue(
		[]*domain.Card{hund, katze},
		DefaultExercisePreferences(),
		srsService.DueExerciseTypes,
		now,
		rng,
	)

	// hund: 4 base types + article drill; katze: 4 base types.
	require.Len(t, queue, 9)

	perCard := map[string]int{}
	seen := map[string]bool{}
	for _, item := range queue {
		perCard[item.Card.Term]++
		key := item.Card.ID.String() + "/" + string(item.ExerciseType)
		assert.False(t, seen[key], "duplicate queue pair %s", key)
		seen[key] = true
	}
	assert.Equal(t, 5, perCard["der Hund"])
	assert.Equal(t, 4, perCard["die Katze"])
}

func TestBuildQueueExclusions(t *testing.T) {
	t.Parallel()

	srsService := srs.NewDefaultService()
	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(1))

	archived := mustCard(t, "alt", "old")
	archived.Archived = true

	practiced := mustCard(t, "laufen", "to run")
	for _, exerciseType := range practiced.ApplicableExerciseTypes() {
		score := srsService.RecordAnswer(practiced.ScoreFor(exerciseType), true, now)
		practiced.SetScore(score, now)
	}

	fresh := mustCard(t, "neu", "new")

	prefs := DefaultExercisePreferences()
	queue := buildQueue(
		[]*domain.Card{archived, practiced, nil, fresh},
		prefs,
		srsService.DueExerciseTypes,
		now,
		rng,
	)

	// Only the fresh card survives; archived, nil and not-yet-due candidates
	// are silently excluded.
	require.NotEmpty(t, queue)
	for _, item := range queue {
		assert.Equal(t, "neu", item.Card.Term)
	}
}

func TestBuildQueueHonorsEnabledTypes(t *testing.T) {
	t.Parallel()

	srsService := srs.NewDefaultService()
	now := time.Now().UTC()
	rng := rand.New(rand.NewSource(1))

	card := mustCard(t, "der Hund", "the dog")

	prefs := ExercisePreferences{
		EnabledTypes: map[domain.ExerciseType]bool{
			domain.ExerciseMultipleChoice: true,
		},
	}

	queue := buildQueue([]*domain.Card{card}, prefs, srsService.DueExerciseTypes, now, rng)
	require.Len(t, queue, 1)
	assert.Equal(t, domain.ExerciseMultipleChoice, queue[0].ExerciseType)
}

func TestShuffleItemsBiasesWeakItemsForward(t *testing.T) {
	t.Parallel()

	strong := mustCard(t, "stark", "strong")
	strong.SetScore(domain.ExerciseScore{
		Type:         domain.ExerciseWritingTranslation,
		CorrectCount: 10,
		CurrentChain: 10,
	}, time.Now().UTC())

	weak := mustCard(t, "schwach", "weak")
	weak.SetScore(domain.ExerciseScore{
		Type:           domain.ExerciseWritingTranslation,
		CorrectCount:   1,
		IncorrectCount: 9,
		CurrentChain:   0,
	}, time.Now().UTC())

	prefs := DefaultExercisePreferences()
	rng := rand.New(rand.NewSource(42))

	// The bias is statistical: the weak item does not always come first, but
	// over many shuffles it should lead clearly more often than not.
	weakFirst := 0
	const trials = 500
	for i := 0; i < trials; i++ {
		items := []*PracticeItem{
			{Card: strong, ExerciseType: domain.ExerciseWritingTranslation},
			{Card: weak, ExerciseType: domain.ExerciseWritingTranslation},
		}
		shuffleItems(items, prefs, rng)
		if items[0].Card.Term == "schwach" {
			weakFirst++
		}
	}

	assert.Greater(t, weakFirst, trials*6/10,
		"weak item led only %d of %d shuffles", weakFirst, trials)
}

func TestShuffleItemsUnbiasedWhenDisabled(t *testing.T) {
	t.Parallel()

	strong := mustCard(t, "stark", "strong")
	strong.SetScore(domain.ExerciseScore{
		Type:         domain.ExerciseWritingTranslation,
		CorrectCount: 10,
		CurrentChain: 10,
	}, time.Now().UTC())

	weak := mustCard(t, "schwach", "weak")

	prefs := DefaultExercisePreferences()
	prefs.PrioritizeWeaknesses = false
	rng := rand.New(rand.NewSource(42))

	weakFirst := 0
	const trials = 500
	for i := 0; i < trials; i++ {
		items := []*PracticeItem{
			{Card: strong, ExerciseType: domain.ExerciseWritingTranslation},
			{Card: weak, ExerciseType: domain.ExerciseWritingTranslation},
		}
		shuffleItems(items, prefs, rng)
		if items[0].Card.Term == "schwach" {
			weakFirst++
		}
	}

	// Roughly a coin flip.
	assert.InDelta(t, trials/2, weakFirst, float64(trials)*0.1)
}

func TestNewPracticeItemRendering(t *testing.T) {
	t.Parallel()

	card := mustCard(t, "laufen", "to run")
	card.Gender = "das"
	card.VerbForms = map[string]string{"ich": "laufe", "du": "läufst"}
	card.ExampleSentences = []string{"Ich laufe jeden Tag."}
	card.Icon = "runner"

	pool := []*domain.Card{card}
	for _, spec := range [][2]string{
		{"der Hund", "the dog"},
		{"die Katze", "the cat"},
		{"das Haus", "the house"},
		{"der Baum", "the tree"},
	} {
		other := mustCard(t, spec[0], spec[1])
		other.Gender = strings.Fields(spec[0])[0]
		other.Icon = strings.TrimPrefix(spec[1], "the ")
		pool = append(pool, other)
	}

	t.Run("reading recognition is prompt-only", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseReadingRecognition, pool, rng)
		assert.Equal(t, "laufen", item.Prompt)
		assert.Empty(t, item.Answer)
		assert.Empty(t, item.Options)
	})

	t.Run("writing translation", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseWritingTranslation, pool, rng)
		assert.Equal(t, "laufen", item.Prompt)
		assert.Equal(t, "to run", item.Answer)
	})

	t.Run("reverse translation", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseReverseTranslation, pool, rng)
		assert.Equal(t, "to run", item.Prompt)
		assert.Equal(t, "laufen", item.Answer)
	})

	t.Run("multiple choice options include the answer", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseMultipleChoice, pool, rng)
		assert.Equal(t, "to run", item.Answer)
		assert.Contains(t, item.Options, "to run")
		assert.Len(t, item.Options, distractorCount+1)
		seen := map[string]bool{}
		for _, opt := range item.Options {
			assert.False(t, seen[opt], "duplicate option %q", opt)
			seen[opt] = true
		}
	})

	t.Run("article drill offers the pool genders", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseArticleDrill, pool, rng)
		assert.Equal(t, "das", item.Answer)
		assert.Contains(t, item.Options, "das")
		assert.Contains(t, item.Options, "der")
		assert.Contains(t, item.Options, "die")
	})

	t.Run("conjugation drill asks one known form", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseConjugationDrill, pool, rng)
		assert.Contains(t, card.VerbForms, item.Prompt)
		assert.Equal(t, card.VerbForms[item.Prompt], item.Answer)
	})

	t.Run("sentence building shuffles the sentence words", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseSentenceBuilding, pool, rng)
		assert.Equal(t, "Ich laufe jeden Tag.", item.Answer)
		assert.ElementsMatch(t, strings.Fields(item.Answer), item.Options)
	})

	t.Run("icon match options include the icon", func(t *testing.T) {
		t.Parallel()
		rng := rand.New(rand.NewSource(7))
		item := newPracticeItem(card, domain.ExerciseIconMatch, pool, rng)
		assert.Equal(t, "runner", item.Answer)
		assert.Contains(t, item.Options, "runner")
	})
}
