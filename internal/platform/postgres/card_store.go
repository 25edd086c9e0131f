package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/fluentdeck/fluentdeck-api/internal/domain"
	"github.com/fluentdeck/fluentdeck-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend. Linguistic metadata
// and the per-exercise score map are stored as JSONB.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller. If logger is nil, a
// default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, term, translation, gender, verb_forms, example_sentences,
	icon, scores, review_count, correct_count, last_reviewed_at, next_review_at,
	favorite, archived, created_at, updated_at`

// Create implements store.CardStore.Create.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	verbForms, sentences, scores, err := marshalCardJSON(card)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err = s.db.ExecContext(ctx, query,
		card.ID, card.Term, card.Translation, card.Gender, verbForms, sentences,
		card.Icon, scores, card.ReviewCount, card.CorrectCount,
		card.LastReviewedAt, card.NextReviewAt,
		card.Favorite, card.Archived, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return store.NewStoreError("card", "create", "failed to insert card", MapError(err))
	}
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}
	return card, nil
}

// ListCandidates implements store.CardStore.ListCandidates.
// Archived cards are excluded here; all further filtering (due times,
// exercise eligibility) belongs to the scheduler.
func (s *PostgresCardStore) ListCandidates(ctx context.Context) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE NOT archived ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.logger.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return cards, nil
}

// Update implements store.CardStore.Update.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	verbForms, sentences, scores, err := marshalCardJSON(card)
	if err != nil {
		return err
	}

	query := `
		UPDATE cards
		SET term = $2, translation = $3, gender = $4, verb_forms = $5,
			example_sentences = $6, icon = $7, scores = $8, review_count = $9,
			correct_count = $10, last_reviewed_at = $11, next_review_at = $12,
			favorite = $13, archived = $14, updated_at = $15
		WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query,
		card.ID, card.Term, card.Translation, card.Gender, verbForms, sentences,
		card.Icon, scores, card.ReviewCount, card.CorrectCount,
		card.LastReviewedAt, card.NextReviewAt,
		card.Favorite, card.Archived, card.UpdatedAt)
	if err != nil {
		return store.NewStoreError("card", "update", "failed to update card", MapError(err))
	}
	return checkCardAffected(result)
}

// Delete implements store.CardStore.Delete.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return store.NewStoreError("card", "delete", "failed to delete card", MapError(err))
	}
	return checkCardAffected(result)
}

// checkCardAffected narrows the generic zero-rows error to ErrCardNotFound so
// callers can match on the card-specific sentinel.
func checkCardAffected(result sql.Result) error {
	err := CheckRowsAffected(result, "card")
	if err == nil {
		return nil
	}
	if store.IsNotFoundError(err) {
		return store.ErrCardNotFound
	}
	return err
}

// WithTx implements store.CardStore.WithTx.
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanCard.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard maps one database row to a domain.Card, decoding the JSONB
// columns.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card      domain.Card
		verbForms []byte
		sentences []byte
		scores    []byte
	)

	err := row.Scan(
		&card.ID, &card.Term, &card.Translation, &card.Gender, &verbForms,
		&sentences, &card.Icon, &scores, &card.ReviewCount, &card.CorrectCount,
		&card.LastReviewedAt, &card.NextReviewAt,
		&card.Favorite, &card.Archived, &card.CreatedAt, &card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(verbForms) > 0 {
		if err := json.Unmarshal(verbForms, &card.VerbForms); err != nil {
			return nil, fmt.Errorf("failed to decode verb forms: %w", err)
		}
	}
	if len(sentences) > 0 {
		if err := json.Unmarshal(sentences, &card.ExampleSentences); err != nil {
			return nil, fmt.Errorf("failed to decode example sentences: %w", err)
		}
	}
	if len(scores) > 0 {
		if err := json.Unmarshal(scores, &card.Scores); err != nil {
			return nil, fmt.Errorf("failed to decode scores: %w", err)
		}
	}

	return &card, nil
}

// marshalCardJSON encodes the card's JSONB columns. Nil maps and slices are
// stored as SQL NULL rather than the string "null".
func marshalCardJSON(card *domain.Card) (verbForms, sentences, scores []byte, err error) {
	if card.VerbForms != nil {
		verbForms, err = json.Marshal(card.VerbForms)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode verb forms: %w", err)
		}
	}
	if card.ExampleSentences != nil {
		sentences, err = json.Marshal(card.ExampleSentences)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode example sentences: %w", err)
		}
	}
	if card.Scores != nil {
		scores, err = json.Marshal(card.Scores)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode scores: %w", err)
		}
	}
	return verbForms, sentences, scores, nil
}
