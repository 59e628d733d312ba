package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/internal/srs"
)

//go:generate mockgen -source=repository.go -destination=../mocks/review/mock_repository.go -package=mock_review Repository

// Repository defines operations for managing review records.
type Repository interface {
	FindByUserAndQuestion(ctx context.Context, userID string, questionID int64) (*Record, error)
	FindAllByUser(ctx context.Context, userID string) ([]Record, error)

	// SaveReview atomically reads the prior record for (user, question),
	// creating the default state if none exists, applies the given update
	// to it, and persists the result. The read and write run in one
	// transaction with a row lock so concurrent submissions for the same
	// pair serialize instead of dropping an update.
	SaveReview(ctx context.Context, userID string, questionID int64, apply func(prior Record) srs.Review) (*Record, error)

	DeleteByQuestion(ctx context.Context, questionID int64) error
	DeleteByUser(ctx context.Context, userID string) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindByUserAndQuestion returns the record for a pair, or nil if the
// learner has never seen the question.
func (r *DBRepository) FindByUserAndQuestion(ctx context.Context, userID string, questionID int64) (*Record, error) {
	var record Record
	err := r.db.GetContext(ctx, &record,
		"SELECT * FROM review_records WHERE user_id = ? AND question_id = ?",
		userID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(review_record) > %w", err)
	}
	return &record, nil
}

// FindAllByUser returns all of a learner's records. Any read failure
// fails the whole fetch; callers never see a partial set.
func (r *DBRepository) FindAllByUser(ctx context.Context, userID string) ([]Record, error) {
	var records []Record
	if err := r.db.SelectContext(ctx, &records,
		"SELECT * FROM review_records WHERE user_id = ? ORDER BY question_id", userID); err != nil {
		return nil, fmt.Errorf("db.SelectContext(review_records) > %w", err)
	}
	return records, nil
}

// SaveReview implements the serialized read-modify-write for one pair.
func (r *DBRepository) SaveReview(ctx context.Context, userID string, questionID int64, apply func(prior Record) srs.Review) (*Record, error) {
	var saved Record

	err := database.RunInTx(ctx, r.db, func(ctx context.Context, tx *sqlx.Tx) error {
		var prior Record
		err := tx.GetContext(ctx, &prior,
			"SELECT * FROM review_records WHERE user_id = ? AND question_id = ? FOR UPDATE",
			userID, questionID)
		if errors.Is(err, sql.ErrNoRows) {
			prior, err = createLocked(ctx, tx, userID, questionID)
			if err != nil {
				return err
			}
		} else if err != nil {
			return fmt.Errorf("tx.GetContext(review_record for update) > %w", err)
		}

		prior.Apply(apply(prior))

		if _, err := tx.ExecContext(ctx,
			`UPDATE review_records
			SET ease_factor = ?, interval_days = ?, repetitions = ?, next_review_at = ?, last_reviewed_at = ?
			WHERE id = ?`,
			prior.EaseFactor, prior.IntervalDays, prior.Repetitions,
			prior.NextReviewAt, prior.LastReviewedAt, prior.ID); err != nil {
			return fmt.Errorf("tx.ExecContext(update review_record) > %w", err)
		}

		saved = prior
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// createLocked inserts the default record inside the submission
// transaction and re-reads it under the row lock.
func createLocked(ctx context.Context, tx *sqlx.Tx, userID string, questionID int64) (Record, error) {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO review_records (user_id, question_id, ease_factor, interval_days, repetitions, next_review_at)
		VALUES (?, ?, ?, 0, 0, NOW())`,
		userID, questionID, srs.DefaultEaseFactor); err != nil {
		return Record{}, fmt.Errorf("tx.ExecContext(insert review_record) > %w", err)
	}

	var record Record
	if err := tx.GetContext(ctx, &record,
		"SELECT * FROM review_records WHERE user_id = ? AND question_id = ? FOR UPDATE",
		userID, questionID); err != nil {
		return Record{}, fmt.Errorf("tx.GetContext(created review_record) > %w", err)
	}
	return record, nil
}

// DeleteByQuestion wipes all learner progress for a question. Used when a
// question is deleted or its content substantively edited.
func (r *DBRepository) DeleteByQuestion(ctx context.Context, questionID int64) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM review_records WHERE question_id = ?", questionID); err != nil {
		return fmt.Errorf("db.ExecContext(delete review_records by question) > %w", err)
	}
	return nil
}

// DeleteByUser wipes a learner's progress. Used on account deletion.
func (r *DBRepository) DeleteByUser(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM review_records WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("db.ExecContext(delete review_records by user) > %w", err)
	}
	return nil
}
