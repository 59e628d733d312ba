package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

//go:generate mockgen -source=repository.go -destination=../mocks/question/mock_repository.go -package=mock_question Repository

// Repository defines operations for managing questions.
type Repository interface {
	FindAll(ctx context.Context) ([]Question, error)
	FindByID(ctx context.Context, id int64) (*Question, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Question, error)
	Create(ctx context.Context, q *Question) error
	Update(ctx context.Context, q *Question) error
	Delete(ctx context.Context, id int64) error
}

// DBRepository implements Repository using MySQL.
type DBRepository struct {
	db *sqlx.DB
}

// NewDBRepository creates a new DBRepository.
func NewDBRepository(db *sqlx.DB) *DBRepository {
	return &DBRepository{db: db}
}

// FindAll returns all questions.
func (r *DBRepository) FindAll(ctx context.Context) ([]Question, error) {
	var questions []Question
	if err := r.db.SelectContext(ctx, &questions, "SELECT * FROM questions ORDER BY id"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(questions) > %w", err)
	}
	return questions, nil
}

// FindByID returns the question with the given ID, or nil if not found.
func (r *DBRepository) FindByID(ctx context.Context, id int64) (*Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q, "SELECT * FROM questions WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db.GetContext(question) > %w", err)
	}
	return &q, nil
}

// FindByIDs returns the questions matching the given IDs.
func (r *DBRepository) FindByIDs(ctx context.Context, ids []int64) ([]Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In("SELECT * FROM questions WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("sqlx.In(questions) > %w", err)
	}

	var questions []Question
	if err := r.db.SelectContext(ctx, &questions, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("db.SelectContext(questions by ids) > %w", err)
	}
	return questions, nil
}

// Create inserts a new question.
func (r *DBRepository) Create(ctx context.Context, q *Question) error {
	result, err := r.db.ExecContext(ctx,
		"INSERT INTO questions (prompt, type, payload, revision) VALUES (?, ?, ?, 1)",
		q.Prompt, q.Type, q.Payload)
	if err != nil {
		return fmt.Errorf("db.ExecContext(insert question) > %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("result.LastInsertId() > %w", err)
	}
	q.ID = id
	return nil
}

// Update rewrites a question's content and bumps its revision.
func (r *DBRepository) Update(ctx context.Context, q *Question) error {
	if _, err := r.db.ExecContext(ctx,
		"UPDATE questions SET prompt = ?, type = ?, payload = ?, revision = revision + 1 WHERE id = ?",
		q.Prompt, q.Type, q.Payload, q.ID); err != nil {
		return fmt.Errorf("db.ExecContext(update question) > %w", err)
	}
	return nil
}

// Delete removes a question.
func (r *DBRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE id = ?", id); err != nil {
		return fmt.Errorf("db.ExecContext(delete question) > %w", err)
	}
	return nil
}
