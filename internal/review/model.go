// Package review provides per-learner review records, their persistence,
// and the answer-submission service that drives the scheduler.
package review

import (
	"database/sql"
	"time"

	"github.com/sgellert/vinoquiz/internal/srs"
)

// Record is the spaced-repetition state for one (user, question) pair.
// The database enforces uniqueness on that pair.
type Record struct {
	ID             int64        `db:"id"`
	UserID         string       `db:"user_id"`
	QuestionID     int64        `db:"question_id"`
	EaseFactor     float64      `db:"ease_factor"`
	IntervalDays   int          `db:"interval_days"`
	Repetitions    int          `db:"repetitions"`
	NextReviewAt   time.Time    `db:"next_review_at"`
	LastReviewedAt sql.NullTime `db:"last_reviewed_at"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

// NewRecord returns the default state a learner starts from: never
// reviewed, immediately due.
func NewRecord(userID string, questionID int64, now time.Time) Record {
	return Record{
		UserID:       userID,
		QuestionID:   questionID,
		EaseFactor:   srs.DefaultEaseFactor,
		IntervalDays: 0,
		Repetitions:  0,
		NextReviewAt: now,
	}
}

// IsDue reports whether the record is eligible for review.
func (r Record) IsDue(now time.Time) bool {
	return srs.IsDue(r.NextReviewAt, now)
}

// Bucket returns the record's coarse progress classification.
func (r Record) Bucket() srs.Bucket {
	return srs.Classify(r.Repetitions, r.IntervalDays)
}

// MasteryPercent returns the record's continuous 0-100 mastery score.
func (r Record) MasteryPercent() int {
	return srs.MasteryPercent(r.Repetitions, r.IntervalDays, r.EaseFactor)
}

// Apply copies a freshly computed review state onto the record.
func (r *Record) Apply(rev srs.Review) {
	r.EaseFactor = rev.EaseFactor
	r.IntervalDays = rev.IntervalDays
	r.Repetitions = rev.Repetitions
	r.NextReviewAt = rev.NextReviewAt
	r.LastReviewedAt = sql.NullTime{Time: rev.LastReviewedAt, Valid: true}
}
