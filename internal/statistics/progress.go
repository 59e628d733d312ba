// Package statistics aggregates review records into learner progress
// reporting.
package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/srs"
)

// Progress summarizes a learner's review records.
type Progress struct {
	Total             int     `json:"total"`
	Mastered          int     `json:"mastered"`
	Learning          int     `json:"learning"`
	New               int     `json:"new"`
	DueToday          int     `json:"due_today"`
	DueThisWeek       int     `json:"due_this_week"`
	AverageEaseFactor float64 `json:"average_ease_factor"`
	TotalRepetitions  int     `json:"total_repetitions"`
}

// CalculateProgress aggregates records in one linear scan. Calendar
// bucketing (the due-today count) uses UTC day boundaries.
func CalculateProgress(records []review.Record, now time.Time) Progress {
	// A learner with no records gets the default ease factor, not a
	// zero division.
	if len(records) == 0 {
		return Progress{AverageEaseFactor: srs.DefaultEaseFactor}
	}

	progress := Progress{Total: len(records)}
	weekEnd := now.AddDate(0, 0, 7)

	var easeSum float64
	for _, r := range records {
		switch r.Bucket() {
		case srs.BucketNew:
			progress.New++
		case srs.BucketLearning:
			progress.Learning++
		case srs.BucketMastered:
			progress.Mastered++
		}

		if sameUTCDay(r.NextReviewAt, now) {
			progress.DueToday++
		}
		if !r.NextReviewAt.Before(now) && !r.NextReviewAt.After(weekEnd) {
			progress.DueThisWeek++
		}

		easeSum += r.EaseFactor
		progress.TotalRepetitions += r.Repetitions
	}

	progress.AverageEaseFactor = easeSum / float64(len(records))
	return progress
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Calculator computes progress for a learner from stored records.
type Calculator struct {
	repo review.Repository
	now  func() time.Time
}

// NewCalculator creates a Calculator reading from the given repository.
func NewCalculator(repo review.Repository) *Calculator {
	return &Calculator{repo: repo, now: time.Now}
}

// WithClock overrides the time source. Used by tests.
func (c *Calculator) WithClock(now func() time.Time) *Calculator {
	c.now = now
	return c
}

// Progress aggregates a learner's records. A failed read fails the whole
// aggregation; there is no partial result.
func (c *Calculator) Progress(ctx context.Context, userID string) (Progress, error) {
	records, err := c.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return Progress{}, fmt.Errorf("repo.FindAllByUser(%s) > %w", userID, err)
	}
	return CalculateProgress(records, c.now()), nil
}
