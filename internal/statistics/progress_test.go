package statistics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_review "github.com/sgellert/vinoquiz/internal/mocks/review"
	"github.com/sgellert/vinoquiz/internal/review"
)

func TestCalculateProgress_EmptySet(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	progress := CalculateProgress(nil, now)

	assert.Equal(t, 0, progress.Total)
	assert.Equal(t, 0, progress.Mastered)
	assert.Equal(t, 0, progress.Learning)
	assert.Equal(t, 0, progress.New)
	assert.Equal(t, 0, progress.DueToday)
	assert.Equal(t, 0, progress.DueThisWeek)
	assert.Equal(t, 0, progress.TotalRepetitions)
	assert.Equal(t, 2.5, progress.AverageEaseFactor)
}

func TestCalculateProgress(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []review.Record{
		{
			// Never reviewed, due since yesterday.
			QuestionID:   1,
			EaseFactor:   2.5,
			Repetitions:  0,
			NextReviewAt: now.AddDate(0, 0, -1),
		},
		{
			// Learning, due later today.
			QuestionID:   2,
			EaseFactor:   2.6,
			IntervalDays: 1,
			Repetitions:  1,
			NextReviewAt: now.Add(6 * time.Hour),
		},
		{
			// Mastered, due in five days.
			QuestionID:   3,
			EaseFactor:   2.7,
			IntervalDays: 30,
			Repetitions:  4,
			NextReviewAt: now.AddDate(0, 0, 5),
		},
		{
			// Full streak but short interval: in no main bucket.
			QuestionID:   4,
			EaseFactor:   2.2,
			IntervalDays: 10,
			Repetitions:  3,
			NextReviewAt: now.AddDate(0, 0, 10),
		},
	}

	progress := CalculateProgress(records, now)

	assert.Equal(t, 4, progress.Total)
	assert.Equal(t, 1, progress.New)
	assert.Equal(t, 1, progress.Learning)
	assert.Equal(t, 1, progress.Mastered)
	assert.Equal(t, 1, progress.DueToday, "only the record due later today falls on the current day")
	assert.Equal(t, 2, progress.DueThisWeek, "today's and the five-day record fall within the week")
	assert.Equal(t, 8, progress.TotalRepetitions)
	assert.InDelta(t, 2.5, progress.AverageEaseFactor, 1e-9)
}

func TestCalculateProgress_WeekBoundary(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	records := []review.Record{
		{QuestionID: 1, EaseFactor: 2.5, NextReviewAt: now.AddDate(0, 0, 7)},
		{QuestionID: 2, EaseFactor: 2.5, NextReviewAt: now.AddDate(0, 0, 7).Add(time.Second)},
		{QuestionID: 3, EaseFactor: 2.5, NextReviewAt: now.Add(-time.Hour)},
	}

	progress := CalculateProgress(records, now)

	// Past-due records are not part of the upcoming-week count, and the
	// boundary is inclusive at exactly seven days.
	assert.Equal(t, 1, progress.DueThisWeek)
}

func TestCalculator_Progress(t *testing.T) {
	ctrl := gomock.NewController(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	repo := mock_review.NewMockRepository(ctrl)
	repo.EXPECT().FindAllByUser(gomock.Any(), "learner-1").Return([]review.Record{
		{QuestionID: 1, EaseFactor: 2.5, Repetitions: 0, NextReviewAt: now},
	}, nil)

	calculator := NewCalculator(repo).WithClock(func() time.Time { return now })

	progress, err := calculator.Progress(context.Background(), "learner-1")
	require.NoError(t, err)
	assert.Equal(t, 1, progress.Total)
	assert.Equal(t, 1, progress.New)
	assert.Equal(t, 1, progress.DueToday)
}

func TestCalculator_Progress_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mock_review.NewMockRepository(ctrl)
	repo.EXPECT().FindAllByUser(gomock.Any(), "learner-1").Return(nil, assert.AnError)

	calculator := NewCalculator(repo)

	_, err := calculator.Progress(context.Background(), "learner-1")
	assert.Error(t, err)
}
