package cli

import (
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sgellert/vinoquiz/internal/answer"
	mock_question "github.com/sgellert/vinoquiz/internal/mocks/question"
	mock_review "github.com/sgellert/vinoquiz/internal/mocks/review"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/srs"
	"github.com/sgellert/vinoquiz/internal/statistics"
)

func TestQuizSession_Run(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	chablis := question.Question{
		ID:     1,
		Prompt: "Which region produces Chablis?",
		Type:   question.TypeSingleChoice,
		Payload: question.Payload{
			Options:      []string{"Burgundy", "Loire", "Alsace"},
			CorrectIndex: 0,
		},
	}

	saveReview := func(records *mock_review.MockRepository) {
		records.EXPECT().
			SaveReview(gomock.Any(), "learner-1", int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, userID string, questionID int64, apply func(review.Record) srs.Review) (*review.Record, error) {
				prior := review.NewRecord(userID, questionID, now)
				prior.Apply(apply(prior))
				return &prior, nil
			})
	}

	newSession := func(records *mock_review.MockRepository, questions *mock_question.MockRepository, input string, out *bytes.Buffer) *QuizSession {
		reviews := review.NewService(records, questions, answer.NewEvaluator(0),
			review.WithClock(func() time.Time { return now }),
			review.WithRand(rand.New(rand.NewSource(1))))
		stats := statistics.NewCalculator(records).WithClock(func() time.Time { return now })
		return NewQuizSession("learner-1", reviews, stats, strings.NewReader(input), out)
	}

	t.Run("answers one due question correctly", func(t *testing.T) {
		color.NoColor = true
		defer func() { color.NoColor = false }()

		ctrl := gomock.NewController(t)
		records := mock_review.NewMockRepository(ctrl)
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return([]review.Record{
				{UserID: "learner-1", QuestionID: 1, EaseFactor: 2.5, NextReviewAt: now},
			}, nil)
		questions := mock_question.NewMockRepository(ctrl)
		questions.EXPECT().
			FindByIDs(gomock.Any(), []int64{1}).
			Return([]question.Question{chablis}, nil)
		saveReview(records)
		// Summary fetch after the session.
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return([]review.Record{
				{UserID: "learner-1", QuestionID: 1, EaseFactor: 2.6, IntervalDays: 1, Repetitions: 1, NextReviewAt: now.AddDate(0, 0, 1)},
			}, nil)

		var out bytes.Buffer
		session := newSession(records, questions, "1\n", &out)

		require.NoError(t, session.Run(context.Background()))
		assert.Contains(t, out.String(), "1 questions due for review.")
		assert.Contains(t, out.String(), "Which region produces Chablis?")
		assert.Contains(t, out.String(), "1. Burgundy")
		assert.Contains(t, out.String(), "Correct. Next review in 1 day(s).")
		assert.Contains(t, out.String(), "Session finished.")
	})

	t.Run("reprompts on malformed input before a wrong answer", func(t *testing.T) {
		color.NoColor = true
		defer func() { color.NoColor = false }()

		ctrl := gomock.NewController(t)
		records := mock_review.NewMockRepository(ctrl)
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return([]review.Record{
				{UserID: "learner-1", QuestionID: 1, EaseFactor: 2.5, NextReviewAt: now},
			}, nil)
		questions := mock_question.NewMockRepository(ctrl)
		questions.EXPECT().
			FindByIDs(gomock.Any(), []int64{1}).
			Return([]question.Question{chablis}, nil)
		saveReview(records)
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return(nil, nil)

		var out bytes.Buffer
		session := newSession(records, questions, "9\n2\n", &out)

		require.NoError(t, session.Run(context.Background()))
		assert.Contains(t, out.String(), "enter a number between 1 and 3")
		assert.Contains(t, out.String(), `The answer is "Burgundy".`)
	})

	t.Run("quit ends the session early", func(t *testing.T) {
		color.NoColor = true
		defer func() { color.NoColor = false }()

		ctrl := gomock.NewController(t)
		records := mock_review.NewMockRepository(ctrl)
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return([]review.Record{
				{UserID: "learner-1", QuestionID: 1, EaseFactor: 2.5, NextReviewAt: now},
			}, nil)
		questions := mock_question.NewMockRepository(ctrl)
		questions.EXPECT().
			FindByIDs(gomock.Any(), []int64{1}).
			Return([]question.Question{chablis}, nil)
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return(nil, nil)

		var out bytes.Buffer
		session := newSession(records, questions, "quit\n", &out)

		require.NoError(t, session.Run(context.Background()))
		assert.NotContains(t, out.String(), "Correct.")
		assert.Contains(t, out.String(), "Session finished.")
	})

	t.Run("nothing due", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		records := mock_review.NewMockRepository(ctrl)
		records.EXPECT().
			FindAllByUser(gomock.Any(), "learner-1").
			Return(nil, nil)

		var out bytes.Buffer
		session := newSession(records, mock_question.NewMockRepository(ctrl), "", &out)

		require.NoError(t, session.Run(context.Background()))
		assert.Contains(t, out.String(), "Nothing is due for review.")
	})
}

func TestParseSubmission(t *testing.T) {
	tests := []struct {
		name     string
		question question.Question
		line     string
		want     *answer.Submission
		wantErr  string
	}{
		{
			name: "single choice",
			question: question.Question{
				Type:    question.TypeSingleChoice,
				Payload: question.Payload{Options: []string{"a", "b"}, CorrectIndex: 0},
			},
			line: "2",
			want: &answer.Submission{SelectedIndex: 1},
		},
		{
			name: "multi select",
			question: question.Question{
				Type:    question.TypeMultiSelect,
				Payload: question.Payload{Options: []string{"a", "b", "c"}, CorrectIndices: []int{0, 2}},
			},
			line: "1, 3",
			want: &answer.Submission{SelectedIndices: []int{0, 2}},
		},
		{
			name: "map click",
			question: question.Question{
				Type:    question.TypeMapClick,
				Payload: question.Payload{Region: [][2]float64{{0, 0}, {1, 0}, {1, 1}}},
			},
			line: "4.85, 47.0",
			want: &answer.Submission{Longitude: 4.85, Latitude: 47.0},
		},
		{
			name: "free text",
			question: question.Question{
				Type:    question.TypeFreeText,
				Payload: question.Payload{AnswerText: "Pinot Noir"},
			},
			line: "pinot noir",
			want: &answer.Submission{Text: "pinot noir"},
		},
		{
			name: "out of range option",
			question: question.Question{
				Type:    question.TypeSingleChoice,
				Payload: question.Payload{Options: []string{"a", "b"}},
			},
			line:    "3",
			wantErr: "enter a number between 1 and 2",
		},
		{
			name: "malformed coordinates",
			question: question.Question{
				Type:    question.TypeMapClick,
				Payload: question.Payload{Region: [][2]float64{{0, 0}, {1, 0}, {1, 1}}},
			},
			line:    "4.85",
			wantErr: "enter two numbers separated by a comma",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSubmission(tt.question, tt.line)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
