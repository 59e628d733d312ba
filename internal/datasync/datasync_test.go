package datasync

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_question "github.com/sgellert/vinoquiz/internal/mocks/question"
	mock_review "github.com/sgellert/vinoquiz/internal/mocks/review"
	"github.com/sgellert/vinoquiz/internal/question"
)

func TestImporter_ImportSets(t *testing.T) {
	newQuestion := question.Question{
		Prompt: "Which grape dominates red Burgundy?",
		Type:   question.TypeFreeText,
		Payload: question.Payload{
			AnswerText: "Pinot Noir",
		},
	}
	existing := question.Question{
		ID:     7,
		Prompt: "Which region produces Chablis?",
		Type:   question.TypeSingleChoice,
		Payload: question.Payload{
			Options:      []string{"Burgundy", "Loire"},
			CorrectIndex: 0,
		},
	}

	t.Run("creates new and skips unchanged questions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		questionRepo := mock_question.NewMockRepository(ctrl)
		questionRepo.EXPECT().
			FindAll(gomock.Any()).
			Return([]question.Question{existing}, nil)
		questionRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q *question.Question) error {
				assert.Equal(t, newQuestion.Prompt, q.Prompt)
				return nil
			})

		var out bytes.Buffer
		importer := NewImporter(questionRepo, mock_review.NewMockRepository(ctrl), &out)

		result, err := importer.ImportSets(context.Background(), map[string]*question.Set{
			"burgundy": {Name: "Burgundy", Questions: []question.Question{newQuestion, existing}},
		}, ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.New)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Updated)
		assert.Contains(t, out.String(), "[NEW]")
		assert.Contains(t, out.String(), "[SKIP]")
	})

	t.Run("content change updates the question and wipes progress", func(t *testing.T) {
		edited := existing
		edited.ID = 0
		edited.Payload = question.Payload{
			Options:      []string{"Burgundy", "Loire", "Alsace"},
			CorrectIndex: 0,
		}

		ctrl := gomock.NewController(t)
		questionRepo := mock_question.NewMockRepository(ctrl)
		questionRepo.EXPECT().
			FindAll(gomock.Any()).
			Return([]question.Question{existing}, nil)
		questionRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q *question.Question) error {
				assert.Equal(t, int64(7), q.ID)
				assert.Len(t, q.Payload.Options, 3)
				return nil
			})
		reviewRepo := mock_review.NewMockRepository(ctrl)
		reviewRepo.EXPECT().
			DeleteByQuestion(gomock.Any(), int64(7)).
			Return(nil)

		var out bytes.Buffer
		importer := NewImporter(questionRepo, reviewRepo, &out)

		result, err := importer.ImportSets(context.Background(), map[string]*question.Set{
			"burgundy": {Name: "Burgundy", Questions: []question.Question{edited}},
		}, ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.ProgressWipes)
		assert.Contains(t, out.String(), "learner progress reset")
	})

	t.Run("repeated prompt within a run creates one row", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		questionRepo := mock_question.NewMockRepository(ctrl)
		questionRepo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, nil)
		questionRepo.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, q *question.Question) error {
				q.ID = 12
				return nil
			}).
			Times(1)

		var out bytes.Buffer
		importer := NewImporter(questionRepo, mock_review.NewMockRepository(ctrl), &out)

		// The same question listed in two set files matches the row
		// created earlier in the run instead of inserting a duplicate.
		result, err := importer.ImportSets(context.Background(), map[string]*question.Set{
			"burgundy": {Name: "Burgundy", Questions: []question.Question{newQuestion}},
			"classics": {Name: "Classics", Questions: []question.Question{newQuestion}},
		}, ImportOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, result.New)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Updated)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		questionRepo := mock_question.NewMockRepository(ctrl)
		questionRepo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, nil)

		var out bytes.Buffer
		importer := NewImporter(questionRepo, mock_review.NewMockRepository(ctrl), &out)

		result, err := importer.ImportSets(context.Background(), map[string]*question.Set{
			"burgundy": {Name: "Burgundy", Questions: []question.Question{newQuestion}},
		}, ImportOptions{DryRun: true})
		require.NoError(t, err)
		assert.Equal(t, 1, result.New)
	})

	t.Run("repository failure aborts the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		questionRepo := mock_question.NewMockRepository(ctrl)
		questionRepo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, assert.AnError)

		importer := NewImporter(questionRepo, mock_review.NewMockRepository(ctrl), &bytes.Buffer{})

		result, err := importer.ImportSets(context.Background(), nil, ImportOptions{})
		assert.Nil(t, result)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
