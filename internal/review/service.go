package review

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/srs"
)

// ErrQuestionNotFound is returned when a submission references a question
// that does not exist.
var ErrQuestionNotFound = fmt.Errorf("question not found")

// Service orchestrates answer submissions and due-set fetches.
type Service struct {
	records   Repository
	questions question.Repository
	evaluator *answer.Evaluator

	// sessionLimit caps how many due questions one fetch serves; zero
	// means no cap.
	sessionLimit int

	// typeFilter restricts due sets to one question type; empty means
	// all types.
	typeFilter question.Type

	now func() time.Time

	// rngMu serializes the shuffle; fetches run concurrently and a
	// rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRand overrides the randomness source used to shuffle due sets.
// Used by tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Service) {
		s.rng = rng
	}
}

// WithSessionLimit caps the number of due questions served per fetch.
func WithSessionLimit(limit int) Option {
	return func(s *Service) {
		s.sessionLimit = limit
	}
}

// WithQuestionType restricts due sets to one question type.
func WithQuestionType(t question.Type) Option {
	return func(s *Service) {
		s.typeFilter = t
	}
}

// NewService creates a Service.
func NewService(records Repository, questions question.Repository, evaluator *answer.Evaluator, opts ...Option) *Service {
	s := &Service{
		records:   records,
		questions: questions,
		evaluator: evaluator,
		now:       time.Now,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SubmitResult is the outcome of one answer submission.
type SubmitResult struct {
	Correct bool
	Quality int
	Record  Record
}

// SubmitAnswer grades a submission and advances the learner's review
// state for the question. The state update runs as a serialized
// read-modify-write, creating the default record on first contact.
func (s *Service) SubmitAnswer(ctx context.Context, userID string, questionID int64, sub answer.Submission) (*SubmitResult, error) {
	q, err := s.questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("questions.FindByID(%d) > %w", questionID, err)
	}
	if q == nil {
		return nil, fmt.Errorf("question %d: %w", questionID, ErrQuestionNotFound)
	}

	correct, err := s.evaluator.Evaluate(*q, sub)
	if err != nil {
		return nil, fmt.Errorf("evaluate answer for question %d > %w", questionID, err)
	}
	quality := srs.CorrectnessToQuality(correct, false)

	record, err := s.records.SaveReview(ctx, userID, questionID, func(prior Record) srs.Review {
		return srs.ComputeNextReview(quality, prior.EaseFactor, prior.IntervalDays, prior.Repetitions, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("records.SaveReview(%s, %d) > %w", userID, questionID, err)
	}

	return &SubmitResult{
		Correct: correct,
		Quality: quality,
		Record:  *record,
	}, nil
}

// DueQuestion pairs a due record with its question content.
type DueQuestion struct {
	Question question.Question
	Record   Record
}

// DueQuestions returns the learner's current due set. The type filter and
// the session limit apply while the set is still in priority order, so a
// capped session keeps the most overdue records; only the final selection
// is shuffled for presentation variety. The caller serves items from this
// snapshot one at a time, removing each as it is answered; a fresh call
// re-selects and re-shuffles.
func (s *Service) DueQuestions(ctx context.Context, userID string) ([]DueQuestion, error) {
	records, err := s.records.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("records.FindAllByUser(%s) > %w", userID, err)
	}

	due := Due(records, s.now())
	if len(due) == 0 {
		return nil, nil
	}

	ids := make([]int64, len(due))
	for i, r := range due {
		ids[i] = r.QuestionID
	}
	questions, err := s.questions.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("questions.FindByIDs > %w", err)
	}

	byID := make(map[int64]question.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	eligible := make([]Record, 0, len(due))
	for _, r := range due {
		q, ok := byID[r.QuestionID]
		if !ok {
			// The question was deleted between the record fetch and the
			// join; its records disappear with it.
			continue
		}
		if s.typeFilter != "" && q.Type != s.typeFilter {
			continue
		}
		eligible = append(eligible, r)
	}
	if s.sessionLimit > 0 && len(eligible) > s.sessionLimit {
		eligible = eligible[:s.sessionLimit]
	}

	s.rngMu.Lock()
	Shuffle(eligible, s.rng)
	s.rngMu.Unlock()

	result := make([]DueQuestion, 0, len(eligible))
	for _, r := range eligible {
		result = append(result, DueQuestion{Question: byID[r.QuestionID], Record: r})
	}
	return result, nil
}

// ResetQuestionProgress wipes all learner progress for a question. Called
// when the question is deleted or its content substantively edited.
func (s *Service) ResetQuestionProgress(ctx context.Context, questionID int64) error {
	if err := s.records.DeleteByQuestion(ctx, questionID); err != nil {
		return fmt.Errorf("records.DeleteByQuestion(%d) > %w", questionID, err)
	}
	return nil
}

// ResetUserProgress wipes a learner's progress. Called on account
// deletion.
func (s *Service) ResetUserProgress(ctx context.Context, userID string) error {
	if err := s.records.DeleteByUser(ctx, userID); err != nil {
		return fmt.Errorf("records.DeleteByUser(%s) > %w", userID, err)
	}
	return nil
}
