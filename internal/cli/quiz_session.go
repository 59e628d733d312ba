// Package cli implements the interactive terminal quiz session.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/statistics"
)

var errEnd = errors.New("end of the session")

// QuizSession runs one terminal review session for a learner.
type QuizSession struct {
	userID     string
	reviews    *review.Service
	statistics *statistics.Calculator

	stdinReader  *bufio.Reader
	stdoutWriter io.Writer
	bold         *color.Color
}

// NewQuizSession creates a QuizSession reading answers from in and
// writing prompts to out.
func NewQuizSession(userID string, reviews *review.Service, stats *statistics.Calculator, in io.Reader, out io.Writer) *QuizSession {
	return &QuizSession{
		userID:       userID,
		reviews:      reviews,
		statistics:   stats,
		stdinReader:  bufio.NewReader(in),
		stdoutWriter: out,
		bold:         color.New(color.Bold),
	}
}

// Run serves every due question once, then prints the progress summary.
// Typing "quit" on any prompt ends the session early.
func (s *QuizSession) Run(ctx context.Context) error {
	due, err := s.reviews.DueQuestions(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("reviews.DueQuestions(%s) > %w", s.userID, err)
	}
	if len(due) == 0 {
		fmt.Fprintln(s.stdoutWriter, "Nothing is due for review. Come back later.")
		return nil
	}

	fmt.Fprintf(s.stdoutWriter, "%d questions due for review.\n\n", len(due))

	for i, dq := range due {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.ask(ctx, i+1, len(due), dq); err != nil {
			if errors.Is(err, errEnd) {
				break
			}
			return err
		}
	}

	return s.printSummary(ctx)
}

func (s *QuizSession) ask(ctx context.Context, index, total int, dq review.DueQuestion) error {
	s.bold.Fprintf(s.stdoutWriter, "[%d/%d] %s\n", index, total, dq.Question.Prompt)

	sub, err := s.readSubmission(dq.Question)
	if err != nil {
		return err
	}

	result, err := s.reviews.SubmitAnswer(ctx, s.userID, dq.Question.ID, *sub)
	if err != nil {
		return fmt.Errorf("reviews.SubmitAnswer(%d) > %w", dq.Question.ID, err)
	}

	if result.Correct {
		color.New(color.FgGreen).Fprintf(s.stdoutWriter, "Correct. Next review in %d day(s).\n\n", result.Record.IntervalDays)
	} else {
		color.New(color.FgRed).Fprintf(s.stdoutWriter, "Wrong. %s\nYou will see this question again tomorrow.\n\n", expectedAnswer(dq.Question))
	}
	return nil
}

// readSubmission prompts for and parses an answer appropriate to the
// question's type. It reprompts on malformed input.
func (s *QuizSession) readSubmission(q question.Question) (*answer.Submission, error) {
	switch q.Type {
	case question.TypeSingleChoice, question.TypeMultiSelect:
		for i, option := range q.Payload.Options {
			fmt.Fprintf(s.stdoutWriter, "  %d. %s\n", i+1, option)
		}
	case question.TypeMapClick:
		fmt.Fprintln(s.stdoutWriter, "  Enter coordinates as longitude,latitude.")
	}

	for {
		fmt.Fprint(s.stdoutWriter, "> ")
		line, err := s.stdinReader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to read an answer > %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "quit" {
			return nil, errEnd
		}
		if line == "" && err != nil {
			return nil, errEnd
		}

		sub, parseErr := parseSubmission(q, line)
		if parseErr != nil {
			fmt.Fprintf(s.stdoutWriter, "%v\n", parseErr)
			continue
		}
		return sub, nil
	}
}

func parseSubmission(q question.Question, line string) (*answer.Submission, error) {
	switch q.Type {
	case question.TypeSingleChoice:
		idx, err := parseOptionNumber(line, len(q.Payload.Options))
		if err != nil {
			return nil, err
		}
		return &answer.Submission{SelectedIndex: idx}, nil
	case question.TypeMultiSelect:
		var indices []int
		for _, part := range strings.Split(line, ",") {
			idx, err := parseOptionNumber(strings.TrimSpace(part), len(q.Payload.Options))
			if err != nil {
				return nil, err
			}
			indices = append(indices, idx)
		}
		return &answer.Submission{SelectedIndices: indices}, nil
	case question.TypeMapClick:
		parts := strings.Split(line, ",")
		if len(parts) != 2 {
			return nil, fmt.Errorf("enter two numbers separated by a comma")
		}
		longitude, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude %q", parts[0])
		}
		latitude, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude %q", parts[1])
		}
		return &answer.Submission{Longitude: longitude, Latitude: latitude}, nil
	case question.TypeFreeText, question.TypeMapToText:
		return &answer.Submission{Text: line}, nil
	default:
		return nil, fmt.Errorf("unknown question type %q", q.Type)
	}
}

// parseOptionNumber converts a 1-based menu number to a 0-based index.
func parseOptionNumber(s string, optionCount int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > optionCount {
		return 0, fmt.Errorf("enter a number between 1 and %d", optionCount)
	}
	return n - 1, nil
}

func expectedAnswer(q question.Question) string {
	switch q.Type {
	case question.TypeSingleChoice:
		return fmt.Sprintf("The answer is %q.", q.Payload.Options[q.Payload.CorrectIndex])
	case question.TypeMultiSelect:
		names := make([]string, 0, len(q.Payload.CorrectIndices))
		for _, idx := range q.Payload.CorrectIndices {
			names = append(names, strconv.Quote(q.Payload.Options[idx]))
		}
		return fmt.Sprintf("The answers are %s.", strings.Join(names, ", "))
	case question.TypeFreeText:
		return fmt.Sprintf("The answer is %q.", q.Payload.AnswerText)
	case question.TypeMapToText:
		return fmt.Sprintf("The answer is %q.", q.Payload.AcceptedNames[0])
	case question.TypeMapClick:
		return "The click was outside the region."
	default:
		return ""
	}
}

func (s *QuizSession) printSummary(ctx context.Context) error {
	progress, err := s.statistics.Progress(ctx, s.userID)
	if err != nil {
		return fmt.Errorf("statistics.Progress(%s) > %w", s.userID, err)
	}

	s.bold.Fprintln(s.stdoutWriter, "Session finished.")
	fmt.Fprintf(s.stdoutWriter, "Mastered %d of %d questions. %d still due today.\n",
		progress.Mastered, progress.Total, progress.DueToday)
	return nil
}
