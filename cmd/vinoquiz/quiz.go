package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/cli"
	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/statistics"
)

// QuestionType is a flag value restricting a session to one question type.
type QuestionType string

func (t *QuestionType) Set(val string) error {
	for _, known := range allQuestionTypes {
		if val == string(known) {
			*t = QuestionType(known)
			return nil
		}
	}
	return fmt.Errorf("invalid question type: %s", val)
}

func (t QuestionType) String() string {
	return string(t)
}

func (t *QuestionType) Type() string {
	return "QuestionType"
}

var _ pflag.Value = (*QuestionType)(nil)

var allQuestionTypes = []question.Type{
	question.TypeSingleChoice,
	question.TypeMultiSelect,
	question.TypeFreeText,
	question.TypeMapClick,
	question.TypeMapToText,
}

func newQuizCommand() *cobra.Command {
	var userID string
	var questionType QuestionType
	command := &cobra.Command{
		Use:   "quiz",
		Short: "Review due questions interactively in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer db.Close()

			recordRepo := review.NewDBRepository(db)
			reviews := review.NewService(
				recordRepo,
				question.NewDBRepository(db),
				answer.NewEvaluator(cfg.Review.FuzzyMatchThreshold),
				review.WithSessionLimit(cfg.Review.SessionLimit),
				review.WithQuestionType(question.Type(questionType)),
			)
			session := cli.NewQuizSession(userID, reviews, statistics.NewCalculator(recordRepo), os.Stdin, os.Stdout)
			return session.Run(cmd.Context())
		},
	}
	command.Flags().StringVar(&userID, "user", "default", "learner ID to review as")
	command.Flags().Var(&questionType, "type", fmt.Sprintf("Limit the session to one question type. Possible values are %v", allQuestionTypes))
	return command
}
