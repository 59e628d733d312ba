package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
)

func newResetCommand() *cobra.Command {
	var userID string
	command := &cobra.Command{
		Use:   "reset",
		Short: "Delete all review progress of a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" {
				return fmt.Errorf("--user is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer db.Close()

			reviews := review.NewService(
				review.NewDBRepository(db),
				question.NewDBRepository(db),
				answer.NewEvaluator(cfg.Review.FuzzyMatchThreshold),
			)
			if err := reviews.ResetUserProgress(cmd.Context(), userID); err != nil {
				return fmt.Errorf("reviews.ResetUserProgress(%s) > %w", userID, err)
			}
			fmt.Printf("Deleted all review progress of %s.\n", userID)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "", "learner ID to reset")
	return command
}
