package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var userID string
	command := &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress",
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

			calculator := statistics.NewCalculator(review.NewDBRepository(db))
			progress, err := calculator.Progress(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("calculator.Progress(%s) > %w", userID, err)
			}

			bold := color.New(color.Bold)
			bold.Printf("Progress for %s\n", userID)
			fmt.Printf("  Questions seen:   %d\n", progress.Total)
			color.Green("  Mastered:         %d", progress.Mastered)
			color.Yellow("  Learning:         %d", progress.Learning)
			fmt.Printf("  New:              %d\n", progress.New)
			color.Red("  Due today:        %d", progress.DueToday)
			fmt.Printf("  Due this week:    %d\n", progress.DueThisWeek)
			fmt.Printf("  Average ease:     %.2f\n", progress.AverageEaseFactor)
			fmt.Printf("  Total reviews:    %d\n", progress.TotalRepetitions)
			return nil
		},
	}
	command.Flags().StringVar(&userID, "user", "default", "learner ID to report on")
	return command
}
