package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/internal/datasync"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
)

func newQuestionsCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "questions",
		Short: "Question management commands",
	}
	command.AddCommand(newQuestionsImportCommand())
	command.AddCommand(newQuestionsDeleteCommand())
	return command
}

func newQuestionsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a question and all learner progress for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid question ID %q", args[0])
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

			questionRepo := question.NewDBRepository(db)
			q, err := questionRepo.FindByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("questionRepo.FindByID(%d) > %w", id, err)
			}
			if q == nil {
				return fmt.Errorf("question %d does not exist", id)
			}

			reviews := review.NewService(
				review.NewDBRepository(db),
				questionRepo,
				answer.NewEvaluator(cfg.Review.FuzzyMatchThreshold),
			)
			if err := reviews.ResetQuestionProgress(cmd.Context(), id); err != nil {
				return fmt.Errorf("reviews.ResetQuestionProgress(%d) > %w", id, err)
			}
			if err := questionRepo.Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("questionRepo.Delete(%d) > %w", id, err)
			}
			fmt.Printf("Deleted question %d (%q) and its learner progress.\n", id, q.Prompt)
			return nil
		},
	}
}

func newQuestionsImportCommand() *cobra.Command {
	var dryRun bool
	command := &cobra.Command{
		Use:   "import [directory]",
		Short: "Import question set files into the database",
		Long: `Import question set files into the database.

Questions are matched to existing rows by prompt. A question whose
content changed is updated and all learner progress for it is reset.
Without an argument, the configured sets directory is imported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("loadConfig() > %w", err)
			}

			dir := cfg.Questions.SetsDirectory
			if len(args) > 0 {
				dir = args[0]
			}

			sets, err := question.ReadSetDir(dir)
			if err != nil {
				return fmt.Errorf("question.ReadSetDir(%s) > %w", dir, err)
			}
			if len(sets) == 0 {
				return fmt.Errorf("no question set files found under %s", dir)
			}

			db, err := database.Open(cmd.Context(), cfg.Database)
			if err != nil {
				return fmt.Errorf("database.Open() > %w", err)
			}
			defer db.Close()

			importer := datasync.NewImporter(
				question.NewDBRepository(db),
				review.NewDBRepository(db),
				os.Stdout,
			)
			result, err := importer.ImportSets(cmd.Context(), sets, datasync.ImportOptions{DryRun: dryRun})
			if err != nil {
				return fmt.Errorf("importer.ImportSets() > %w", err)
			}

			fmt.Printf("Imported %d new, updated %d, skipped %d.\n", result.New, result.Updated, result.Skipped)
			if result.ProgressWipes > 0 {
				fmt.Printf("Learner progress was reset for %d edited question(s).\n", result.ProgressWipes)
			}
			return nil
		},
	}
	command.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	return command
}
