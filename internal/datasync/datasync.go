// Package datasync provides import orchestration between question set
// files and the database.
package datasync

import (
	"context"
	"fmt"
	"io"

	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
)

// ImportResult tracks counts for one import run.
type ImportResult struct {
	New           int
	Skipped       int
	Updated       int
	ProgressWipes int
}

// ImportOptions controls import behavior.
type ImportOptions struct {
	DryRun bool
}

// Importer reads question set files and writes to the database.
// A substantive edit to an existing question wipes all learner progress
// for it; a prompt-and-payload match is left untouched.
type Importer struct {
	questionRepo question.Repository
	reviewRepo   review.Repository
	writer       io.Writer
}

// NewImporter creates a new Importer.
func NewImporter(questionRepo question.Repository, reviewRepo review.Repository, writer io.Writer) *Importer {
	return &Importer{
		questionRepo: questionRepo,
		reviewRepo:   reviewRepo,
		writer:       writer,
	}
}

// ImportSets imports every question of every set, matching existing rows
// by prompt.
func (imp *Importer) ImportSets(ctx context.Context, sets map[string]*question.Set, opts ImportOptions) (*ImportResult, error) {
	existing, err := imp.questionRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("questionRepo.FindAll() > %w", err)
	}
	byPrompt := make(map[string]question.Question, len(existing))
	for _, q := range existing {
		byPrompt[q.Prompt] = q
	}

	var result ImportResult
	for name, set := range sets {
		fmt.Fprintf(imp.writer, "Importing set %q (%d questions)\n", name, len(set.Questions))
		for _, q := range set.Questions {
			if err := imp.importQuestion(ctx, q, byPrompt, opts, &result); err != nil {
				return nil, fmt.Errorf("importQuestion(%q) > %w", q.Prompt, err)
			}
		}
	}
	return &result, nil
}

func (imp *Importer) importQuestion(ctx context.Context, q question.Question, byPrompt map[string]question.Question, opts ImportOptions, result *ImportResult) error {
	current, ok := byPrompt[q.Prompt]
	if !ok {
		if !opts.DryRun {
			if err := imp.questionRepo.Create(ctx, &q); err != nil {
				return fmt.Errorf("questionRepo.Create() > %w", err)
			}
		}
		// Register the prompt so a later occurrence in this run matches
		// it instead of creating a duplicate row.
		byPrompt[q.Prompt] = q
		fmt.Fprintf(imp.writer, "  [NEW]     %q\n", q.Prompt)
		result.New++
		return nil
	}

	q.ID = current.ID
	if !question.ContentChanged(current, q) {
		fmt.Fprintf(imp.writer, "  [SKIP]    %q\n", q.Prompt)
		result.Skipped++
		return nil
	}

	if !opts.DryRun {
		if err := imp.questionRepo.Update(ctx, &q); err != nil {
			return fmt.Errorf("questionRepo.Update() > %w", err)
		}
		if err := imp.reviewRepo.DeleteByQuestion(ctx, current.ID); err != nil {
			return fmt.Errorf("reviewRepo.DeleteByQuestion(%d) > %w", current.ID, err)
		}
	}
	byPrompt[q.Prompt] = q
	fmt.Fprintf(imp.writer, "  [UPDATE]  %q (learner progress reset)\n", q.Prompt)
	result.Updated++
	result.ProgressWipes++
	return nil
}
