package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/sgellert/vinoquiz/internal/answer"
	"github.com/sgellert/vinoquiz/internal/bootstrap"
	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/internal/question"
	"github.com/sgellert/vinoquiz/internal/review"
	"github.com/sgellert/vinoquiz/internal/server"
	"github.com/sgellert/vinoquiz/internal/statistics"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the quiz review HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	app := bootstrap.New()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loadConfig() > %w", err)
	}

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("database.Open() > %w", err)
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		return db.Close()
	})

	reviews := review.NewService(
		review.NewDBRepository(db),
		question.NewDBRepository(db),
		answer.NewEvaluator(cfg.Review.FuzzyMatchThreshold),
		review.WithSessionLimit(cfg.Review.SessionLimit),
	)
	stats := statistics.NewCalculator(review.NewDBRepository(db))
	handler := server.NewQuizHandler(reviews, stats, slog.Default())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.NewRouter(handler),
	}
	app.AddShutdownHook(func(ctx context.Context) error {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return app.Run(ctx, func(ctx context.Context) error {
		slog.Info("starting the server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
}
