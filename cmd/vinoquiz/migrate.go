package main

import (
	"fmt"
	"io/fs"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sgellert/vinoquiz/internal/database"
	"github.com/sgellert/vinoquiz/schemas"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
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

			names, err := fs.Glob(schemas.Migrations, "migrations/*.sql")
			if err != nil {
				return fmt.Errorf("fs.Glob(migrations) > %w", err)
			}
			sort.Strings(names)

			for _, name := range names {
				statements, err := fs.ReadFile(schemas.Migrations, name)
				if err != nil {
					return fmt.Errorf("fs.ReadFile(%s) > %w", name, err)
				}
				if _, err := db.ExecContext(cmd.Context(), string(statements)); err != nil {
					return fmt.Errorf("db.ExecContext(%s) > %w", name, err)
				}
				fmt.Printf("Applied %s\n", name)
			}
			return nil
		},
	}
}
