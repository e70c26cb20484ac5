package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the PostgreSQL migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn, _ := cmd.Flags().GetString("database-url")
		if dsn == "" {
			dsn = os.Getenv("DATABASE_URL")
		}
		if dsn == "" {
			return fmt.Errorf("--database-url or DATABASE_URL is required")
		}

		database, err := db.New(context.Background(), dsn)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer database.Close()

		if err := database.RunMigrations(dsn); err != nil {
			return err
		}
		fmt.Println("Migrations applied.")
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("database-url", "", "PostgreSQL connection string (defaults to DATABASE_URL)")
}
