package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"atelier/internal/db"
	"atelier/internal/models"
	"atelier/internal/usage"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print usage counts per user, language and activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		recent, _ := cmd.Flags().GetInt("recent")
		dsn, _ := cmd.Flags().GetString("database-url")
		ctx := context.Background()

		var ledger usage.Ledger = usage.NewCSVLedger(resolveLedgerPath(cmd))
		if dsn != "" {
			database, err := db.New(ctx, dsn)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer database.Close()
			ledger = database.NewUsageLedger()
		}

		records, err := ledger.All(ctx)
		if err != nil {
			return fmt.Errorf("read ledger: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No generations recorded.")
			return nil
		}

		s := usage.Summarize(records, recent)
		fmt.Printf("%d generations by %d users\n", s.Total, s.Users)
		printCounts("User", s.ByUser)
		printCounts("Language", s.ByLanguage)
		printCounts("Activity", s.ByActivity)

		fmt.Println()
		fmt.Printf("%-19s  %-24s  %-4s  %-8s  %s\n", "Timestamp", "User", "Lang", "Activity", "Attempt")
		fmt.Println(strings.Repeat("─", 70))
		for _, r := range s.Recent {
			fmt.Printf("%-19s  %-24s  %-4s  %-8s  %d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(r.User, 24),
				r.Language,
				r.Activity,
				r.Attempts,
			)
		}
		return nil
	},
}

func init() {
	summaryCmd.Flags().Int("recent", usage.DefaultRecent, "Number of recent generations to list")
	summaryCmd.Flags().String("database-url", "", "Read the ledger from PostgreSQL instead of the CSV file")
}

func printCounts(title string, counts []models.CountEntry) {
	fmt.Println()
	fmt.Printf("%-24s  %s\n", title, "Count")
	fmt.Println(strings.Repeat("─", 32))
	for _, c := range counts {
		fmt.Printf("%-24s  %d\n", truncate(c.Key, 24), c.Count)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}
