package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "atelierctl",
	Short: "Atelier Créatif maintenance tool",
	Long:  "atelierctl — inspect the usage ledger, preview prompts and render PDFs outside the web app.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("ledger", "", "Path to the usage CSV ledger (overrides USAGE_LOG_PATH env var)")

	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(migrateCmd)
}

// resolveLedgerPath returns the ledger path using --ledger (highest priority),
// then USAGE_LOG_PATH, then the default file name.
func resolveLedgerPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("ledger"); p != "" {
		return p
	}
	if p := os.Getenv("USAGE_LOG_PATH"); p != "" {
		return p
	}
	return "usage_log.csv"
}
