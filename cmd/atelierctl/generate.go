package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/generation"
	"atelier/internal/llm"
	"atelier/internal/metrics"
	"atelier/internal/quota"
	"atelier/internal/usage"
)

var generateCmd = &cobra.Command{
	Use:   "generate [answers...]",
	Short: "Generate a text from the command line, counted against the author's attempts",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		author, _ := cmd.Flags().GetString("author")
		out, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")
		ctx := context.Background()

		in, err := promptInput(cmd, args)
		if err != nil {
			return err
		}

		llmCfg := llm.ConfigFromEnv()
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		provider, err := llm.NewProvider(ctx, llmCfg, metrics.Recorder{}, logger)
		if err != nil {
			return fmt.Errorf("initialize provider: %w", err)
		}

		ledger := usage.NewCSVLedger(resolveLedgerPath(cmd))
		records, err := ledger.All(ctx)
		if err != nil {
			return fmt.Errorf("read ledger: %w", err)
		}
		tracker := quota.NewTracker(limit, nil)
		if err := tracker.Seed(ctx, usage.MaxAttempts(records)); err != nil {
			return err
		}

		svc := generation.NewService(provider, tracker, ledger)
		svc.Logger = logger
		svc.Timeout = llmCfg.Timeout

		g, err := svc.Generate(ctx, generation.Request{
			User:     author,
			Author:   author,
			Language: in.Language,
			Activity: in.Activity,
			Answers:  in.Answers,
		})
		if err != nil {
			return fmt.Errorf("%s (%w)", generation.Message(err), err)
		}

		fmt.Println(g.Text)
		fmt.Fprintf(os.Stderr, "\nAttempt %d/%d · model %s\n", g.Attempts, tracker.Limit, g.Model)

		if out == "" {
			return nil
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		defer f.Close()

		pages, err := svc.RenderPDF(ctx, g, f)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Wrote %s (%d pages)\n", out, pages)
		return nil
	},
}

func init() {
	addActivityFlags(generateCmd)
	generateCmd.Flags().String("author", "", "Name the attempt is counted against")
	generateCmd.Flags().String("out", "", "Also write the text as a PDF to this path")
	generateCmd.Flags().Int("limit", quota.DefaultLimit, "Attempts allowed per author")
	_ = generateCmd.MarkFlagRequired("author")
}
