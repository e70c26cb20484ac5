package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"atelier/internal/document"
	"atelier/internal/models"
	"atelier/internal/validation"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a text file as an Atelier PDF",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, _ := cmd.Flags().GetString("in")
		out, _ := cmd.Flags().GetString("out")
		title, _ := cmd.Flags().GetString("title")
		author, _ := cmd.Flags().GetString("author")
		langFlag, _ := cmd.Flags().GetString("lang")
		activityFlag, _ := cmd.Flags().GetString("activity")

		var data []byte
		var err error
		if in == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(in)
		}
		if err != nil {
			return fmt.Errorf("read %s: %w", in, err)
		}

		doc := document.Document{
			Title:  title,
			Author: validation.NormalizeAuthor(author),
			Body:   validation.SanitizeText(string(data)),
		}
		if activityFlag != "" {
			activity, err := models.ParseActivity(activityFlag)
			if err != nil {
				return err
			}
			lang, err := models.ParseLanguage(langFlag)
			if err != nil {
				return err
			}
			doc.Subtitle = activity.Label(lang)
		}

		var buf bytes.Buffer
		pages, err := document.NewRenderer().Render(context.Background(), doc, &buf)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("Wrote %s (%d pages)\n", out, pages)
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.pdf>",
	Short: "Validate a PDF and print its page count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		pages, err := document.Inspect(data)
		if err != nil {
			return fmt.Errorf("invalid pdf: %w", err)
		}
		fmt.Printf("%s: valid, %d pages\n", args[0], pages)
		return nil
	},
}

func init() {
	renderCmd.Flags().String("in", "-", "Text file to render, - for stdin")
	renderCmd.Flags().String("out", document.FileName, "Output PDF path")
	renderCmd.Flags().String("title", "", "Document title")
	renderCmd.Flags().String("author", "", "Author printed on the cover")
	renderCmd.Flags().String("lang", string(models.LangFR), "Language of the activity label")
	renderCmd.Flags().String("activity", "", "Activity code or label printed under the title")
}
