package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"atelier/internal/models"
	"atelier/internal/prompt"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [answers...]",
	Short: "Show the prompt sent to the model for the given answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := promptInput(cmd, args)
		if err != nil {
			return err
		}

		req := prompt.NewRequest(in)
		fmt.Printf("System:      %s\n", req.System)
		fmt.Printf("Temperature: %.1f\n", req.Temperature)
		fmt.Printf("Max tokens:  %d\n\n", req.MaxTokens)
		fmt.Println(req.Messages[0].Content)
		return nil
	},
}

func init() {
	addActivityFlags(promptCmd)
}

func addActivityFlags(cmd *cobra.Command) {
	cmd.Flags().String("lang", string(models.LangFR), "Language code (FR, EN, ES, DE, IT)")
	cmd.Flags().String("activity", string(models.ActivityStory), "Activity code or label")
}

func promptInput(cmd *cobra.Command, answers []string) (prompt.Input, error) {
	langFlag, _ := cmd.Flags().GetString("lang")
	activityFlag, _ := cmd.Flags().GetString("activity")

	lang, err := models.ParseLanguage(langFlag)
	if err != nil {
		return prompt.Input{}, err
	}
	activity, err := models.ParseActivity(activityFlag)
	if err != nil {
		return prompt.Input{}, err
	}
	return prompt.Input{Language: lang, Activity: activity, Answers: answers}, nil
}
