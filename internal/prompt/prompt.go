// Package prompt turns a teacher's answers into a model request.
package prompt

import (
	"fmt"
	"strings"

	"atelier/internal/llm"
	"atelier/internal/models"
)

// Fixed sampling parameters.
const (
	SystemPrompt = "Tu es un assistant créatif pour les enfants."
	Temperature  = 0.9
	MaxTokens    = 700
)

const audienceLine = "Crée un texte pour des enfants de 6 à 14 ans. Style positif, adapté et créatif.\n"

// Input is what the teacher filled in.
type Input struct {
	Language models.Language
	Activity models.Activity
	Answers  []string
}

// HasAnswer reports whether at least one answer is not blank.
func HasAnswer(answers []string) bool {
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

// Build renders the user prompt. Blank answers are skipped but keep their
// position, so "Q3" always refers to the third question.
func Build(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Langue : %s. Activité : %s. ", in.Language, in.Activity.Label(models.LangFR))
	b.WriteString(audienceLine)
	for i, a := range in.Answers {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		fmt.Fprintf(&b, "Q%d: %s\n", i+1, a)
	}
	return b.String()
}

// NewRequest wraps the prompt into a model request with the fixed system
// message and sampling parameters.
func NewRequest(in Input) llm.Request {
	return llm.Request{
		System:      SystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: Build(in)}},
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}
}
