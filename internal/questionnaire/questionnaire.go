// Package questionnaire holds the questions asked for each activity and the
// suggestions offered next to them.
package questionnaire

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"atelier/internal/models"
)

// FallbackLanguage is used when a language has no questionnaire of its own.
const FallbackLanguage = models.LangFR

// Question is one prompt of a questionnaire with optional ready-made answers.
type Question struct {
	Prompt      string   `yaml:"q" json:"q"`
	Suggestions []string `yaml:"sug,omitempty" json:"sug,omitempty"`
}

// Pack maps each activity to its ordered list of questions.
type Pack map[models.Activity][]Question

// Catalog resolves questionnaires by language and activity.
type Catalog struct {
	packs map[models.Language]Pack
}

// Default returns a catalog containing the built-in packs only.
func Default() *Catalog {
	c := &Catalog{packs: make(map[models.Language]Pack, len(builtinPacks))}
	for lang, pack := range builtinPacks {
		c.packs[lang] = clonePack(pack)
	}
	return c
}

// Questions returns the questionnaire for an activity in the given language,
// falling back to the French questionnaire when the language has none.
func (c *Catalog) Questions(lang models.Language, activity models.Activity) []Question {
	if pack, ok := c.packs[lang]; ok {
		if qs, ok := pack[activity]; ok && len(qs) > 0 {
			return qs
		}
	}
	return c.packs[FallbackLanguage][activity]
}

// Languages returns the languages that have a questionnaire of their own.
func (c *Catalog) Languages() []models.Language {
	var langs []models.Language
	for _, l := range models.Languages {
		if _, ok := c.packs[l]; ok {
			langs = append(langs, l)
		}
	}
	return langs
}

// overlayFile is the structure of the optional questionnaire YAML file:
//
//	FR:
//	  poem:
//	    - q: "Sujet ?"
//	      sug: ["Pluie", "Mer"]
type overlayFile map[string]map[string][]Question

// LoadOverlay reads a YAML file and replaces or adds the questionnaires it
// defines. A missing file is not an error.
func (c *Catalog) LoadOverlay(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read questionnaire file: %w", err)
	}
	return c.applyOverlay(data)
}

func (c *Catalog) applyOverlay(data []byte) error {
	var overlay overlayFile
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parse questionnaire file: %w", err)
	}

	for rawLang, activities := range overlay {
		lang, err := models.ParseLanguage(rawLang)
		if err != nil {
			return err
		}
		pack, ok := c.packs[lang]
		if !ok {
			pack = make(Pack)
			c.packs[lang] = pack
		}
		for rawActivity, questions := range activities {
			activity, err := models.ParseActivity(rawActivity)
			if err != nil {
				return err
			}
			for i, q := range questions {
				if strings.TrimSpace(q.Prompt) == "" {
					return fmt.Errorf("%s/%s: question %d has no prompt", lang, activity, i+1)
				}
			}
			pack[activity] = questions
		}
	}
	return nil
}

// ResolveAnswers merges typed answers with chosen suggestions. A chosen
// suggestion replaces the typed text of the same question. The result has
// exactly n entries.
func ResolveAnswers(n int, typed, suggested []string) []string {
	answers := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(typed) {
			answers[i] = strings.TrimSpace(typed[i])
		}
		if i < len(suggested) {
			if s := strings.TrimSpace(suggested[i]); s != "" {
				answers[i] = s
			}
		}
	}
	return answers
}

func clonePack(p Pack) Pack {
	out := make(Pack, len(p))
	for a, qs := range p {
		out[a] = append([]Question(nil), qs...)
	}
	return out
}
