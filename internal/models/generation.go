package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation is a text produced for a teacher, kept in their session so the
// PDF can be downloaded afterwards.
type Generation struct {
	ID        uuid.UUID `json:"id"`
	User      string    `json:"user"`
	Author    string    `json:"author"`
	Language  Language  `json:"language"`
	Activity  Activity  `json:"activity"`
	Answers   []string  `json:"answers"`
	Text      string    `json:"text"`
	Model     string    `json:"model"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityLabel returns the activity label in the generation's language.
func (g *Generation) ActivityLabel() string {
	return g.Activity.Label(g.Language)
}
