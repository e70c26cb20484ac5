package validation

import (
	"strings"
	"testing"
)

func TestValidateAuthor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"empty", "", true},
		{"simple", "Mme Dupont", true},
		{"accents", "Zoé Lefèvre-Gaël", true},
		{"max length", strings.Repeat("a", MaxAuthorLength), true},
		{"too long", strings.Repeat("a", MaxAuthorLength+1), false},
		{"control char", "Jean\x00Paul", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, msg := ValidateAuthor(tt.input)
			if got != tt.want {
				t.Errorf("ValidateAuthor(%q) = %v (%s), want %v", tt.input, got, msg, tt.want)
			}
		})
	}
}

func TestNormalizeAuthor(t *testing.T) {
	if got := NormalizeAuthor("  Jean \t Dupont\n"); got != "Jean Dupont" {
		t.Errorf("NormalizeAuthor() = %q", got)
	}
}

func TestValidateAnswers(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		want    bool
	}{
		{"none", nil, true},
		{"five", []string{"a", "b", "c", "d", "e"}, true},
		{"six", []string{"a", "b", "c", "d", "e", "f"}, false},
		{"long answer", []string{strings.Repeat("é", MaxAnswerLength+1)}, false},
		{"max answer", []string{strings.Repeat("é", MaxAnswerLength)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ValidateAnswers(tt.answers); got != tt.want {
				t.Errorf("ValidateAnswers() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://api.openai.com/v1", true},
		{"http://localhost:11434/v1", true},
		{"", false},
		{"javascript:alert(1)", false},
		{"ftp://example.com", false},
		{"https://", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got, _ := ValidateURL(tt.url); got != tt.want {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Il était une fois.", "Il était une fois."},
		{"keeps punctuation", "Tom & Léa: « 3 < 5 »", "Tom & Léa: « 3 < 5 »"},
		{"strips tags", "<b>Titre</b>\nTexte", "Titre\nTexte"},
		{"drops scripts", "Bonjour<script>alert(1)</script>", "Bonjour"},
		{"keeps paragraphs", "Un.\r\n\r\nDeux.", "Un.\n\nDeux."},
		{"trims", "  \nFin\n ", "Fin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
