package models

import (
	"fmt"
	"strings"
)

// Language is the language the generated text is written in.
type Language string

// Supported languages
const (
	LangFR Language = "FR"
	LangEN Language = "EN"
	LangES Language = "ES"
	LangDE Language = "DE"
	LangIT Language = "IT"
)

// Languages lists the supported languages in display order.
var Languages = []Language{LangFR, LangEN, LangES, LangDE, LangIT}

// ParseLanguage parses a language code case-insensitively.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Languages {
		if l == known {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown language %q", s)
}

var languageNames = map[Language]string{
	LangFR: "Français",
	LangEN: "English",
	LangES: "Español",
	LangDE: "Deutsch",
	LangIT: "Italiano",
}

// Name returns the language's name in that language.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return string(l)
}
