package validation

import (
	"html"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Limits on submitted form values.
const (
	MaxAuthorLength = 80
	MaxAnswerLength = 500
	MaxAnswers      = 5
)

// NormalizeAuthor collapses whitespace in an author name.
func NormalizeAuthor(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// ValidateAuthor checks an author name. An empty name is allowed; the caller
// decides whether it needs one.
func ValidateAuthor(name string) (bool, string) {
	name = NormalizeAuthor(name)
	if utf8.RuneCountInString(name) > MaxAuthorLength {
		return false, "Le nom est trop long."
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false, "Le nom contient des caractères invalides."
		}
	}
	return true, ""
}

// ValidateAnswers checks the number and length of questionnaire answers.
func ValidateAnswers(answers []string) (bool, string) {
	if len(answers) > MaxAnswers {
		return false, "Trop de réponses."
	}
	for _, a := range answers {
		if utf8.RuneCountInString(a) > MaxAnswerLength {
			return false, "Une réponse est trop longue."
		}
	}
	return true, ""
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
// Used for provider base URLs and OIDC settings.
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

var strict = bluemonday.StrictPolicy()

// SanitizeText strips any markup from model output and returns plain text.
// Entities produced by the sanitizer are decoded again so the text can be
// escaped once by templates and drawn verbatim in PDFs.
func SanitizeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	clean := html.UnescapeString(strict.Sanitize(s))
	return strings.TrimSpace(clean)
}
