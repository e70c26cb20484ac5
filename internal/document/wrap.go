package document

import "strings"

// DefaultWidth is the number of characters per body line.
const DefaultWidth = 90

// Wrap splits text into lines of at most width runes. Each input line is cut
// every width runes, spacing included; empty input lines produce no line.
func Wrap(text string, width int) []string {
	if width <= 0 {
		width = DefaultWidth
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var out []string
	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		for len(r) > width {
			out = append(out, string(r[:width]))
			r = r[width:]
		}
		if len(r) > 0 {
			out = append(out, string(r))
		}
	}
	return out
}
