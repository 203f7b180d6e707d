package content

import (
	"strings"
	"unicode"
)

// MaxAnswerLength caps free-text answers, in runes.
const MaxAnswerLength = 500

// Sanitize trims free-text input, drops control characters and caps its length.
func Sanitize(s string) string {
	s = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) > MaxAnswerLength {
		s = strings.TrimSpace(string(runes[:MaxAnswerLength]))
	}
	return s
}
