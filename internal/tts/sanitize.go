package tts

import (
	"strings"
	"unicode"
)

// allowedPunctuation covers the sentence marks the upstream voice handles,
// including the Urdu question mark and comma.
const allowedPunctuation = ".,؟?!،"

// Sanitize strips characters the synthesizer cannot voice: everything except
// letters, digits, whitespace and basic punctuation.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) ||
			strings.ContainsRune(allowedPunctuation, r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
