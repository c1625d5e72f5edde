package normalizer

import (
	"unicode"

	"github.com/jamesainslie/go-lemma/token"
)

// ControlCharRemoval returns a rune-wise stage dropping control characters (Cc).
// A token made only of control characters is discarded.
func ControlCharRemoval() Normalizer {
	return FromChar(controlChars{})
}

type controlChars struct{}

func (controlChars) ShouldNormalize(tok token.Token) bool {
	for _, r := range tok.Lemma {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func (controlChars) NormalizeRune(r rune) (string, bool) {
	if unicode.IsControl(r) {
		return "", false
	}
	return string(r), true
}
