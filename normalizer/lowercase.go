package normalizer

import (
	"iter"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/token"
)

// Lowercase returns a stage lowercasing tokens of bicameral scripts, using the
// token's language for special casing rules (Turkish dotted i, Greek final sigma).
func Lowercase() Normalizer {
	return lowercase{}
}

type lowercase struct{}

func (lowercase) AppliesTo(script token.Script, _ language.Tag) bool {
	switch script {
	case token.Latin, token.Cyrillic, token.Greek, token.Georgian, token.Armenian:
		return true
	default:
		return false
	}
}

func (l lowercase) ShouldNormalize(tok token.Token) bool {
	if !l.AppliesTo(tok.Script, tok.Language) {
		return false
	}
	for _, r := range tok.Lemma {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return true
		}
	}
	return false
}

func (lowercase) Normalize(tok token.Token) iter.Seq[token.Token] {
	// Casers carry state, so one is built per call.
	lower := cases.Lower(tok.Language).String(tok.Lemma)
	if lower == tok.Lemma {
		return single(tok)
	}
	return single(tok.WithLemma(lower))
}
