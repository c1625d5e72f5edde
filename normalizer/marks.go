package normalizer

import (
	"iter"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"

	"github.com/jamesainslie/go-lemma/token"
)

// NonspacingMarkRemoval returns a stage stripping nonspacing marks (Mn) from
// Latin and Greek tokens. It expects decomposed input: a precomposed é has no
// mark to strip.
func NonspacingMarkRemoval() Normalizer {
	return nonspacingMarks{}
}

type nonspacingMarks struct{}

func (nonspacingMarks) AppliesTo(script token.Script, _ language.Tag) bool {
	return script == token.Latin || script == token.Greek
}

func (m nonspacingMarks) ShouldNormalize(tok token.Token) bool {
	if !m.AppliesTo(tok.Script, tok.Language) || tok.IsASCII() {
		return false
	}
	for _, r := range tok.Lemma {
		if unicode.Is(unicode.Mn, r) {
			return true
		}
	}
	return false
}

func (nonspacingMarks) Normalize(tok token.Token) iter.Seq[token.Token] {
	stripped, _, err := transform.String(runes.Remove(runes.In(unicode.Mn)), tok.Lemma)
	if err != nil || stripped == tok.Lemma {
		return single(tok)
	}
	if stripped == "" {
		return empty
	}
	return single(tok.WithLemma(stripped))
}
