package normalizer

import (
	"iter"
	"unicode"
	"unicode/utf8"

	"github.com/jamesainslie/go-lemma/token"
)

// SeparatorSplit returns a stage splitting a word token on white space, for
// example after decomposition turned a no-break space into a plain one.
// It yields alternating Word and Separator tokens covering the original span.
func SeparatorSplit() Normalizer {
	return separatorSplit{}
}

type separatorSplit struct{}

func (separatorSplit) ShouldNormalize(tok token.Token) bool {
	if tok.Kind == token.Separator {
		return false
	}
	for _, r := range tok.Lemma {
		if unicode.IsSpace(r) {
			return true
		}
	}
	return false
}

func (separatorSplit) Normalize(tok token.Token) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		charPos, bytePos := tok.CharStart, tok.ByteStart
		lemma := tok.Lemma

		for len(lemma) > 0 {
			r, _ := utf8.DecodeRuneInString(lemma)
			space := unicode.IsSpace(r)

			// Extend the run while runes agree on being white space.
			n := 0
			for n < len(lemma) {
				r, size := utf8.DecodeRuneInString(lemma[n:])
				if unicode.IsSpace(r) != space {
					break
				}
				n += size
			}

			part := tok
			part.CharStart, part.ByteStart = charPos, bytePos
			part = part.WithLemma(lemma[:n])
			if space {
				part.Kind = token.Separator
			} else if tok.Kind == token.Unknown {
				part.Kind = token.Word
			}

			if !yield(part) {
				return
			}
			charPos, bytePos = part.CharEnd, part.ByteEnd
			lemma = lemma[n:]
		}
	}
}
