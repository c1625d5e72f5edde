// Package token defines the unit of text carried through the normalization pipeline.
package token

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/language"
)

// ErrInvalidToken indicates a token whose lemma or offsets break the token invariants.
var ErrInvalidToken = errors.New("token: invalid token")

// Kind classifies a token.
type Kind uint8

const (
	// Unknown is the zero Kind.
	Unknown Kind = iota
	// Word is a run of letters, digits or symbols.
	Word
	// Separator is white space or punctuation between words.
	Separator
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case Word:
		return "word"
	case Separator:
		return "separator"
	default:
		return "unknown"
	}
}

// Token is one segmented unit of the original input.
//
// Offsets are positions in the original input. CharEnd and ByteEnd are cumulative:
// they always equal the start plus the rune count and byte length of Lemma. Tokens are
// values; stages hand a new Token downstream instead of mutating the one they received.
type Token struct {
	Lemma     string
	CharStart int
	CharEnd   int
	ByteStart int
	ByteEnd   int
	Script    Script
	Language  language.Tag
	Kind      Kind
}

// New returns a Word token whose end offsets are derived from lemma.
func New(lemma string, charStart, byteStart int, script Script, lang language.Tag) Token {
	return Token{
		Lemma:     lemma,
		CharStart: charStart,
		ByteStart: byteStart,
		Script:    script,
		Language:  lang,
		Kind:      Word,
	}.WithLemma(lemma)
}

// WithLemma returns a copy of t carrying lemma, with CharEnd and ByteEnd recomputed.
// It is the only way stages should change a lemma.
func (t Token) WithLemma(lemma string) Token {
	t.Lemma = lemma
	t.CharEnd = t.CharStart + utf8.RuneCountInString(lemma)
	t.ByteEnd = t.ByteStart + len(lemma)
	return t
}

// CharLen returns the number of characters the token spans.
func (t Token) CharLen() int { return t.CharEnd - t.CharStart }

// ByteLen returns the number of bytes the token spans.
func (t Token) ByteLen() int { return t.ByteEnd - t.ByteStart }

// Validate reports whether t satisfies the token invariants.
func (t Token) Validate() error {
	if !utf8.ValidString(t.Lemma) {
		return fmt.Errorf("%w: lemma %q is not valid UTF-8", ErrInvalidToken, t.Lemma)
	}
	if t.CharStart < 0 || t.ByteStart < t.CharStart {
		return fmt.Errorf("%w: start offsets char=%d byte=%d", ErrInvalidToken, t.CharStart, t.ByteStart)
	}
	if n := utf8.RuneCountInString(t.Lemma); t.CharLen() != n {
		return fmt.Errorf("%w: char span %d does not match %d characters", ErrInvalidToken, t.CharLen(), n)
	}
	if t.ByteLen() != len(t.Lemma) {
		return fmt.Errorf("%w: byte span %d does not match %d bytes", ErrInvalidToken, t.ByteLen(), len(t.Lemma))
	}
	return nil
}

// IsASCII reports whether the lemma contains only ASCII bytes.
func (t Token) IsASCII() bool {
	for i := 0; i < len(t.Lemma); i++ {
		if t.Lemma[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
