// Package tokenizer segments raw text into labelled tokens ready for normalization.
//
// Word boundaries follow Unicode UAX #29. Each token carries the script of its
// first script-bearing rune; tokens without one (digits, symbols) take the
// dominant script of the text.
package tokenizer

import (
	"iter"
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/token"
)

// Tokenizer splits text into word and separator tokens.
// It is safe for concurrent use.
type Tokenizer struct {
	lang language.Tag
}

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithLanguage labels every token with lang (default: language.Und).
func WithLanguage(lang language.Tag) Option {
	return func(t *Tokenizer) {
		t.lang = lang
	}
}

// New returns a Tokenizer.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{lang: language.Und}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Language returns the language tokens are labelled with.
func (t *Tokenizer) Language() language.Tag {
	return t.lang
}

// Encode returns the tokens of text, in order. Concatenating their lemmas
// yields text.
func (t *Tokenizer) Encode(text string) []token.Token {
	if text == "" {
		return nil
	}
	return slices.Collect(t.All(text))
}

// All yields the tokens of text lazily.
func (t *Tokenizer) All(text string) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		dominant := token.DetectScript(text)
		charPos, bytePos := 0, 0
		state := -1
		rest := text

		for len(rest) > 0 {
			var word string
			word, rest, state = uniseg.FirstWordInString(rest, state)

			script := token.DetectScript(word)
			if script == token.ScriptUnknown {
				script = dominant
			}

			tok := token.New(word, charPos, bytePos, script, t.lang)
			tok.Kind = kindOf(word)

			if !yield(tok) {
				return
			}
			charPos, bytePos = tok.CharEnd, tok.ByteEnd
		}
	}
}

// kindOf classifies a segment by its first rune.
func kindOf(word string) token.Kind {
	r, _ := utf8.DecodeRuneInString(word)
	switch {
	case unicode.IsSpace(r), unicode.IsPunct(r), unicode.IsControl(r):
		return token.Separator
	default:
		return token.Word
	}
}
