package normalizer

import (
	"iter"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/jamesainslie/go-lemma/token"
)

// decomposableScript reports whether compatibility decomposition is applied to
// tokens of script s.
func decomposableScript(s token.Script) bool {
	switch s {
	case token.Latin, token.Cyrillic, token.Greek, token.Georgian:
		return true
	default:
		return false
	}
}

// CompatibilityDecomposition returns the rune-wise NFKD stage.
//
// The gate short-circuits cheapest first: script allow-list, then an ASCII scan,
// then a full NFKD check of the lemma.
func CompatibilityDecomposition() Normalizer {
	return FromChar(compatibilityDecomposition{})
}

type compatibilityDecomposition struct{}

func (compatibilityDecomposition) ShouldNormalize(tok token.Token) bool {
	return decomposableScript(tok.Script) &&
		!tok.IsASCII() &&
		!norm.NFKD.IsNormalString(tok.Lemma)
}

func (compatibilityDecomposition) AppliesTo(script token.Script, _ language.Tag) bool {
	return decomposableScript(script)
}

func (compatibilityDecomposition) NormalizeRune(r rune) (string, bool) {
	if !NeedsDecomposition(QuickCheckRune(r)) {
		return string(r), true
	}
	return norm.NFKD.String(string(r)), true
}

// Finalize restores canonical order of combining marks that came from
// different runes.
func (compatibilityDecomposition) Finalize(lemma string) string {
	if !NeedsDecomposition(QuickCheck(lemma)) {
		return lemma
	}
	return norm.NFKD.String(lemma)
}

// TokenDecomposition returns the whole-lemma NFKD stage. Its gate depends only
// on the script label.
func TokenDecomposition() Normalizer {
	return tokenDecomposition{}
}

type tokenDecomposition struct{}

func (tokenDecomposition) AppliesTo(script token.Script, _ language.Tag) bool {
	return decomposableScript(script)
}

func (d tokenDecomposition) ShouldNormalize(tok token.Token) bool {
	return d.AppliesTo(tok.Script, tok.Language)
}

func (tokenDecomposition) Normalize(tok token.Token) iter.Seq[token.Token] {
	if !NeedsDecomposition(QuickCheck(tok.Lemma)) {
		return single(tok)
	}
	return single(tok.WithLemma(norm.NFKD.String(tok.Lemma)))
}
