// Package normalizer implements the token normalization stages and the pipeline that
// chains them.
//
// A stage is a Normalizer: a gate deciding whether the stage applies to a token, and a
// transform producing the replacement tokens. Stages that work one rune at a time
// implement CharNormalizer and are lifted with FromChar, which owns the concatenation
// and offset bookkeeping.
package normalizer

import (
	"iter"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/token"
)

// Normalizer is one pipeline stage.
type Normalizer interface {
	// ShouldNormalize reports whether the stage applies to tok.
	ShouldNormalize(tok token.Token) bool
	// Normalize returns the tokens replacing tok. The sequence is finite.
	Normalize(tok token.Token) iter.Seq[token.Token]
}

// ScriptGate is implemented by stages whose applicability depends only on the
// script and language labels, so an assembly step can query it without a token.
type ScriptGate interface {
	AppliesTo(script token.Script, lang language.Tag) bool
}

// CharNormalizer transforms a token one rune at a time.
type CharNormalizer interface {
	ShouldNormalize(tok token.Token) bool
	// NormalizeRune returns the fragment replacing r. keep=false drops r.
	NormalizeRune(r rune) (fragment string, keep bool)
}

// Finalizer may be implemented by a CharNormalizer to post-process the
// concatenated lemma once per token.
type Finalizer interface {
	Finalize(lemma string) string
}

// FromChar lifts a CharNormalizer into a Normalizer.
//
// The resulting stage emits exactly one token per input, unless every rune of a
// non-empty lemma was dropped, in which case the token is discarded.
func FromChar(c CharNormalizer) Normalizer {
	return &charAdapter{char: c}
}

type charAdapter struct {
	char CharNormalizer
}

func (a *charAdapter) ShouldNormalize(tok token.Token) bool {
	return a.char.ShouldNormalize(tok)
}

func (a *charAdapter) Normalize(tok token.Token) iter.Seq[token.Token] {
	lemma := a.normalizeLemma(tok.Lemma)
	if f, ok := a.char.(Finalizer); ok {
		lemma = f.Finalize(lemma)
	}

	switch {
	case lemma == tok.Lemma:
		return single(tok)
	case lemma == "" && tok.Lemma != "":
		return empty
	default:
		return single(tok.WithLemma(lemma))
	}
}

func (a *charAdapter) normalizeLemma(lemma string) string {
	var b strings.Builder
	changed := false

	for i, r := range lemma {
		fragment, keep := a.char.NormalizeRune(r)
		same := keep && len(fragment) == len(string(r)) && strings.HasPrefix(lemma[i:], fragment)
		if !changed {
			if same {
				continue
			}
			// First divergence: copy the untouched prefix.
			changed = true
			b.Grow(len(lemma))
			b.WriteString(lemma[:i])
		}
		if keep {
			b.WriteString(fragment)
		}
	}

	if !changed {
		return lemma
	}
	return b.String()
}

// AppliesTo forwards to the wrapped normalizer when it has a label-only gate.
func (a *charAdapter) AppliesTo(script token.Script, lang language.Tag) bool {
	if g, ok := a.char.(ScriptGate); ok {
		return g.AppliesTo(script, lang)
	}
	return true
}

// Restrict narrows n so it only applies to the given scripts and languages.
// An empty list leaves that dimension unrestricted. Languages match by base language.
func Restrict(n Normalizer, scripts []token.Script, langs []language.Tag) Normalizer {
	if len(scripts) == 0 && len(langs) == 0 {
		return n
	}
	return &restricted{
		inner:   n,
		scripts: slices.Clone(scripts),
		langs:   slices.Clone(langs),
	}
}

type restricted struct {
	inner   Normalizer
	scripts []token.Script
	langs   []language.Tag
}

func (r *restricted) admits(script token.Script, lang language.Tag) bool {
	if len(r.scripts) > 0 && !slices.Contains(r.scripts, script) {
		return false
	}
	if len(r.langs) == 0 {
		return true
	}
	if lang == language.Und {
		return false
	}
	base, _ := lang.Base()
	for _, l := range r.langs {
		if lb, _ := l.Base(); lb == base {
			return true
		}
	}
	return false
}

func (r *restricted) AppliesTo(script token.Script, lang language.Tag) bool {
	if !r.admits(script, lang) {
		return false
	}
	if g, ok := r.inner.(ScriptGate); ok {
		return g.AppliesTo(script, lang)
	}
	return true
}

func (r *restricted) ShouldNormalize(tok token.Token) bool {
	return r.admits(tok.Script, tok.Language) && r.inner.ShouldNormalize(tok)
}

func (r *restricted) Normalize(tok token.Token) iter.Seq[token.Token] {
	return r.inner.Normalize(tok)
}

func single(tok token.Token) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		yield(tok)
	}
}

func empty(func(token.Token) bool) {}
