package normalizer

import (
	"iter"
	"slices"

	"github.com/jamesainslie/go-lemma/token"
)

// Pipeline applies an ordered list of stages to each token.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	stages []Normalizer
}

// NewPipeline returns a pipeline running stages in the given order.
func NewPipeline(stages ...Normalizer) *Pipeline {
	return &Pipeline{stages: slices.Clone(stages)}
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Normalize runs tok through every stage. Each stage's output is drained before
// the next stage sees it.
func (p *Pipeline) Normalize(tok token.Token) iter.Seq[token.Token] {
	current := []token.Token{tok}
	for _, stage := range p.stages {
		current = applyStage(stage, current)
		if len(current) == 0 {
			break
		}
	}
	return slices.Values(current)
}

// NormalizeAll runs every token of toks through the pipeline, preserving order.
func (p *Pipeline) NormalizeAll(toks iter.Seq[token.Token]) iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		for tok := range toks {
			for out := range p.Normalize(tok) {
				if !yield(out) {
					return
				}
			}
		}
	}
}

func applyStage(stage Normalizer, in []token.Token) []token.Token {
	out := make([]token.Token, 0, len(in))
	for _, tok := range in {
		if !stage.ShouldNormalize(tok) {
			out = append(out, tok)
			continue
		}
		for next := range stage.Normalize(tok) {
			out = append(out, next)
		}
	}
	return out
}
