package bench

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jamesainslie/go-lemma/token"
)

// Engine is the part of lemma.Engine the benchmark drives.
type Engine interface {
	Normalize(ctx context.Context, toks []token.Token) ([]token.Token, error)
	NormalizeBatch(ctx context.Context, docs [][]token.Token) ([][]token.Token, error)
}

// Violation is an output token breaking a normalization invariant.
type Violation struct {
	Index  int
	Token  token.Token
	Reason string
}

func (v Violation) String() string {
	return fmt.Sprintf("token %d %q: %s", v.Index, v.Token.Lemma, v.Reason)
}

// Check verifies the invariants of a normalized token sequence: every token
// is valid, word tokens are non-empty and start offsets never decrease.
func Check(tokens []token.Token) []Violation {
	var violations []Violation
	prevChar, prevByte := 0, 0

	for i, tok := range tokens {
		if err := tok.Validate(); err != nil {
			violations = append(violations, Violation{Index: i, Token: tok, Reason: err.Error()})
		}
		if tok.Lemma == "" {
			violations = append(violations, Violation{Index: i, Token: tok, Reason: "empty lemma"})
		}
		if tok.CharStart < prevChar || tok.ByteStart < prevByte {
			violations = append(violations, Violation{
				Index:  i,
				Token:  tok,
				Reason: fmt.Sprintf("starts at (%d, %d) before previous token (%d, %d)", tok.CharStart, tok.ByteStart, prevChar, prevByte),
			})
		}
		prevChar, prevByte = tok.CharStart, tok.ByteStart
	}

	return violations
}

// CheckIdempotent normalizes tokens a second time and reports every token the
// second pass changes.
func CheckIdempotent(ctx context.Context, e Engine, tokens []token.Token) ([]Violation, error) {
	again, err := e.Normalize(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("second pass: %w", err)
	}

	if len(again) != len(tokens) {
		return []Violation{{
			Index:  min(len(again), len(tokens)),
			Reason: fmt.Sprintf("second pass produced %d tokens from %d", len(again), len(tokens)),
		}}, nil
	}

	var violations []Violation
	for i := range tokens {
		if again[i].Lemma != tokens[i].Lemma {
			violations = append(violations, Violation{
				Index:  i,
				Token:  tokens[i],
				Reason: fmt.Sprintf("second pass changed lemma to %q", again[i].Lemma),
			})
		}
	}
	return violations, nil
}

// Report holds the results of one evaluation run.
type Report struct {
	Documents     int
	TokensIn      int
	TokensOut     int
	Changed       int // output tokens differing from the input token at the same offset
	Violations    int
	NonIdempotent int
	Duration      time.Duration
	Examples      []Violation // first few violations, for display
}

// maxExamples bounds Report.Examples.
const maxExamples = 10

// TokensPerSecond returns input throughput.
func (r Report) TokensPerSecond() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.TokensIn) / r.Duration.Seconds()
}

// Evaluate normalizes every document in one batch, timing it, then checks the
// output invariants and idempotence of each document.
func Evaluate(ctx context.Context, e Engine, docs []*Document) (Report, error) {
	inputs := make([][]token.Token, len(docs))
	for i, doc := range docs {
		inputs[i] = doc.Tokens
	}

	start := time.Now()
	outputs, err := e.NormalizeBatch(ctx, inputs)
	if err != nil {
		return Report{}, fmt.Errorf("normalizing corpus: %w", err)
	}
	r := Report{Documents: len(docs), Duration: time.Since(start)}

	violations := make([][]Violation, len(docs))
	nonIdempotent := make([]int, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range docs {
		g.Go(func() error {
			violations[i] = Check(outputs[i])
			again, err := CheckIdempotent(gctx, e, outputs[i])
			if err != nil {
				return fmt.Errorf("%s: %w", docs[i].ID, err)
			}
			nonIdempotent[i] = len(again)
			violations[i] = append(violations[i], again...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	for i := range docs {
		r.TokensIn += len(inputs[i])
		r.TokensOut += len(outputs[i])
		r.Changed += countChanged(inputs[i], outputs[i])
		r.Violations += len(violations[i])
		r.NonIdempotent += nonIdempotent[i]
		for _, v := range violations[i] {
			if len(r.Examples) < maxExamples {
				r.Examples = append(r.Examples, v)
			}
		}
	}
	return r, nil
}

func countChanged(in, out []token.Token) int {
	original := make(map[int]string, len(in))
	for _, tok := range in {
		original[tok.CharStart] = tok.Lemma
	}

	changed := 0
	for _, tok := range out {
		if lemma, ok := original[tok.CharStart]; !ok || lemma != tok.Lemma {
			changed++
		}
	}
	return changed
}
