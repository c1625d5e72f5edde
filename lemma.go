package lemma

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/catalog"
	"github.com/jamesainslie/go-lemma/internal/pool"
	"github.com/jamesainslie/go-lemma/normalizer"
	"github.com/jamesainslie/go-lemma/token"
	"github.com/jamesainslie/go-lemma/tokenizer"
)

// checkInterval is how many tokens are normalized between context checks.
const checkInterval = 256

// Engine normalizes token streams through a configured pipeline.
// It is safe for concurrent use.
type Engine struct {
	stages    []catalog.Stage
	pipeline  *normalizer.Pipeline
	tokenizer *tokenizer.Tokenizer
	workers   *pool.Pool[*worker]
	cache     *lru.Cache[cacheKey, []token.Token]
	metrics   *metrics
	logger    *slog.Logger
}

// worker holds per-call scratch space.
type worker struct {
	buf []token.Token
}

// cacheKey identifies everything a stage may look at besides offsets.
type cacheKey struct {
	lemma  string
	script token.Script
	lang   language.Tag
	kind   token.Kind
}

// New creates an Engine. Without WithStages the pipeline is built from the
// catalog (default: the embedded one) resolved against the registry.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.err(); err != nil {
		return nil, err
	}

	stages := cfg.stages
	if !cfg.hasStages {
		cat := cfg.catalog
		if cat == nil {
			cat = catalog.Default()
		}
		reg := cfg.registry
		if reg == nil {
			reg = normalizer.DefaultRegistry()
		}
		built, err := cat.Build(reg)
		if err != nil {
			return nil, err
		}
		stages = built
	}

	m, err := newMetrics(cfg.registerer)
	if err != nil {
		return nil, err
	}

	counted := lo.Map(stages, func(s catalog.Stage, _ int) normalizer.Normalizer {
		return countedStage{Normalizer: s.Normalizer, applied: m.stageApplied.WithLabelValues(s.Name)}
	})

	e := &Engine{
		stages:    stages,
		pipeline:  normalizer.NewPipeline(counted...),
		tokenizer: cfg.tokenizer,
		workers:   pool.New(cfg.workers, func() *worker { return &worker{} }),
		metrics:   m,
		logger:    cfg.logger,
	}
	if e.tokenizer == nil {
		e.tokenizer = tokenizer.New()
	}
	if cfg.cacheSize > 0 {
		cache, err := lru.New[cacheKey, []token.Token](cfg.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("creating cache: %w", err)
		}
		e.cache = cache
	}

	e.logger.Debug("engine ready",
		"stages", e.Stages(),
		"workers", cfg.workers,
		"cache_size", cfg.cacheSize)
	return e, nil
}

// Stages returns the stage names in pipeline order.
func (e *Engine) Stages() []string {
	return lo.Map(e.stages, func(s catalog.Stage, _ int) string { return s.Name })
}

// StagesFor returns the names of the stages that may apply to tokens labelled
// with script and lang.
func (e *Engine) StagesFor(script token.Script, lang language.Tag) []string {
	return catalog.Applicable(e.stages, script, lang)
}

// Normalize runs toks through the pipeline and returns the normalized tokens
// in order.
//
// Invalid input tokens are dropped and reported in an error wrapping
// ErrInvalidToken; the returned tokens are still usable in that case. A done
// ctx aborts the call with ctx.Err().
func (e *Engine) Normalize(ctx context.Context, toks []token.Token) ([]token.Token, error) {
	w, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.workers.Release(w)

	out, invalid, err := e.normalize(ctx, w, toks)
	if err != nil {
		return nil, err
	}
	return out, errors.Join(invalid...)
}

// NormalizeText tokenizes text and normalizes the result.
func (e *Engine) NormalizeText(ctx context.Context, text string) ([]token.Token, error) {
	return e.Normalize(ctx, e.tokenizer.Encode(text))
}

// NormalizeBatch normalizes several documents concurrently, bounded by the
// worker count. Results are in input order. Invalid tokens are reported as in
// Normalize, prefixed with their document index; a done ctx aborts the batch.
func (e *Engine) NormalizeBatch(ctx context.Context, docs [][]token.Token) ([][]token.Token, error) {
	results := make([][]token.Token, len(docs))
	invalid := make([][]error, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers.Size())
	for i, doc := range docs {
		g.Go(func() error {
			w, err := e.acquire(gctx)
			if err != nil {
				return err
			}
			defer e.workers.Release(w)

			out, errs, err := e.normalize(gctx, w, doc)
			if err != nil {
				return err
			}
			results[i] = out
			invalid[i] = lo.Map(errs, func(err error, _ int) error {
				return fmt.Errorf("document %d: %w", i, err)
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, errors.Join(slices.Concat(invalid...)...)
}

// Close releases the Engine. Calls made after Close fail with ErrClosed.
func (e *Engine) Close() error {
	e.workers.Close()
	if e.cache != nil {
		e.cache.Purge()
	}
	return nil
}

func (e *Engine) acquire(ctx context.Context) (*worker, error) {
	w, err := e.workers.Acquire(ctx)
	if errors.Is(err, pool.ErrClosed) {
		return nil, ErrClosed
	}
	return w, err
}

// normalize returns the normalized tokens, one error per dropped token, and a
// non-nil error only if ctx is done.
func (e *Engine) normalize(ctx context.Context, w *worker, toks []token.Token) ([]token.Token, []error, error) {
	out := make([]token.Token, 0, len(toks))
	var invalid []error

	for i, tok := range toks {
		if i%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		if err := tok.Validate(); err != nil {
			e.metrics.invalid.Inc()
			e.logger.Warn("dropping invalid token", "index", i, "lemma", tok.Lemma, "error", err)
			invalid = append(invalid, fmt.Errorf("token %d: %w", i, err))
			continue
		}
		out = e.normalizeToken(w, out, tok)
	}

	e.metrics.tokensIn.Add(float64(len(toks)))
	e.metrics.tokensOut.Add(float64(len(out)))
	return out, invalid, nil
}

// normalizeToken appends the pipeline output for tok to dst. Cached outputs are
// stored at zero offsets and shifted to tok's position.
func (e *Engine) normalizeToken(w *worker, dst []token.Token, tok token.Token) []token.Token {
	if e.cache == nil {
		return slices.AppendSeq(dst, e.pipeline.Normalize(tok))
	}

	key := cacheKey{lemma: tok.Lemma, script: tok.Script, lang: tok.Language, kind: tok.Kind}
	if base, ok := e.cache.Get(key); ok {
		e.metrics.cacheHits.Inc()
		return appendRebased(dst, base, tok)
	}
	e.metrics.cacheMisses.Inc()

	origin := tok
	origin.CharStart, origin.ByteStart = 0, 0
	w.buf = slices.AppendSeq(w.buf[:0], e.pipeline.Normalize(origin.WithLemma(tok.Lemma)))
	e.cache.Add(key, slices.Clone(w.buf))
	return appendRebased(dst, w.buf, tok)
}

func appendRebased(dst, base []token.Token, at token.Token) []token.Token {
	for _, t := range base {
		t.CharStart += at.CharStart
		t.CharEnd += at.CharStart
		t.ByteStart += at.ByteStart
		t.ByteEnd += at.ByteStart
		dst = append(dst, t)
	}
	return dst
}
