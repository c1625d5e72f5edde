package lemma

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/go-lemma/catalog"
	"github.com/jamesainslie/go-lemma/normalizer"
	"github.com/jamesainslie/go-lemma/tokenizer"
)

// Option configures an Engine.
type Option func(*config)

type config struct {
	logger     *slog.Logger
	workers    int
	cacheSize  int
	catalog    *catalog.Catalog
	registry   *normalizer.Registry
	stages     []catalog.Stage
	hasStages  bool
	registerer prometheus.Registerer
	tokenizer  *tokenizer.Tokenizer
	errs       []error
}

func defaultConfig() config {
	return config{
		logger:    slog.Default(),
		workers:   runtime.NumCPU(),
		cacheSize: 4096,
	}
}

func (c *config) invalid(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidOption}, args...)...))
}

func (c *config) err() error {
	return errors.Join(c.errs...)
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers sets how many token slices are normalized concurrently
// (default: runtime.NumCPU()).
func WithWorkers(n int) Option {
	return func(c *config) {
		if n <= 0 {
			c.invalid("workers must be positive, got %d", n)
			return
		}
		c.workers = n
	}
}

// WithCacheSize sets the number of distinct tokens whose normalized output is
// memoised (default: 4096). Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n < 0 {
			c.invalid("cache size must not be negative, got %d", n)
			return
		}
		c.cacheSize = n
	}
}

// WithCatalog sets the stage catalog (default: catalog.Default()).
func WithCatalog(cat *catalog.Catalog) Option {
	return func(c *config) {
		if cat == nil {
			c.invalid("nil catalog")
			return
		}
		c.catalog = cat
	}
}

// WithRegistry sets the registry catalog stages are resolved against
// (default: normalizer.DefaultRegistry()).
func WithRegistry(r *normalizer.Registry) Option {
	return func(c *config) {
		if r == nil {
			c.invalid("nil registry")
			return
		}
		c.registry = r
	}
}

// WithStages runs exactly the given stages, bypassing the catalog. With no
// stages the Engine passes tokens through unchanged.
func WithStages(stages ...catalog.Stage) Option {
	return func(c *config) {
		for i, s := range stages {
			if s.Name == "" || s.Normalizer == nil {
				c.invalid("stage %d: name and normalizer are required", i)
				return
			}
		}
		c.stages = stages
		c.hasStages = true
	}
}

// WithRegisterer registers the Engine's metrics on r. Each Engine needs its own
// registerer; wrap a shared one with prometheus.WrapRegistererWith.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(c *config) {
		c.registerer = r
	}
}

// WithTokenizer sets the tokenizer used by NormalizeText (default: tokenizer.New()).
func WithTokenizer(t *tokenizer.Tokenizer) Option {
	return func(c *config) {
		if t == nil {
			c.invalid("nil tokenizer")
			return
		}
		c.tokenizer = t
	}
}
