package lemma

import (
	"fmt"
	"iter"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jamesainslie/go-lemma/normalizer"
	"github.com/jamesainslie/go-lemma/token"
)

const namespace = "lemma"

type metrics struct {
	tokensIn     prometheus.Counter
	tokensOut    prometheus.Counter
	invalid      prometheus.Counter
	cacheHits    prometheus.Counter
	cacheMisses  prometheus.Counter
	stageApplied *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		tokensIn: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_in_total",
			Help:      "Tokens received for normalization.",
		}),
		tokensOut: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_out_total",
			Help:      "Tokens produced by normalization.",
		}),
		invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_tokens_total",
			Help:      "Input tokens dropped because they failed validation.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Tokens served from the normalization cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Tokens normalized because they were not cached.",
		}),
		stageApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_applied_total",
			Help:      "Tokens transformed by each stage. Cache hits are not counted.",
		}, []string{"stage"}),
	}

	if reg == nil {
		return m, nil
	}
	for _, c := range []prometheus.Collector{m.tokensIn, m.tokensOut, m.invalid, m.cacheHits, m.cacheMisses, m.stageApplied} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("%w: registering metrics: %w", ErrInvalidOption, err)
		}
	}
	return m, nil
}

// countedStage counts the tokens a stage's gate admits.
type countedStage struct {
	normalizer.Normalizer
	applied prometheus.Counter
}

func (c countedStage) Normalize(tok token.Token) iter.Seq[token.Token] {
	c.applied.Inc()
	return c.Normalizer.Normalize(tok)
}
