// Package lemma normalizes segmented text for search indexing.
//
// Tokens produced by a segmenter pass through an ordered pipeline of stages:
// compatibility decomposition, case folding, mark removal and so on. Each
// stage decides per token whether it applies, then replaces the token with
// zero or more tokens whose offsets still point into the original input.
//
// # Quick Start
//
//	eng, err := lemma.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close()
//
//	toks, err := eng.NormalizeText(ctx, "Ångström ①②")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range toks {
//	    fmt.Printf("%q [%d:%d]\n", t.Lemma, t.CharStart, t.CharEnd)
//	}
//
// # Stages
//
// The stages to run come from a YAML catalog (see package catalog), resolved
// against a registry of named stage factories (see package normalizer).
// WithCatalog and WithRegistry replace either; WithStages bypasses both.
//
// # Thread Safety
//
// Engine is safe for concurrent use. Concurrent calls are bounded by
// WithWorkers; NormalizeBatch spreads documents across that many workers.
//
// # Metrics
//
// Pass a prometheus.Registerer with WithRegisterer to export token, cache and
// per-stage counters under the "lemma_" prefix.
package lemma
