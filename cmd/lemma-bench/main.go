package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	lemma "github.com/jamesainslie/go-lemma"
	"github.com/jamesainslie/go-lemma/internal/bench"
	"github.com/jamesainslie/go-lemma/internal/cliutil"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)
)

type options struct {
	corpusDir   string
	catalogPath string
	workers     int
	cacheSize   int
	sweep       string
	metrics     bool
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:           "lemma-bench",
		Short:         "Measure normalization throughput and check output invariants over a corpus",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}
	cliutil.AddLogFlags(cmd)
	cmd.Flags().StringVar(&opts.corpusDir, "corpus", "testdata/corpus", "Directory containing corpus files")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Stage catalog YAML file (default: embedded catalog)")
	cmd.Flags().IntVar(&opts.workers, "workers", 4, "Worker count for a single run")
	cmd.Flags().IntVar(&opts.cacheSize, "cache-size", 4096, "Normalization cache size, 0 to disable")
	cmd.Flags().StringVar(&opts.sweep, "sweep", "", "Comma-separated worker counts to compare, e.g. 1,2,4,8")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", false, "Print Prometheus metrics after the run")
	return cmd
}

func run(cmd *cobra.Command, opts options) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	logger, err := cliutil.LoggerFromFlags(cmd)
	if err != nil {
		return err
	}
	cat, err := cliutil.LoadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	docs, err := bench.LoadCorpus(opts.corpusDir)
	if err != nil {
		return fmt.Errorf("loading corpus: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d documents from %s\n", len(docs), opts.corpusDir)
	fmt.Fprintln(out, dimStyle.Render("Stages: "+strings.Join(cat.Names(), ", ")))
	fmt.Fprintln(out)

	registry := prometheus.NewRegistry()
	build := func(workers int) (bench.ClosableEngine, error) {
		reg := prometheus.WrapRegistererWith(prometheus.Labels{"workers": strconv.Itoa(workers)}, registry)
		eng, err := lemma.New(
			lemma.WithLogger(logger),
			lemma.WithCatalog(cat),
			lemma.WithWorkers(workers),
			lemma.WithCacheSize(opts.cacheSize),
			lemma.WithRegisterer(reg),
		)
		if err != nil {
			return nil, err
		}
		return eng, nil
	}

	if opts.sweep != "" {
		err = runSweep(ctx, out, docs, opts.sweep, build)
	} else {
		err = runSingle(ctx, out, docs, opts.workers, build)
	}
	if err != nil {
		return err
	}

	if opts.metrics {
		return writeMetrics(out, registry)
	}
	return nil
}

func runSingle(ctx context.Context, w io.Writer, docs []*bench.Document, workers int, build func(int) (bench.ClosableEngine, error)) error {
	eng, err := build(workers)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer func() { _ = eng.Close() }()

	r, err := bench.Evaluate(ctx, eng, docs)
	if err != nil {
		return err
	}
	printReport(w, r)
	return nil
}

func runSweep(ctx context.Context, w io.Writer, docs []*bench.Document, sweep string, build func(int) (bench.ClosableEngine, error)) error {
	counts, err := bench.ParseCounts(sweep)
	if err != nil {
		return err
	}

	results, err := bench.SweepWorkers(ctx, docs, counts, build)
	if err != nil {
		return fmt.Errorf("during sweep: %w", err)
	}

	fmt.Fprintln(w, titleStyle.Render("Worker Sweep Results"))
	fmt.Fprintln(w, strings.Repeat("-", 50))
	fmt.Fprintf(w, "%-8s %-12s %-14s %-10s\n", "Workers", "Tokens", "Tokens/s", "Violations")

	// Print in the order requested for readability
	for _, n := range counts {
		for _, r := range results {
			if r.Workers == n {
				fmt.Fprintf(w, "%-8d %-12d %-14.0f %-10d\n",
					r.Workers, r.Report.TokensIn, r.Report.TokensPerSecond(), r.Report.Violations)
				break
			}
		}
	}

	fmt.Fprintln(w, strings.Repeat("-", 50))
	if len(results) > 0 {
		best := results[0]
		fmt.Fprintf(w, "Fastest: %d workers (%.0f tokens/s)\n", best.Workers, best.Report.TokensPerSecond())
	}
	return nil
}

func printReport(w io.Writer, r bench.Report) {
	fmt.Fprintln(w, titleStyle.Render("Normalization Report"))
	fmt.Fprintf(w, "Documents: %d  Tokens in: %d  Tokens out: %d  Changed: %d\n",
		r.Documents, r.TokensIn, r.TokensOut, r.Changed)
	fmt.Fprintf(w, "Duration: %s  Throughput: %.0f tokens/s\n", r.Duration, r.TokensPerSecond())

	if r.Violations == 0 {
		fmt.Fprintln(w, okStyle.Render("No invariant violations"))
		return
	}
	fmt.Fprintln(w, badStyle.Render(fmt.Sprintf("%d violations (%d not idempotent)", r.Violations, r.NonIdempotent)))
	for _, v := range r.Examples {
		fmt.Fprintln(w, dimStyle.Render("  "+v.String()))
	}
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	fmt.Fprintln(w)
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encoding metrics: %w", err)
		}
	}
	return nil
}
