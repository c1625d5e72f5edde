package bench

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SweepResult holds the report for one worker count.
type SweepResult struct {
	Workers int
	Report  Report
}

// ClosableEngine is an Engine that owns resources.
type ClosableEngine interface {
	Engine
	Close() error
}

// ParseCounts parses a comma-separated list of positive worker counts.
func ParseCounts(s string) ([]int, error) {
	var counts []int
	for field := range strings.SplitSeq(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid worker count %q", field)
		}
		counts = append(counts, n)
	}
	if len(counts) == 0 {
		return nil, fmt.Errorf("no worker counts in %q", s)
	}
	return counts, nil
}

// SweepWorkers evaluates the corpus once per worker count, building a fresh
// engine each time, and returns results sorted by throughput descending.
func SweepWorkers(ctx context.Context, docs []*Document, counts []int, build func(workers int) (ClosableEngine, error)) ([]SweepResult, error) {
	var results []SweepResult

	for _, workers := range counts {
		e, err := build(workers)
		if err != nil {
			return nil, fmt.Errorf("building engine with %d workers: %w", workers, err)
		}

		report, err := Evaluate(ctx, e, docs)
		_ = e.Close()
		if err != nil {
			return nil, fmt.Errorf("%d workers: %w", workers, err)
		}

		results = append(results, SweepResult{
			Workers: workers,
			Report:  report,
		})
	}

	slices.SortStableFunc(results, func(a, b SweepResult) int {
		return cmp.Compare(b.Report.TokensPerSecond(), a.Report.TokensPerSecond())
	})

	return results, nil
}
