package bench

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	lemma "github.com/jamesainslie/go-lemma"
	"github.com/jamesainslie/go-lemma/token"
)

func TestParseCounts(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "1,2,4,8", want: []int{1, 2, 4, 8}},
		{input: " 3 , 1 ", want: []int{3, 1}},
		{input: "2,", want: []int{2}},
		{input: "", wantErr: true},
		{input: "0", wantErr: true},
		{input: "two", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseCounts(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCounts(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseCounts(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestSweepWorkers(t *testing.T) {
	docs := []*Document{
		{ID: "a", Tokens: []token.Token{token.New("A", 0, 0, token.Latin, language.Und)}},
		{ID: "b", Tokens: []token.Token{token.New("\u2460", 0, 0, token.Latin, language.Und)}},
	}

	var built []int
	build := func(workers int) (ClosableEngine, error) {
		built = append(built, workers)
		e, err := lemma.New(lemma.WithWorkers(workers))
		if err != nil {
			return nil, err
		}
		return e, nil
	}

	results, err := SweepWorkers(context.Background(), docs, []int{1, 2}, build)
	if err != nil {
		t.Fatalf("SweepWorkers() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 2}, built); diff != "" {
		t.Errorf("built engines mismatch (-want +got):\n%s", diff)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for i := 1; i < len(results); i++ {
		if results[i].Report.TokensPerSecond() > results[i-1].Report.TokensPerSecond() {
			t.Errorf("results not sorted by throughput: %+v", results)
		}
	}
	for _, r := range results {
		if r.Report.TokensIn != 2 {
			t.Errorf("%d workers: TokensIn = %d, want 2", r.Workers, r.Report.TokensIn)
		}
	}
}

func TestSweepWorkers_BuildError(t *testing.T) {
	build := func(workers int) (ClosableEngine, error) {
		return nil, errors.New("boom")
	}
	if _, err := SweepWorkers(context.Background(), nil, []int{1}, build); err == nil {
		t.Error("expected build error")
	}
}
