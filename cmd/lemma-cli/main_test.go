package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jamesainslie/go-lemma/tokenstream"
)

func run(t *testing.T, stdin []byte, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetIn(bytes.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestNormalize_Text(t *testing.T) {
	out, err := run(t, nil, "normalize", "--lang", "fr", "\u00C9t\u00E9", "\u2460")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], `"ete"`) || !strings.Contains(lines[0], "fr") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[2], `"1"`) {
		t.Errorf("last line = %q", lines[2])
	}
}

func TestNormalize_JSON(t *testing.T) {
	out, err := run(t, []byte("Caf\u00E9"), "normalize", "--format", "json")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	var got jsonToken
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	want := jsonToken{Lemma: "cafe", CharEnd: 4, ByteEnd: 4, Script: "Latin", Language: "und", Kind: "word"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_WireRoundTrip(t *testing.T) {
	wire, err := run(t, nil, "normalize", "--format", "wire", "A", "B")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	var lemmas []string
	for tok, err := range tokenstream.NewReader(strings.NewReader(wire)).All() {
		if err != nil {
			t.Fatal(err)
		}
		lemmas = append(lemmas, tok.Lemma)
	}
	if diff := cmp.Diff([]string{"a", " ", "b"}, lemmas); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	text, err := run(t, []byte(wire), "decode")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if n := strings.Count(text, "\n"); n != 3 {
		t.Errorf("decode printed %d lines, want 3:\n%s", n, text)
	}
}

func TestDecode_Corrupt(t *testing.T) {
	if _, err := run(t, []byte{0x05, 0x0a}, "decode"); !errors.Is(err, tokenstream.ErrCorrupt) {
		t.Errorf("decode error = %v, want ErrCorrupt", err)
	}
}

func TestNormalize_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"normalize", "--format", "xml", "a"}},
		{"bad language", []string{"normalize", "--lang", "not a tag", "a"}},
		{"bad log level", []string{"--log-level", "loud", "normalize", "a"}},
		{"missing catalog", []string{"--catalog", "/nonexistent/catalog.yaml", "normalize", "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, nil, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStages(t *testing.T) {
	out, err := run(t, nil, "stages")
	if err != nil {
		t.Fatalf("stages failed: %v", err)
	}
	want := "control_char\ncompatibility_decomposition\nseparator_split\nlowercase\nnonspacing_mark\n"
	if out != want {
		t.Errorf("stages = %q, want %q", out, want)
	}

	out, err = run(t, nil, "stages", "--script", "Han")
	if err != nil {
		t.Fatalf("stages --script failed: %v", err)
	}
	if out != "control_char\nseparator_split\n" {
		t.Errorf("Han stages = %q", out)
	}

	if _, err := run(t, nil, "stages", "--script", "Elvish"); err == nil {
		t.Error("expected error for unknown script")
	}
}

func TestStages_CustomCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "stages:\n  - name: lowercase\n    languages: [tr]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, nil, "--catalog", path, "stages", "--script", "Latin", "--lang", "tr")
	if err != nil {
		t.Fatalf("stages failed: %v", err)
	}
	if out != "lowercase\n" {
		t.Errorf("stages = %q, want lowercase", out)
	}

	out, err = run(t, nil, "--catalog", path, "stages", "--script", "Latin", "--lang", "en")
	if err != nil {
		t.Fatalf("stages failed: %v", err)
	}
	if out != "" {
		t.Errorf("stages for en = %q, want none", out)
	}
}
