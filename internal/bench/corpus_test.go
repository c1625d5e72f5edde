package bench

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestParseHeader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     Header
		wantBody string
		wantErr  bool
	}{
		{
			name: "valid header",
			input: `# Source: https://example.com/article
# Language: fr
# Title: Un article

Bonjour le monde.`,
			want: Header{
				Source:   "https://example.com/article",
				Language: "fr",
				Title:    "Un article",
			},
			wantBody: "Bonjour le monde.",
		},
		{
			name:     "no language",
			input:    "# Source: local\n\nText.",
			want:     Header{Source: "local"},
			wantBody: "Text.",
		},
		{
			name:     "header only",
			input:    "# Source: local\n# Title: Empty\n",
			want:     Header{Source: "local", Title: "Empty"},
			wantBody: "",
		},
		{
			name: "missing source",
			input: `# Language: en
# Title: My Article

Hello.`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, body, err := ParseHeader(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHeader() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseHeader() header = %+v, want %+v", got, tt.want)
			}
			if body != tt.wantBody {
				t.Errorf("ParseHeader() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "ete.txt", "# Source: https://example.com\n# Language: fr\n# Title: Test\n\n\u00C9t\u00E9 chaud.")

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument() error = %v", err)
	}

	if doc.ID != "ete" {
		t.Errorf("ID = %q, want %q", doc.ID, "ete")
	}
	if doc.Language != language.French {
		t.Errorf("Language = %v, want fr", doc.Language)
	}
	if len(doc.Tokens) == 0 {
		t.Fatal("expected tokens")
	}

	var joined strings.Builder
	for _, tok := range doc.Tokens {
		if tok.Language != language.French {
			t.Errorf("token %q has language %v, want fr", tok.Lemma, tok.Language)
		}
		joined.WriteString(tok.Lemma)
	}
	if joined.String() != doc.Text {
		t.Errorf("tokens join to %q, want %q", joined.String(), doc.Text)
	}
}

func TestLoadDocument_BadLanguage(t *testing.T) {
	path := writeDoc(t, t.TempDir(), "bad.txt", "# Source: x\n# Language: not a tag\n\nText.")
	if _, err := LoadDocument(path); err == nil {
		t.Error("expected error for malformed language")
	}
}

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"doc1.txt", "doc2.txt"} {
		writeDoc(t, dir, name, "# Source: https://example.com\n# Language: en\n# Title: Title\n\nHello.")
	}

	// Create a non-txt file that should be ignored
	writeDoc(t, dir, "README.md", "# Readme")

	docs, err := LoadCorpus(dir)
	if err != nil {
		t.Fatalf("LoadCorpus() error = %v", err)
	}

	if len(docs) != 2 {
		t.Errorf("got %d documents, want 2", len(docs))
	}
}

func TestLoadCorpus_Error(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "nosource.txt", "# Title: x\n\nText.")

	if _, err := LoadCorpus(dir); err == nil {
		t.Error("expected error for document without Source")
	}
	if _, err := LoadCorpus(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}
