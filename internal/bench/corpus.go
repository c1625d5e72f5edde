// Package bench provides benchmarking utilities for token normalization.
package bench

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/token"
	"github.com/jamesainslie/go-lemma/tokenizer"
)

// Header contains metadata parsed from a corpus file header.
type Header struct {
	Source   string
	Language string
	Title    string
}

// ParseHeader extracts metadata from header comments.
// Returns the header, remaining text after header, and any error.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	var bodyStart int
	var lineEnd int
	inBody := false

	for scanner.Scan() {
		line := scanner.Text()
		lineEnd += len(line) + 1 // +1 for newline

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineEnd - len(line) - 1
			inBody = true
			break
		}

		line = strings.TrimPrefix(line, "# ")
		if value, ok := strings.CutPrefix(line, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Language:"); ok {
			h.Language = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Title:"); ok {
			h.Title = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}

	if h.Source == "" {
		return Header{}, "", errors.New("missing Source in header")
	}

	if !inBody {
		return h, "", nil
	}
	return h, strings.TrimSpace(text[bodyStart:]), nil
}

// Document is a loaded corpus file, tokenized and labelled.
type Document struct {
	ID       string // filename without extension
	Source   string
	Title    string
	Language language.Tag
	Text     string
	Tokens   []token.Token
}

// LoadDocument loads, parses and tokenizes a corpus file. A missing Language
// header leaves the tokens undetermined.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	header, body, err := ParseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	lang := language.Und
	if header.Language != "" {
		lang, err = language.Parse(header.Language)
		if err != nil {
			return nil, fmt.Errorf("parse language %q: %w", header.Language, err)
		}
	}

	base := filepath.Base(path)
	id := strings.TrimSuffix(base, filepath.Ext(base))

	return &Document{
		ID:       id,
		Source:   header.Source,
		Title:    header.Title,
		Language: lang,
		Text:     body,
		Tokens:   tokenizer.New(tokenizer.WithLanguage(lang)).Encode(body),
	}, nil
}

// LoadCorpus loads all .txt files from a directory.
func LoadCorpus(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := LoadDocument(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
