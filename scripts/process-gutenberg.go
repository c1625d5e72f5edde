//go:build ignore

// Process raw Project Gutenberg downloads into lemma-bench corpus files.
// Raw files are named <lang>-<id>_raw.txt, e.g. fr-miserables_raw.txt.
// Usage: go run ./scripts/process-gutenberg.go [-in testdata/gutenberg] [-out testdata/corpus]
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// maxBody bounds each document so a corpus run stays short.
const maxBody = 50000

var titles = map[string]string{
	"fr-miserables": "Les Misérables",
	"de-faust":      "Faust",
	"ru-karenina":   "Анна Каренина",
	"el-odysseia":   "Οδύσσεια",
	"ja-kokoro":     "こころ",
}

var (
	startPatterns = []string{
		"*** START OF THE PROJECT GUTENBERG EBOOK",
		"*** START OF THIS PROJECT GUTENBERG EBOOK",
	}
	endPatterns = []string{
		"*** END OF THE PROJECT GUTENBERG EBOOK",
		"*** END OF THIS PROJECT GUTENBERG EBOOK",
		"End of Project Gutenberg",
		"End of the Project Gutenberg",
	}
	illustrationRe = regexp.MustCompile(`\[Illustration[^\]]*\]`)
	multiBlank     = regexp.MustCompile(`\n{3,}`)
)

func main() {
	inDir := flag.String("in", "testdata/gutenberg", "Directory of *_raw.txt downloads")
	outDir := flag.String("out", "testdata/corpus", "Corpus output directory")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*inDir, "*_raw.txt"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No raw files found in %s\n", *inDir)
		os.Exit(1)
	}

	for _, rawFile := range files {
		id := strings.TrimSuffix(filepath.Base(rawFile), "_raw.txt")
		prefix, _, ok := strings.Cut(id, "-")
		if !ok {
			fmt.Printf("Skipping %s: name has no language prefix\n", id)
			continue
		}
		lang, err := language.Parse(prefix)
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", id, err)
			continue
		}

		title := titles[id]
		if title == "" {
			title = id
		}

		outFile := filepath.Join(*outDir, id+".txt")
		fmt.Printf("Processing %s (%s)...\n", id, lang)
		if err := processBook(rawFile, outFile, title, lang); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", id, err)
			continue
		}
		fmt.Printf("  -> %s\n", outFile)
	}
}

func processBook(inPath, outPath, title string, lang language.Tag) error {
	content, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	// Downloads mix composed and decomposed forms; the corpus keeps NFC so
	// the benchmark measures the pipeline rather than the source encoding.
	text := norm.NFC.String(string(content))

	startIdx := 0
	for _, pattern := range startPatterns {
		if idx := strings.Index(text, pattern); idx != -1 {
			if eol := strings.Index(text[idx:], "\n"); eol != -1 {
				startIdx = idx + eol + 1
			}
			break
		}
	}
	endIdx := len(text)
	for _, pattern := range endPatterns {
		if idx := strings.Index(text, pattern); idx != -1 {
			endIdx = idx
			break
		}
	}
	if endIdx < startIdx {
		return fmt.Errorf("end marker precedes start marker")
	}

	body := truncate(cleanBody(text[startIdx:endIdx]), maxBody)

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "# Source: https://www.gutenberg.org/\n")
	fmt.Fprintf(w, "# Language: %s\n", lang)
	fmt.Fprintf(w, "# Title: %s\n", title)
	fmt.Fprintf(w, "\n")
	w.WriteString(body)
	w.WriteString("\n")

	return w.Flush()
}

func cleanBody(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = illustrationRe.ReplaceAllString(text, "")
	text = multiBlank.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	// Join hard-wrapped lines back into paragraphs.
	var result []string
	var paragraph strings.Builder
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			if paragraph.Len() > 0 {
				result = append(result, paragraph.String())
				paragraph.Reset()
			}
			continue
		}
		if paragraph.Len() > 0 {
			paragraph.WriteString(" ")
		}
		paragraph.WriteString(strings.TrimSpace(line))
	}
	if paragraph.Len() > 0 {
		result = append(result, paragraph.String())
	}
	return strings.Join(result, "\n\n")
}

// truncate cuts text at the first paragraph break past limit bytes.
func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	if idx := strings.Index(text[limit:], "\n\n"); idx != -1 {
		return text[:limit+idx]
	}
	return text
}
