package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	lemma "github.com/jamesainslie/go-lemma"
	"github.com/jamesainslie/go-lemma/internal/cliutil"
	"github.com/jamesainslie/go-lemma/token"
	"github.com/jamesainslie/go-lemma/tokenizer"
	"github.com/jamesainslie/go-lemma/tokenstream"
)

// Set by -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "lemma-cli",
		Short:         "Normalize text into search-ready tokens",
		Version:       fmt.Sprintf("%s (%s, %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cliutil.AddLogFlags(cmd)
	cmd.PersistentFlags().String("catalog", "", "Stage catalog YAML file (default: embedded catalog)")

	cmd.AddCommand(newNormalizeCommand())
	cmd.AddCommand(newStagesCommand())
	cmd.AddCommand(newDecodeCommand())
	return cmd
}

// newEngine builds an Engine from the shared flags.
func newEngine(cmd *cobra.Command, opts ...lemma.Option) (*lemma.Engine, error) {
	logger, err := cliutil.LoggerFromFlags(cmd)
	if err != nil {
		return nil, err
	}
	path, err := cmd.Flags().GetString("catalog")
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog flag: %w", err)
	}
	cat, err := cliutil.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return lemma.New(append([]lemma.Option{lemma.WithLogger(logger), lemma.WithCatalog(cat)}, opts...)...)
}

func parseLanguage(s string) (language.Tag, error) {
	if s == "" {
		return language.Und, nil
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid language %q: %w", s, err)
	}
	return tag, nil
}

func newNormalizeCommand() *cobra.Command {
	var lang, format string
	cmd := &cobra.Command{
		Use:   "normalize [TEXT...]",
		Short: "Tokenize and normalize TEXT, or standard input when no TEXT is given",
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := parseLanguage(lang)
			if err != nil {
				return err
			}
			write, err := tokenWriter(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading input: %w", err)
				}
				text = string(data)
			}

			eng, err := newEngine(cmd, lemma.WithTokenizer(tokenizer.New(tokenizer.WithLanguage(tag))))
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			toks, err := eng.NormalizeText(cmd.Context(), text)
			if err != nil {
				return err
			}
			return write(toks)
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "BCP 47 language of the text")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or wire")
	return cmd
}

// tokenWriter returns a function writing tokens to w in format.
func tokenWriter(format string, w io.Writer) (func([]token.Token) error, error) {
	switch format {
	case "text":
		return func(toks []token.Token) error {
			return writeText(w, toks)
		}, nil
	case "json":
		return func(toks []token.Token) error {
			enc := json.NewEncoder(w)
			for _, t := range toks {
				if err := enc.Encode(toJSON(t)); err != nil {
					return fmt.Errorf("encoding token: %w", err)
				}
			}
			return nil
		}, nil
	case "wire":
		return func(toks []token.Token) error {
			sw := tokenstream.NewWriter(w)
			for _, t := range toks {
				if err := sw.Write(t); err != nil {
					return err
				}
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeText(w io.Writer, toks []token.Token) error {
	bw := bufio.NewWriter(w)
	for _, t := range toks {
		fmt.Fprintf(bw, "%d:%d\t%d:%d\t%q\t%s\t%s\t%s\n",
			t.CharStart, t.CharEnd, t.ByteStart, t.ByteEnd, t.Lemma, t.Kind, t.Script, t.Language)
	}
	return bw.Flush()
}

type jsonToken struct {
	Lemma     string `json:"lemma"`
	CharStart int    `json:"char_start"`
	CharEnd   int    `json:"char_end"`
	ByteStart int    `json:"byte_start"`
	ByteEnd   int    `json:"byte_end"`
	Script    string `json:"script"`
	Language  string `json:"language"`
	Kind      string `json:"kind"`
}

func toJSON(t token.Token) jsonToken {
	return jsonToken{
		Lemma:     t.Lemma,
		CharStart: t.CharStart,
		CharEnd:   t.CharEnd,
		ByteStart: t.ByteStart,
		ByteEnd:   t.ByteEnd,
		Script:    t.Script.String(),
		Language:  t.Language.String(),
		Kind:      t.Kind.String(),
	}
}

func newStagesCommand() *cobra.Command {
	var script, lang string
	cmd := &cobra.Command{
		Use:   "stages",
		Short: "List the pipeline stages, or those applying to --script and --lang",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := newEngine(cmd, lemma.WithCacheSize(0))
			if err != nil {
				return err
			}
			defer func() { _ = eng.Close() }()

			names := eng.Stages()
			if script != "" || lang != "" {
				sc := token.ScriptUnknown
				if script != "" {
					if sc, err = token.ParseScript(script); err != nil {
						return err
					}
				}
				tag, err := parseLanguage(lang)
				if err != nil {
					return err
				}
				names = eng.StagesFor(sc, tag)
			}

			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&script, "script", "", "Script label, e.g. Latin or Cyrillic")
	cmd.Flags().StringVar(&lang, "lang", "", "BCP 47 language label")
	return cmd
}

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode",
		Short: "Print a wire-format token stream read from standard input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := tokenstream.NewReader(cmd.InOrStdin())
			var toks []token.Token
			for tok, err := range r.All() {
				if err != nil {
					_ = writeText(cmd.OutOrStdout(), toks)
					return err
				}
				toks = append(toks, tok)
			}
			return writeText(cmd.OutOrStdout(), toks)
		},
	}
}
