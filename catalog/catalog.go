// Package catalog loads the ordered list of normalization stages to run and the
// script/language restrictions attached to each.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/normalizer"
	"github.com/jamesainslie/go-lemma/token"
)

// ErrInvalidCatalog indicates a catalog that cannot be parsed or validated.
var ErrInvalidCatalog = errors.New("catalog: invalid catalog")

//go:embed default.yaml
var defaultYAML []byte

// Entry is one stage of the catalog as written in YAML.
type Entry struct {
	Name      string   `yaml:"name"`
	Scripts   []string `yaml:"scripts,omitempty"`
	Languages []string `yaml:"languages,omitempty"`
}

// Catalog is an ordered, validated list of stage entries.
type Catalog struct {
	entries []entry
}

type entry struct {
	Entry
	scripts []token.Script
	langs   []language.Tag
}

type document struct {
	Stages []Entry `yaml:"stages"`
}

// Stage is a catalog entry bound to its built normalizer.
type Stage struct {
	Name       string
	Normalizer normalizer.Normalizer
}

// Default returns the embedded default catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
	}
	return c
}

// Load reads and parses a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse parses and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if len(doc.Stages) == 0 {
		return nil, fmt.Errorf("%w: no stages", ErrInvalidCatalog)
	}

	c := &Catalog{entries: make([]entry, 0, len(doc.Stages))}
	for i, e := range doc.Stages {
		parsed, err := parseEntry(e)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %d: %w", ErrInvalidCatalog, i, err)
		}
		c.entries = append(c.entries, parsed)
	}
	return c, nil
}

func parseEntry(e Entry) (entry, error) {
	if e.Name == "" {
		return entry{}, errors.New("missing name")
	}
	out := entry{Entry: e}
	for _, s := range e.Scripts {
		script, err := token.ParseScript(s)
		if err != nil {
			return entry{}, fmt.Errorf("%s: %w", e.Name, err)
		}
		out.scripts = append(out.scripts, script)
	}
	for _, l := range e.Languages {
		tag, err := language.Parse(l)
		if err != nil {
			return entry{}, fmt.Errorf("%s: language %q: %w", e.Name, l, err)
		}
		out.langs = append(out.langs, tag)
	}
	return out, nil
}

// Entries returns the catalog entries in order.
func (c *Catalog) Entries() []Entry {
	return lo.Map(c.entries, func(e entry, _ int) Entry { return e.Entry })
}

// Names returns the distinct stage names in first-use order.
func (c *Catalog) Names() []string {
	return lo.Uniq(lo.Map(c.entries, func(e entry, _ int) string { return e.Name }))
}

// Build instantiates every entry from reg, restricted as the catalog says.
func (c *Catalog) Build(reg *normalizer.Registry) ([]Stage, error) {
	stages := make([]Stage, 0, len(c.entries))
	for _, e := range c.entries {
		n, err := reg.Get(e.Name)
		if err != nil {
			return nil, fmt.Errorf("building catalog: %w", err)
		}
		stages = append(stages, Stage{
			Name:       e.Name,
			Normalizer: normalizer.Restrict(n, e.scripts, e.langs),
		})
	}
	return stages, nil
}

// Normalizers returns the normalizers of stages, in order.
func Normalizers(stages []Stage) []normalizer.Normalizer {
	return lo.Map(stages, func(s Stage, _ int) normalizer.Normalizer { return s.Normalizer })
}

// Applicable returns the names of the stages whose label gate admits script and
// lang. Stages without a label-only gate depend on token content and are always
// listed.
func Applicable(stages []Stage, script token.Script, lang language.Tag) []string {
	matching := lo.Filter(stages, func(s Stage, _ int) bool {
		g, ok := s.Normalizer.(normalizer.ScriptGate)
		return !ok || g.AppliesTo(script, lang)
	})
	return lo.Map(matching, func(s Stage, _ int) string { return s.Name })
}
