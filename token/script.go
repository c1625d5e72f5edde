package token

import (
	"fmt"
	"strings"
	"unicode"
)

// Script is a coarse writing-system label attached to a token.
type Script uint8

const (
	ScriptUnknown Script = iota
	Latin
	Cyrillic
	Greek
	Georgian
	Armenian
	Arabic
	Hebrew
	Devanagari
	Thai
	Han
	Hiragana
	Katakana
	Hangul
	ScriptOther
)

var scriptNames = [...]string{
	ScriptUnknown: "Unknown",
	Latin:         "Latin",
	Cyrillic:      "Cyrillic",
	Greek:         "Greek",
	Georgian:      "Georgian",
	Armenian:      "Armenian",
	Arabic:        "Arabic",
	Hebrew:        "Hebrew",
	Devanagari:    "Devanagari",
	Thai:          "Thai",
	Han:           "Han",
	Hiragana:      "Hiragana",
	Katakana:      "Katakana",
	Hangul:        "Hangul",
	ScriptOther:   "Other",
}

// scriptTables maps labelled scripts to their Unicode range tables, in lookup order.
var scriptTables = []struct {
	script Script
	table  *unicode.RangeTable
}{
	{Latin, unicode.Latin},
	{Cyrillic, unicode.Cyrillic},
	{Greek, unicode.Greek},
	{Han, unicode.Han},
	{Arabic, unicode.Arabic},
	{Devanagari, unicode.Devanagari},
	{Hangul, unicode.Hangul},
	{Hiragana, unicode.Hiragana},
	{Katakana, unicode.Katakana},
	{Hebrew, unicode.Hebrew},
	{Thai, unicode.Thai},
	{Georgian, unicode.Georgian},
	{Armenian, unicode.Armenian},
}

// String returns the English name of the script.
func (s Script) String() string {
	if int(s) < len(scriptNames) {
		return scriptNames[s]
	}
	return fmt.Sprintf("Script(%d)", uint8(s))
}

// ParseScript parses an English script name, ignoring case.
func ParseScript(name string) (Script, error) {
	for i, n := range scriptNames {
		if strings.EqualFold(n, name) {
			return Script(i), nil
		}
	}
	return ScriptUnknown, fmt.Errorf("unknown script %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Script) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Script) UnmarshalText(text []byte) error {
	parsed, err := ParseScript(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ScriptOf returns the script of a single rune. Runes shared between scripts
// (digits, punctuation, combining marks) report ScriptUnknown.
func ScriptOf(r rune) Script {
	if r < 0x80 {
		if ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return Latin
		}
		return ScriptUnknown
	}
	for _, st := range scriptTables {
		if unicode.Is(st.table, r) {
			return st.script
		}
	}
	if unicode.IsLetter(r) {
		return ScriptOther
	}
	return ScriptUnknown
}

// DetectScript returns the script of the first rune in s that belongs to one.
func DetectScript(s string) Script {
	for _, r := range s {
		if sc := ScriptOf(r); sc != ScriptUnknown {
			return sc
		}
	}
	return ScriptUnknown
}
