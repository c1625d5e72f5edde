package tokenizer

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/jamesainslie/go-lemma/token"
)

var tagComparer = cmp.Comparer(func(a, b language.Tag) bool { return a == b })

func TestEncode_Latin(t *testing.T) {
	tok := New(WithLanguage(language.English))
	got := tok.Encode("Hello, world")

	want := []token.Token{
		{Lemma: "Hello", CharStart: 0, CharEnd: 5, ByteStart: 0, ByteEnd: 5, Script: token.Latin, Language: language.English, Kind: token.Word},
		{Lemma: ",", CharStart: 5, CharEnd: 6, ByteStart: 5, ByteEnd: 6, Script: token.Latin, Language: language.English, Kind: token.Separator},
		{Lemma: " ", CharStart: 6, CharEnd: 7, ByteStart: 6, ByteEnd: 7, Script: token.Latin, Language: language.English, Kind: token.Separator},
		{Lemma: "world", CharStart: 7, CharEnd: 12, ByteStart: 7, ByteEnd: 12, Script: token.Latin, Language: language.English, Kind: token.Word},
	}
	if diff := cmp.Diff(want, got, tagComparer); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Offsets(t *testing.T) {
	// "Privet, mir 42" in Cyrillic: two-byte letters, so byte and char
	// offsets diverge after the first word.
	text := "\u041F\u0440\u0438\u0432\u0435\u0442, \u043C\u0438\u0440 42"
	got := New(WithLanguage(language.Russian)).Encode(text)

	lemmas := make([]string, len(got))
	for i, tk := range got {
		lemmas[i] = tk.Lemma
	}
	wantLemmas := []string{"\u041F\u0440\u0438\u0432\u0435\u0442", ",", " ", "\u043C\u0438\u0440", " ", "42"}
	if diff := cmp.Diff(wantLemmas, lemmas); diff != "" {
		t.Fatalf("lemmas mismatch (-want +got):\n%s", diff)
	}

	if got[3].CharStart != 8 || got[3].ByteStart != 14 {
		t.Errorf("third word at (%d, %d), want (8, 14)", got[3].CharStart, got[3].ByteStart)
	}

	// Digits carry no script of their own and take the text's.
	if got[5].Script != token.Cyrillic {
		t.Errorf("digits script = %v, want Cyrillic", got[5].Script)
	}
}

func TestEncode_Coverage(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"solid",
		"tab\tand\nnewline",
		"\u00C9l\u00E9gant \u2460\u2461",
		"\u4E2D\u6587 mixed \u0395\u03BB\u03BB\u03B7\u03BD\u03B9\u03BA\u03AC",
	}

	for _, text := range inputs {
		got := New().Encode(text)

		var joined strings.Builder
		charPos, bytePos := 0, 0
		for _, tk := range got {
			if tk.CharStart != charPos || tk.ByteStart != bytePos {
				t.Errorf("%q: token %q starts at (%d, %d), want (%d, %d)",
					text, tk.Lemma, tk.CharStart, tk.ByteStart, charPos, bytePos)
			}
			if err := tk.Validate(); err != nil {
				t.Errorf("%q: %v", text, err)
			}
			if tk.Language != language.Und {
				t.Errorf("%q: token %q has language %v, want und", text, tk.Lemma, tk.Language)
			}
			joined.WriteString(tk.Lemma)
			charPos, bytePos = tk.CharEnd, tk.ByteEnd
		}
		if joined.String() != text {
			t.Errorf("tokens of %q join to %q", text, joined.String())
		}
	}
}

func TestEncode_Scripts(t *testing.T) {
	text := "\u4E2D\u6587 mixed \u0395\u03BB\u03BB\u03B7\u03BD\u03B9\u03BA\u03AC"
	got := New().Encode(text)

	scripts := make(map[string]token.Script)
	for _, tk := range got {
		if tk.Kind == token.Word {
			scripts[tk.Lemma] = tk.Script
		}
	}

	if scripts["mixed"] != token.Latin {
		t.Errorf("mixed = %v, want Latin", scripts["mixed"])
	}
	if sc := scripts["\u0395\u03BB\u03BB\u03B7\u03BD\u03B9\u03BA\u03AC"]; sc != token.Greek {
		t.Errorf("greek word = %v, want Greek", sc)
	}
	for lemma, sc := range scripts {
		if strings.ContainsRune(lemma, '\u4E2D') && sc != token.Han {
			t.Errorf("%q = %v, want Han", lemma, sc)
		}
	}
}

func TestAll_StopsEarly(t *testing.T) {
	var n int
	for range New().All("one two three four") {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("consumed %d tokens, want 3", n)
	}
}

func TestEncode_Empty(t *testing.T) {
	if got := New().Encode(""); got != nil {
		t.Errorf("Encode(\"\") = %+v, want nil", got)
	}
	if got := slices.Collect(New().All("")); len(got) != 0 {
		t.Errorf("All(\"\") yielded %d tokens", len(got))
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		word string
		want token.Kind
	}{
		{"word", token.Word},
		{"42", token.Word},
		{"\u2460", token.Word},
		{" ", token.Separator},
		{"\t", token.Separator},
		{".", token.Separator},
		{"\u00BF", token.Separator},
	}
	for _, tt := range tests {
		if got := kindOf(tt.word); got != tt.want {
			t.Errorf("kindOf(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}
