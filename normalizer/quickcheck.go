package normalizer

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// QuickCheckResult is the outcome of a quick NFKD check.
type QuickCheckResult uint8

const (
	// AlreadyNormalized means the text is in NFKD and can pass through.
	AlreadyNormalized QuickCheckResult = iota
	// NotNormalized means the text must be decomposed.
	NotNormalized
	// Indeterminate means the text starts with a combining mark, whose canonical
	// order against the text preceding it cannot be decided from this view.
	Indeterminate
)

func (r QuickCheckResult) String() string {
	switch r {
	case AlreadyNormalized:
		return "already-normalized"
	case NotNormalized:
		return "not-normalized"
	case Indeterminate:
		return "indeterminate"
	default:
		return "invalid"
	}
}

// NeedsDecomposition reports whether a quick-check result requires running the
// full decomposition. Indeterminate does: decomposing NFKD text is the identity,
// while skipping a needed decomposition breaks downstream matching.
func NeedsDecomposition(r QuickCheckResult) bool {
	return r != AlreadyNormalized
}

const (
	hangulBase = 0xAC00
	hangulEnd  = 0xD7A4
)

// QuickCheck classifies s without decomposing it.
//
// A rune with a compatibility or canonical decomposition, or a combining mark
// out of canonical order, makes s NotNormalized. A leading combining mark makes
// it Indeterminate unless a later rune settles it as NotNormalized.
func QuickCheck(s string) QuickCheckResult {
	result := AlreadyNormalized
	var lastCCC uint8

	for i := 0; i < len(s); {
		if s[i] < utf8.RuneSelf {
			lastCCC = 0
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(s[i:])
		if r >= hangulBase && r < hangulEnd {
			return NotNormalized
		}

		props := norm.NFKD.PropertiesString(s[i:])
		if len(props.Decomposition()) > 0 {
			return NotNormalized
		}

		ccc := props.CCC()
		if ccc != 0 {
			if i == 0 {
				result = Indeterminate
			} else if lastCCC > ccc {
				return NotNormalized
			}
		}
		lastCCC = ccc
		i += size
	}

	return result
}

// QuickCheckRune classifies a single rune. Any combining mark is Indeterminate
// because a rune on its own has no preceding context.
func QuickCheckRune(r rune) QuickCheckResult {
	if r < utf8.RuneSelf {
		return AlreadyNormalized
	}
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	return QuickCheck(string(buf[:n]))
}
