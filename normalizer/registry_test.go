package normalizer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	want := []string{
		"compatibility_decomposition",
		"compatibility_decomposition_token",
		"control_char",
		"lowercase",
		"nonspacing_mark",
		"separator_split",
	}
	if diff := cmp.Diff(want, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	for _, name := range want {
		if n, err := r.Get(name); err != nil || n == nil {
			t.Errorf("Get(%q) = %v, %v", name, n, err)
		}
	}
}

func TestRegistry_Errors(t *testing.T) {
	r := NewRegistry()

	if _, err := r.Get("missing"); !errors.Is(err, ErrUnknownStage) {
		t.Errorf("Get(missing) error = %v, want ErrUnknownStage", err)
	}

	if err := r.Register("upper", func() Normalizer { return FromChar(upperRunes{}) }); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := r.Register("upper", Lowercase); !errors.Is(err, ErrDuplicateStage) {
		t.Errorf("duplicate Register() error = %v, want ErrDuplicateStage", err)
	}
	if err := r.Register("", Lowercase); err == nil {
		t.Error("expected error for empty name")
	}
	if err := r.Register("nil", nil); err == nil {
		t.Error("expected error for nil factory")
	}
}
