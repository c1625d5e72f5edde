package normalizer

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

var (
	// ErrUnknownStage indicates a stage name with no registered factory.
	ErrUnknownStage = errors.New("normalizer: unknown stage")

	// ErrDuplicateStage indicates a second registration under the same name.
	ErrDuplicateStage = errors.New("normalizer: stage already registered")
)

// Factory builds a fresh stage.
type Factory func() Normalizer

// Registry maps stage names to factories.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the built-in stages.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.factories["control_char"] = ControlCharRemoval
	r.factories["compatibility_decomposition"] = CompatibilityDecomposition
	r.factories["compatibility_decomposition_token"] = TokenDecomposition
	r.factories["lowercase"] = Lowercase
	r.factories["nonspacing_mark"] = NonspacingMarkRemoval
	r.factories["separator_split"] = SeparatorSplit
	return r
}

// Get builds the stage registered under name.
func (r *Registry) Get(name string) (Normalizer, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, name)
	}
	return f(), nil
}

// Register adds a stage factory.
func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("registering stage %q: name and factory are required", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateStage, name)
	}
	r.factories[name] = f
	return nil
}

// Names returns the registered stage names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
