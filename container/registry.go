package container

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrNotLocated is returned by Registry.Locate when no candidate root of a
// kind could be opened. It is an expected outcome, not a setup failure.
var ErrNotLocated = errors.New("container: not located")

// Environment carries the inputs locators use to find container roots.
type Environment struct {
	// PackagedName is the base name of the packaged container, without the
	// .bundle suffix.
	PackagedName string
	// ApplicationDir is the top-level application directory.
	ApplicationDir string
	// ModuleDir is the enclosing module's own directory.
	ModuleDir string
	// SearchRoots are scanned by the discovered kind.
	SearchRoots []string
}

// Locator lists candidate roots for a kind, best first.
type Locator func(env Environment) []string

// Registry maps container kinds to their locators.
type Registry struct {
	mu       sync.RWMutex
	locators map[Kind]Locator
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{locators: map[Kind]Locator{}}
}

// DefaultRegistry returns a registry holding the builtin kinds.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	RegisterBuiltins(reg)
	return reg
}

// Register installs a locator. Returns an error if the kind already exists.
func (r *Registry) Register(kind Kind, locator Locator) error {
	if strings.TrimSpace(string(kind)) == "" {
		return fmt.Errorf("container: kind is required")
	}
	if locator == nil {
		return fmt.Errorf("container: locator is required for %s", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.locators[kind]; exists {
		return fmt.Errorf("container: %s already registered", kind)
	}
	r.locators[kind] = locator
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(kind Kind, locator Locator) {
	if err := r.Register(kind, locator); err != nil {
		panic(err)
	}
}

// Lookup returns the locator registered for kind.
func (r *Registry) Lookup(kind Kind) (Locator, error) {
	r.mu.RLock()
	locator, ok := r.locators[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("container: unknown kind %s", kind)
	}
	return locator, nil
}

// Kinds returns a sorted list of registered kinds.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]Kind, 0, len(r.locators))
	for kind := range r.locators {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Locate opens the first candidate root of kind that exists and is loadable.
// Unknown kinds are an error; a kind with no loadable candidate returns
// ErrNotLocated.
func (r *Registry) Locate(kind Kind, env Environment, rank int) (*Container, error) {
	locator, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	for _, candidate := range locator(env) {
		c, err := Open(kind, candidate, rank)
		if err != nil {
			continue
		}
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotLocated, kind)
}
