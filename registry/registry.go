// Package registry holds recipe descriptors registered under stable IDs,
// so hosts can discover publications by name instead of linking against
// concrete values. Builtin recipes register themselves into Default from
// their package's init, the same way database/sql drivers do; a host that
// wants the builtin set imports newsstand/builtin for its side effects.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"sync"

	"github.com/samber/lo"

	"newsstand/recipe"
)

// Custom errors for registry operations
var (
	ErrDuplicateID = errors.New("recipe with this ID already registered")
	ErrInvalidID   = errors.New("recipe ID must be lowercase letters, digits, and underscores")
)

var idPattern = regexp.MustCompile(`^[a-z0-9_]+$`)

// Entry pairs a registered ID with its descriptor.
type Entry struct {
	ID         string
	Descriptor recipe.Descriptor
}

// Registry is a set of descriptors keyed by ID. It is safe for concurrent
// use. Descriptors are cloned on the way in and on the way out, so no
// caller ever shares a slice with the registry.
type Registry struct {
	mu      sync.RWMutex
	recipes map[string]recipe.Descriptor
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{recipes: make(map[string]recipe.Descriptor)}
}

// Default is the process-wide registry that builtin recipes register into.
var Default = New()

// Register adds a descriptor under id.
func (r *Registry) Register(id string, d recipe.Descriptor) error {
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.recipes[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	r.recipes[id] = d.Clone()
	return nil
}

// MustRegister is Register for init-time use; it panics on error.
func (r *Registry) MustRegister(id string, d recipe.Descriptor) {
	if err := r.Register(id, d); err != nil {
		panic(err)
	}
}

// Lookup returns a copy of the descriptor registered under id.
func (r *Registry) Lookup(id string) (recipe.Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.recipes[id]
	if !ok {
		return recipe.Descriptor{}, false
	}
	return d.Clone(), true
}

// IDs returns all registered IDs in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.recipes))
	for id := range r.recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of registered recipes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.recipes)
}

// All returns every entry, sorted by ID.
func (r *Registry) All() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.recipes))
	for id, d := range r.recipes {
		entries = append(entries, Entry{ID: id, Descriptor: d.Clone()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// ByLanguage returns entries whose language resolves to the same tag as
// lang. "en_GB" and "en-GB" match each other; "en" and "en_GB" do not.
func (r *Registry) ByLanguage(lang string) []Entry {
	want, err := recipe.ParseLanguage(lang)
	if err != nil {
		return nil
	}
	return lo.Filter(r.All(), func(e Entry, _ int) bool {
		got, err := e.Descriptor.LanguageTag()
		return err == nil && got == want
	})
}

// ByTag returns entries carrying the given catalog keyword.
func (r *Registry) ByTag(tag string) []Entry {
	return lo.Filter(r.All(), func(e Entry, _ int) bool {
		return e.Descriptor.HasTag(tag)
	})
}

// Register adds a descriptor to the default registry.
func Register(id string, d recipe.Descriptor) error {
	return Default.Register(id, d)
}

// MustRegister adds a descriptor to the default registry and panics on
// error. Builtin recipe packages call this from init.
func MustRegister(id string, d recipe.Descriptor) {
	Default.MustRegister(id, d)
}

// Lookup consults the default registry.
func Lookup(id string) (recipe.Descriptor, bool) {
	return Default.Lookup(id)
}
