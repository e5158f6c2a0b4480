// Package catalog merges the compiled-in recipe collection with a user's
// stored recipes into one addressable view. Entries are referenced as
// "builtin:<id>" or "custom:<slug>"; a bare name tries builtins first,
// then custom slugs, then custom recipe UUIDs.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"newsstand/recipe"
	"newsstand/registry"
	"newsstand/store"
)

// Custom errors for catalog operations
var (
	ErrNotFound        = errors.New("recipe not found in catalog")
	ErrBuiltinReadOnly = errors.New("builtin recipes are read-only")
	ErrNoStore         = errors.New("no recipe store configured")
	ErrUnknownFormat   = errors.New("unknown export format")
)

// Origin says where a catalog entry lives.
type Origin string

const (
	OriginBuiltin Origin = "builtin"
	OriginCustom  Origin = "custom"
)

// Entry is one catalog row.
type Entry struct {
	Ref        string            `json:"ref"`
	Origin     Origin            `json:"origin"`
	Slug       string            `json:"slug"`
	Descriptor recipe.Descriptor `json:"descriptor"`
}

// Filter represents filtering options for listing the catalog.
type Filter struct {
	Origin   Origin // "builtin", "custom", or empty for both
	Language string
	Tag      string
}

// Catalog is the merged view. The store may be nil, leaving a
// builtins-only catalog.
type Catalog struct {
	registry *registry.Registry
	store    *store.Store
}

// New builds a catalog over a registry and an optional store. A nil
// registry means registry.Default.
func New(reg *registry.Registry, st *store.Store) *Catalog {
	if reg == nil {
		reg = registry.Default
	}
	return &Catalog{registry: reg, store: st}
}

// Store exposes the backing recipe store, for surfaces that manage
// authoring defaults alongside the catalog. Nil when the catalog is
// builtins-only.
func (c *Catalog) Store() *store.Store {
	return c.store
}

// BuiltinRef renders the reference for a builtin ID.
func BuiltinRef(id string) string { return string(OriginBuiltin) + ":" + id }

// CustomRef renders the reference for a custom slug.
func CustomRef(slug string) string { return string(OriginCustom) + ":" + slug }

// splitRef separates an origin-prefixed reference.
func splitRef(ref string) (Origin, string, bool) {
	prefix, name, found := strings.Cut(ref, ":")
	if !found {
		return "", ref, false
	}
	return Origin(prefix), name, true
}

// List returns catalog entries: builtins sorted by ID, then custom
// recipes sorted by slug.
func (c *Catalog) List(filter Filter) ([]Entry, error) {
	var entries []Entry

	if filter.Origin == "" || filter.Origin == OriginBuiltin {
		builtins := lo.Filter(c.registry.All(), func(e registry.Entry, _ int) bool {
			return matchesFilter(e.Descriptor, filter)
		})
		entries = append(entries, lo.Map(builtins, func(e registry.Entry, _ int) Entry {
			return Entry{
				Ref:        BuiltinRef(e.ID),
				Origin:     OriginBuiltin,
				Slug:       e.ID,
				Descriptor: e.Descriptor,
			}
		})...)
	}

	if (filter.Origin == "" || filter.Origin == OriginCustom) && c.store != nil {
		recipes, err := c.store.List(store.Filter{Language: filter.Language, Tag: filter.Tag})
		if err != nil {
			return nil, err
		}
		sort.Slice(recipes, func(i, j int) bool { return recipes[i].Slug < recipes[j].Slug })
		for _, rec := range recipes {
			entries = append(entries, entryFromStored(rec))
		}
	}

	return entries, nil
}

// Resolve finds one entry by reference. Prefixed references look only in
// their origin; bare names try builtin IDs, then custom slugs, then
// custom recipe UUIDs.
func (c *Catalog) Resolve(ref string) (*Entry, error) {
	if origin, name, prefixed := splitRef(ref); prefixed {
		switch origin {
		case OriginBuiltin:
			if d, found := c.registry.Lookup(name); found {
				return &Entry{Ref: BuiltinRef(name), Origin: OriginBuiltin, Slug: name, Descriptor: d}, nil
			}
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
		case OriginCustom:
			return c.resolveCustomSlug(name, ref)
		default:
			return nil, fmt.Errorf("%w: unknown origin in %q", ErrNotFound, ref)
		}
	}

	if d, found := c.registry.Lookup(ref); found {
		return &Entry{Ref: BuiltinRef(ref), Origin: OriginBuiltin, Slug: ref, Descriptor: d}, nil
	}

	if c.store != nil {
		rec, err := c.store.GetBySlug(ref)
		if err == nil {
			entry := entryFromStored(*rec)
			return &entry, nil
		}
		if !errors.Is(err, store.ErrRecipeNotFound) {
			return nil, err
		}

		if id, parseErr := uuid.Parse(ref); parseErr == nil {
			rec, err := c.store.Get(id)
			if err == nil {
				entry := entryFromStored(*rec)
				return &entry, nil
			}
			if !errors.Is(err, store.ErrRecipeNotFound) {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// Create stores a new custom recipe and returns its catalog entry.
func (c *Catalog) Create(slug string, d recipe.Descriptor) (*Entry, error) {
	if c.store == nil {
		return nil, ErrNoStore
	}
	rec, err := c.store.Create(slug, d)
	if err != nil {
		return nil, err
	}
	entry := entryFromStored(*rec)
	return &entry, nil
}

// Update replaces a custom recipe's descriptor. Builtins are read-only.
func (c *Catalog) Update(ref string, d recipe.Descriptor) (*Entry, error) {
	rec, err := c.lookupStored(ref)
	if err != nil {
		return nil, err
	}
	updated, err := c.store.Update(rec.ID, d)
	if err != nil {
		return nil, err
	}
	entry := entryFromStored(*updated)
	return &entry, nil
}

// Delete removes a custom recipe. Builtins are read-only.
func (c *Catalog) Delete(ref string) error {
	rec, err := c.lookupStored(ref)
	if err != nil {
		return err
	}
	return c.store.Delete(rec.ID)
}

// Export formats

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export renders one entry's descriptor in its document form. An empty
// format means YAML.
func (c *Catalog) Export(ref, format string) ([]byte, error) {
	entry, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	switch format {
	case "", FormatYAML:
		return recipe.Encode(&entry.Descriptor)
	case FormatJSON:
		return recipe.EncodeJSON(&entry.Descriptor)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// lookupStored resolves a reference that must name a custom recipe.
func (c *Catalog) lookupStored(ref string) (*store.Recipe, error) {
	origin, name, prefixed := splitRef(ref)
	if prefixed && origin == OriginBuiltin {
		return nil, fmt.Errorf("%w: %q", ErrBuiltinReadOnly, ref)
	}
	if prefixed && origin != OriginCustom {
		return nil, fmt.Errorf("%w: unknown origin in %q", ErrNotFound, ref)
	}
	if !prefixed {
		if _, found := c.registry.Lookup(name); found {
			return nil, fmt.Errorf("%w: %q", ErrBuiltinReadOnly, ref)
		}
	}
	if c.store == nil {
		return nil, ErrNoStore
	}

	rec, err := c.store.GetBySlug(name)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrRecipeNotFound) {
		return nil, err
	}

	if id, parseErr := uuid.Parse(name); parseErr == nil {
		rec, err := c.store.Get(id)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, store.ErrRecipeNotFound) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

func (c *Catalog) resolveCustomSlug(slug, ref string) (*Entry, error) {
	if c.store == nil {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
	}
	rec, err := c.store.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, store.ErrRecipeNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
		}
		return nil, err
	}
	entry := entryFromStored(*rec)
	return &entry, nil
}

func entryFromStored(rec store.Recipe) Entry {
	return Entry{
		Ref:        CustomRef(rec.Slug),
		Origin:     OriginCustom,
		Slug:       rec.Slug,
		Descriptor: rec.Descriptor,
	}
}

// matchesFilter applies language and tag filters to a descriptor.
func matchesFilter(d recipe.Descriptor, filter Filter) bool {
	if filter.Language != "" && !languageEqual(d, filter.Language) {
		return false
	}
	if filter.Tag != "" && !d.HasTag(filter.Tag) {
		return false
	}
	return true
}

func languageEqual(d recipe.Descriptor, lang string) bool {
	want, err := recipe.ParseLanguage(lang)
	if err != nil {
		return false
	}
	got, err := d.LanguageTag()
	return err == nil && got == want
}
