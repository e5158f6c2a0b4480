// Package recipe defines the descriptor record a fetch engine consumes to
// turn a publication's feeds into a periodical. A descriptor carries no
// behavior of its own: it names the publication, points at its feeds in
// display order, and sets the knobs the engine honors (article age and
// count limits, cleanup policy). Fetching, feed parsing, and content
// cleanup belong to the engine, never to this package.
package recipe

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// Custom errors for descriptor operations
var (
	// ErrMalformedDescriptor reports a document whose feeds entry is not a
	// sequence of [label, url] string pairs. It is a decoding error: a
	// Descriptor built in code always has the right shape.
	ErrMalformedDescriptor = errors.New("malformed descriptor")

	// ErrInvalidDescriptor reports a well-formed descriptor whose field
	// values violate a constraint (empty title, non-positive limits,
	// unparseable language, bad feed URL).
	ErrInvalidDescriptor = errors.New("invalid descriptor")
)

// Feed is one entry in a descriptor's feed list: a display label and the
// feed URL the engine should fetch. It serializes as a [label, url] pair.
type Feed struct {
	Label string
	URL   string
}

// FeedList is an ordered list of feed entries. Order is display order and
// is preserved by every operation in this module.
type FeedList []Feed

// Descriptor is a declarative recipe for building a periodical from a
// publication's feeds. Descriptors are plain values: construct one with a
// composite literal, and treat it as immutable afterwards. Construction
// performs no validation; call Validate before handing a descriptor to an
// engine or a store.
type Descriptor struct {
	Title    string `yaml:"title" json:"title"`
	Language string `yaml:"language" json:"language"`
	Author   string `yaml:"author" json:"author"`

	// Description is an optional summary shown in catalog listings.
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// OldestArticleDays is the maximum article age in days; the engine
	// drops anything older.
	OldestArticleDays int `yaml:"oldest_article_days" json:"oldest_article_days"`

	// MaxArticlesPerFeed caps how many items the engine takes per feed.
	MaxArticlesPerFeed int `yaml:"max_articles_per_feed" json:"max_articles_per_feed"`

	UseEmbeddedContent bool `yaml:"use_embedded_content" json:"use_embedded_content"`
	NoStylesheets      bool `yaml:"no_stylesheets" json:"no_stylesheets"`
	AutoCleanup        bool `yaml:"auto_cleanup" json:"auto_cleanup"`

	// KeepSelectors and RemoveSelectors are optional CSS selector hints
	// for the engine's cleanup stage, overriding the generic AutoCleanup
	// heuristic. They are declarative only; nothing here applies them.
	KeepSelectors   []string `yaml:"keep_selectors,omitempty" json:"keep_selectors,omitempty"`
	RemoveSelectors []string `yaml:"remove_selectors,omitempty" json:"remove_selectors,omitempty"`

	// Tags are optional catalog keywords (e.g. "news", "uk").
	Tags []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	Feeds FeedList `yaml:"feeds" json:"feeds"`
}

// Clone returns a deep copy of the descriptor. Stores and registries hand
// out clones so that callers can never mutate a shared value.
func (d Descriptor) Clone() Descriptor {
	out := d
	if d.Feeds != nil {
		out.Feeds = make(FeedList, len(d.Feeds))
		copy(out.Feeds, d.Feeds)
	}
	out.KeepSelectors = cloneStrings(d.KeepSelectors)
	out.RemoveSelectors = cloneStrings(d.RemoveSelectors)
	out.Tags = cloneStrings(d.Tags)
	return out
}

// ParseLanguage parses a language code into a BCP 47 tag. Both "en_GB"
// and "en-GB" forms are accepted.
func ParseLanguage(lang string) (language.Tag, error) {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return language.Und, fmt.Errorf("failed to parse language %q: %w", lang, err)
	}
	return tag, nil
}

// LanguageTag parses the descriptor's language into a BCP 47 tag. The
// stored string is never rewritten, so round-trips preserve whatever
// form the author used.
func (d Descriptor) LanguageTag() (language.Tag, error) {
	return ParseLanguage(d.Language)
}

// HasTag reports whether the descriptor carries the given catalog keyword.
func (d Descriptor) HasTag(tag string) bool {
	for _, t := range d.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Validate checks the descriptor's field constraints. An empty feed list
// is valid: the engine just produces an empty periodical. Errors wrap
// ErrInvalidDescriptor.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidDescriptor)
	}
	if _, err := d.LanguageTag(); err != nil {
		return fmt.Errorf("%w: language %q is not a recognizable locale tag", ErrInvalidDescriptor, d.Language)
	}
	if d.OldestArticleDays <= 0 {
		return fmt.Errorf("%w: oldest_article_days must be positive, got %d", ErrInvalidDescriptor, d.OldestArticleDays)
	}
	if d.MaxArticlesPerFeed <= 0 {
		return fmt.Errorf("%w: max_articles_per_feed must be positive, got %d", ErrInvalidDescriptor, d.MaxArticlesPerFeed)
	}
	for i, f := range d.Feeds {
		if strings.TrimSpace(f.Label) == "" {
			return fmt.Errorf("%w: feeds[%d] has an empty label", ErrInvalidDescriptor, i)
		}
		if err := validateFeedURL(f.URL); err != nil {
			return fmt.Errorf("%w: feeds[%d] (%s): %v", ErrInvalidDescriptor, i, f.Label, err)
		}
	}
	return nil
}

// validateFeedURL requires an absolute http or https URL.
func validateFeedURL(raw string) error {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid URL %q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
