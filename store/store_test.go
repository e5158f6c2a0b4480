package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsstand/recipe"
)

// Test helper: create a test recipe store
func createTestStore(t *testing.T) *Store {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	require.NoError(t, err, "should create recipe store")
	t.Cleanup(func() { store.Close() })
	return store
}

// Test helper: a complete custom recipe descriptor
func createTestDescriptor() recipe.Descriptor {
	return recipe.Descriptor{
		Title:              "Example Gazette",
		Language:           "en_GB",
		Author:             "tester",
		Description:        "A test publication",
		OldestArticleDays:  1,
		MaxArticlesPerFeed: 25,
		UseEmbeddedContent: false,
		NoStylesheets:      true,
		AutoCleanup:        true,
		Tags:               []string{"news", "test"},
		Feeds: recipe.FeedList{
			{Label: "News", URL: "http://www.example.com/news/rss/"},
			{Label: "Sports", URL: "http://www.example.com/sport/rss/"},
		},
	}
}

// TestNew_CreatesDatabase verifies database creation
func TestNew_CreatesDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store, err := New(dbPath)
	require.NoError(t, err, "should create store")
	require.NotNil(t, store)
	defer store.Close()

	recipes, err := store.List(Filter{})
	require.NoError(t, err, "should be able to query database")
	assert.Empty(t, recipes, "new database should have no recipes")
}

// TestNew_ExistingDatabase verifies data persists across connections
func TestNew_ExistingDatabase(t *testing.T) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store1, err := New(dbPath)
	require.NoError(t, err)
	created, err := store1.Create("", createTestDescriptor())
	require.NoError(t, err)
	store1.Close()

	store2, err := New(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Descriptor, got.Descriptor, "descriptor should persist across connections")
}

// TestCreate_DerivesSlugFromTitle verifies the auto-slug
func TestCreate_DerivesSlugFromTitle(t *testing.T) {
	store := createTestStore(t)

	rec, err := store.Create("", createTestDescriptor())
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, "example_gazette", rec.Slug)
	assert.NotEqual(t, uuid.Nil, rec.ID, "should generate UUID")
	assert.True(t, rec.CreatedAt.Equal(rec.UpdatedAt), "created and updated should be equal initially")
}

// TestCreate_ExplicitSlug verifies a caller-chosen slug wins
func TestCreate_ExplicitSlug(t *testing.T) {
	store := createTestStore(t)

	rec, err := store.Create("my_gazette", createTestDescriptor())
	require.NoError(t, err)
	assert.Equal(t, "my_gazette", rec.Slug)
}

// TestCreate_InvalidSlug verifies the slug rule
func TestCreate_InvalidSlug(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Create("My Gazette", createTestDescriptor())
	assert.ErrorIs(t, err, ErrInvalidSlug)
}

// TestCreate_DuplicateSlug verifies the unique slug constraint
func TestCreate_DuplicateSlug(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Create("dup", createTestDescriptor())
	require.NoError(t, err)

	_, err = store.Create("dup", createTestDescriptor())
	assert.ErrorIs(t, err, ErrDuplicateSlug, "should return duplicate slug error")
}

// TestCreate_InvalidDescriptor verifies validation runs before insert
func TestCreate_InvalidDescriptor(t *testing.T) {
	store := createTestStore(t)

	d := createTestDescriptor()
	d.Feeds[0].URL = "ftp://example.com/feed"
	_, err := store.Create("", d)
	assert.ErrorIs(t, err, recipe.ErrInvalidDescriptor)

	recipes, err := store.List(Filter{})
	require.NoError(t, err)
	assert.Empty(t, recipes, "nothing should be stored")
}

// TestCreate_EmptyFeedsIsStorable verifies the zero-feeds boundary case
func TestCreate_EmptyFeedsIsStorable(t *testing.T) {
	store := createTestStore(t)

	d := createTestDescriptor()
	d.Feeds = recipe.FeedList{}
	rec, err := store.Create("", d)
	require.NoError(t, err, "empty feed list is valid, just useless")

	got, err := store.Get(rec.ID)
	require.NoError(t, err)
	assert.Len(t, got.Descriptor.Feeds, 0)
}

// TestCreate_AppliesShippedDefaults verifies sparse descriptors get the
// stock authoring defaults
func TestCreate_AppliesShippedDefaults(t *testing.T) {
	store := createTestStore(t)

	d := recipe.Descriptor{
		Title: "Sparse",
		Feeds: recipe.FeedList{{Label: "News", URL: "http://example.com/rss"}},
	}
	rec, err := store.Create("", d)
	require.NoError(t, err)

	assert.Equal(t, "en", rec.Descriptor.Language)
	assert.Equal(t, 7, rec.Descriptor.OldestArticleDays)
	assert.Equal(t, 100, rec.Descriptor.MaxArticlesPerFeed)
}

// TestCreate_AppliesConfiguredDefaults verifies SetDefaults changes what
// fills the gaps
func TestCreate_AppliesConfiguredDefaults(t *testing.T) {
	store := createTestStore(t)

	err := store.SetDefaults(Defaults{
		Author:             "News Desk",
		Language:           "en_US",
		OldestArticleDays:  3,
		MaxArticlesPerFeed: 50,
	})
	require.NoError(t, err)

	d := recipe.Descriptor{
		Title: "Sparse",
		Feeds: recipe.FeedList{{Label: "News", URL: "http://example.com/rss"}},
	}
	rec, err := store.Create("", d)
	require.NoError(t, err)

	assert.Equal(t, "News Desk", rec.Descriptor.Author)
	assert.Equal(t, "en_US", rec.Descriptor.Language)
	assert.Equal(t, 3, rec.Descriptor.OldestArticleDays)
	assert.Equal(t, 50, rec.Descriptor.MaxArticlesPerFeed)
}

// TestCreate_DefaultsDoNotMaskBadValues verifies explicitly bad values
// still fail validation
func TestCreate_DefaultsDoNotMaskBadValues(t *testing.T) {
	store := createTestStore(t)

	d := createTestDescriptor()
	d.OldestArticleDays = -1
	_, err := store.Create("", d)
	assert.ErrorIs(t, err, recipe.ErrInvalidDescriptor)
}

// TestGet_PreservesAllFields verifies a full descriptor survives storage
func TestGet_PreservesAllFields(t *testing.T) {
	store := createTestStore(t)

	d := createTestDescriptor()
	d.KeepSelectors = []string{"article.main"}
	d.RemoveSelectors = []string{"aside", ".advert"}
	created, err := store.Create("", d)
	require.NoError(t, err)

	got, err := store.Get(created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.Slug, got.Slug)
	assert.Equal(t, d, got.Descriptor, "descriptor should survive field for field")
	require.Len(t, got.Descriptor.Feeds, 2)
	assert.Equal(t, "News", got.Descriptor.Feeds[0].Label, "feed order should survive storage")
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

// TestGet_NotFound verifies error for a non-existent recipe
func TestGet_NotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound, "should return not found error")
}

// TestGetBySlug verifies slug lookup
func TestGetBySlug(t *testing.T) {
	store := createTestStore(t)

	created, err := store.Create("by_slug", createTestDescriptor())
	require.NoError(t, err)

	got, err := store.GetBySlug("by_slug")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = store.GetBySlug("missing")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

// TestList_NewestFirst verifies ordering
func TestList_NewestFirst(t *testing.T) {
	store := createTestStore(t)

	first, err := store.Create("first", createTestDescriptor())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, err := store.Create("second", createTestDescriptor())
	require.NoError(t, err)

	recipes, err := store.List(Filter{})
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	assert.Equal(t, second.ID, recipes[0].ID, "newest should come first")
	assert.Equal(t, first.ID, recipes[1].ID)
}

// TestList_LanguageFilter verifies language matching across separator
// forms
func TestList_LanguageFilter(t *testing.T) {
	store := createTestStore(t)

	gb := createTestDescriptor()
	gb.Language = "en_GB"
	_, err := store.Create("british", gb)
	require.NoError(t, err)

	us := createTestDescriptor()
	us.Language = "en-US"
	_, err = store.Create("american", us)
	require.NoError(t, err)

	recipes, err := store.List(Filter{Language: "en-GB"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "british", recipes[0].Slug)

	recipes, err = store.List(Filter{Language: "en_US"})
	require.NoError(t, err)
	require.Len(t, recipes, 1, "underscore query form should match too")
	assert.Equal(t, "american", recipes[0].Slug)
}

// TestList_TagFilter verifies keyword filtering
func TestList_TagFilter(t *testing.T) {
	store := createTestStore(t)

	tagged := createTestDescriptor()
	tagged.Tags = []string{"sports"}
	_, err := store.Create("tagged", tagged)
	require.NoError(t, err)

	plain := createTestDescriptor()
	plain.Tags = nil
	_, err = store.Create("plain", plain)
	require.NoError(t, err)

	recipes, err := store.List(Filter{Tag: "Sports"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "tagged", recipes[0].Slug)
}

// TestList_Pagination verifies limit and offset apply after filtering
func TestList_Pagination(t *testing.T) {
	store := createTestStore(t)

	for _, slug := range []string{"one", "two", "three"} {
		_, err := store.Create(slug, createTestDescriptor())
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	recipes, err := store.List(Filter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)

	recipes, err = store.List(Filter{Offset: 2})
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	recipes, err = store.List(Filter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, recipes, "offset past the end yields nothing")
}

// TestUpdate_ReplacesDescriptor verifies whole-descriptor replacement
func TestUpdate_ReplacesDescriptor(t *testing.T) {
	store := createTestStore(t)

	created, err := store.Create("stable_slug", createTestDescriptor())
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	replacement := createTestDescriptor()
	replacement.Title = "Renamed Gazette"
	replacement.Feeds = recipe.FeedList{{Label: "Everything", URL: "https://example.com/all/rss"}}

	updated, err := store.Update(created.ID, replacement)
	require.NoError(t, err)

	assert.Equal(t, "Renamed Gazette", updated.Descriptor.Title)
	require.Len(t, updated.Descriptor.Feeds, 1)
	assert.Equal(t, "stable_slug", updated.Slug, "slug should not change on update")
	assert.True(t, updated.CreatedAt.Equal(created.CreatedAt), "created_at should not change")
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt), "updated_at should be newer")
}

// TestUpdate_NotFound verifies error for a non-existent recipe
func TestUpdate_NotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Update(uuid.New(), createTestDescriptor())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

// TestUpdate_RejectsInvalidDescriptor verifies validation on update
func TestUpdate_RejectsInvalidDescriptor(t *testing.T) {
	store := createTestStore(t)

	created, err := store.Create("victim", createTestDescriptor())
	require.NoError(t, err)

	bad := createTestDescriptor()
	bad.Title = ""
	_, err = store.Update(created.ID, bad)
	assert.ErrorIs(t, err, recipe.ErrInvalidDescriptor)

	// The stored descriptor is untouched
	got, err := store.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Example Gazette", got.Descriptor.Title)
}

// TestDelete verifies deletion, absence afterwards, and isolation
func TestDelete(t *testing.T) {
	store := createTestStore(t)

	doomed, err := store.Create("doomed", createTestDescriptor())
	require.NoError(t, err)
	keeper, err := store.Create("keeper", createTestDescriptor())
	require.NoError(t, err)

	require.NoError(t, store.Delete(doomed.ID))

	_, err = store.Get(doomed.ID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = store.Get(keeper.ID)
	assert.NoError(t, err, "deleting one recipe should not affect others")
}

// TestDelete_NotFound verifies error for a non-existent recipe
func TestDelete_NotFound(t *testing.T) {
	store := createTestStore(t)

	err := store.Delete(uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

// TestDefaults_Shipped verifies the stock authoring defaults
func TestDefaults_Shipped(t *testing.T) {
	store := createTestStore(t)

	defaults, err := store.Defaults()
	require.NoError(t, err)

	assert.Equal(t, "", defaults.Author)
	assert.Equal(t, "en", defaults.Language)
	assert.Equal(t, 7, defaults.OldestArticleDays)
	assert.Equal(t, 100, defaults.MaxArticlesPerFeed)
}

// TestSetDefaults_RoundTrip verifies defaults persist
func TestSetDefaults_RoundTrip(t *testing.T) {
	store := createTestStore(t)

	want := Defaults{
		Author:             "Desk",
		Language:           "nb_NO",
		OldestArticleDays:  2,
		MaxArticlesPerFeed: 10,
	}
	require.NoError(t, store.SetDefaults(want))

	got, err := store.Defaults()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestSlugify verifies title-to-slug derivation
func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Oxford Mail", "oxford_mail"},
		{"The Guardian", "the_guardian"},
		{"BBC News", "bbc_news"},
		{"  spaced   out  ", "spaced_out"},
		{"Already_Good", "already_good"},
		{"Weekly (Print) Edition!", "weekly_print_edition"},
		{"99 Luftballons", "99_luftballons"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.title))
		})
	}
}
