// Package store persists user-authored recipes in SQLite. A stored recipe
// is an identity shell (UUID, slug, timestamps) around an immutable
// descriptor value; edits replace the whole descriptor rather than
// patching fields.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"newsstand/recipe"
)

// Custom errors for store operations
var (
	ErrRecipeNotFound = errors.New("recipe not found")
	ErrDuplicateSlug  = errors.New("recipe with this slug already exists")
	ErrInvalidSlug    = errors.New("slug must be lowercase letters, digits, and underscores")
)

// Store manages custom recipes using SQLite.
type Store struct {
	db *sql.DB
}

// Recipe is a stored descriptor plus its identity.
type Recipe struct {
	ID         uuid.UUID         `json:"id"`
	Slug       string            `json:"slug"`
	Descriptor recipe.Descriptor `json:"descriptor"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Filter represents filtering options for listing recipes.
type Filter struct {
	Language string // Match recipes whose language resolves to this tag
	Tag      string // Match recipes carrying this catalog keyword
	Limit    int    // Pagination limit
	Offset   int    // Pagination offset
}

// New creates a recipe store backed by the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the recipes and settings tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		language TEXT NOT NULL,
		author TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		oldest_article_days INTEGER NOT NULL,
		max_articles_per_feed INTEGER NOT NULL,
		use_embedded_content INTEGER NOT NULL,
		no_stylesheets INTEGER NOT NULL,
		auto_cleanup INTEGER NOT NULL,
		keep_selectors TEXT,
		remove_selectors TEXT,
		tags TEXT,
		feeds TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores a new recipe. An empty slug is derived from the title.
// Authoring defaults fill an empty author or language and zero limits
// before validation, so a sparse descriptor still has to come out valid.
func (s *Store) Create(slug string, d recipe.Descriptor) (*Recipe, error) {
	defaults, err := s.Defaults()
	if err != nil {
		return nil, err
	}
	applyDefaults(&d, defaults)

	if err := d.Validate(); err != nil {
		return nil, err
	}

	if slug == "" {
		slug = Slugify(d.Title)
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}

	now := time.Now().Truncate(0)
	rec := &Recipe{
		ID:         uuid.New(),
		Slug:       slug,
		Descriptor: d.Clone(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	cols, err := descriptorColumns(rec.Descriptor)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO recipes (
			id, slug, title, language, author, description,
			oldest_article_days, max_articles_per_feed,
			use_embedded_content, no_stylesheets, auto_cleanup,
			keep_selectors, remove_selectors, tags, feeds,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	args := append([]any{rec.ID.String(), rec.Slug}, cols...)
	args = append(args, formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt))

	if _, err := s.db.Exec(query, args...); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, slug)
		}
		return nil, fmt.Errorf("failed to insert recipe: %w", err)
	}

	return rec, nil
}

const recipeColumns = `id, slug, title, language, author, description,
	oldest_article_days, max_articles_per_feed,
	use_embedded_content, no_stylesheets, auto_cleanup,
	keep_selectors, remove_selectors, tags, feeds,
	created_at, updated_at`

// Get retrieves a recipe by ID.
func (s *Store) Get(id uuid.UUID) (*Recipe, error) {
	row := s.db.QueryRow(
		"SELECT "+recipeColumns+" FROM recipes WHERE id = ?", id.String())
	return scanRecipe(row)
}

// GetBySlug retrieves a recipe by its slug.
func (s *Store) GetBySlug(slug string) (*Recipe, error) {
	row := s.db.QueryRow(
		"SELECT "+recipeColumns+" FROM recipes WHERE slug = ?", slug)
	return scanRecipe(row)
}

// List returns stored recipes, newest first, with optional filtering.
func (s *Store) List(filter Filter) ([]Recipe, error) {
	rows, err := s.db.Query(
		"SELECT " + recipeColumns + " FROM recipes ORDER BY created_at DESC, slug ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	var recipes []Recipe
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		if !matchesFilter(rec, filter) {
			continue
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}

	// Language and tag live partly inside JSON columns, so pagination is
	// applied after filtering rather than in SQL.
	if filter.Offset > 0 {
		if filter.Offset >= len(recipes) {
			return nil, nil
		}
		recipes = recipes[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(recipes) {
		recipes = recipes[:filter.Limit]
	}

	return recipes, nil
}

// Update replaces a stored recipe's descriptor. The identity (ID, slug,
// created_at) is untouched; updated_at is bumped.
func (s *Store) Update(id uuid.UUID, d recipe.Descriptor) (*Recipe, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	cols, err := descriptorColumns(d)
	if err != nil {
		return nil, err
	}

	now := time.Now().Truncate(0)
	query := `
		UPDATE recipes SET
			title = ?, language = ?, author = ?, description = ?,
			oldest_article_days = ?, max_articles_per_feed = ?,
			use_embedded_content = ?, no_stylesheets = ?, auto_cleanup = ?,
			keep_selectors = ?, remove_selectors = ?, tags = ?, feeds = ?,
			updated_at = ?
		WHERE id = ?
	`

	args := append(cols, formatTime(now), id.String())
	result, err := s.db.Exec(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, ErrRecipeNotFound
	}

	return s.Get(id)
}

// Delete removes a recipe.
func (s *Store) Delete(id uuid.UUID) error {
	result, err := s.db.Exec("DELETE FROM recipes WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRecipeNotFound
	}

	return nil
}

// matchesFilter applies the language and tag filters to a scanned recipe.
func matchesFilter(rec *Recipe, filter Filter) bool {
	if filter.Language != "" {
		want := recipe.Descriptor{Language: filter.Language}
		wantTag, err := want.LanguageTag()
		if err != nil {
			return false
		}
		gotTag, err := rec.Descriptor.LanguageTag()
		if err != nil || gotTag != wantTag {
			return false
		}
	}
	if filter.Tag != "" && !rec.Descriptor.HasTag(filter.Tag) {
		return false
	}
	return true
}

// descriptorColumns serializes a descriptor into the column order shared
// by INSERT and UPDATE.
func descriptorColumns(d recipe.Descriptor) ([]any, error) {
	feedsJSON, err := json.Marshal(d.Feeds)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feeds: %w", err)
	}

	keep, err := marshalStrings(d.KeepSelectors)
	if err != nil {
		return nil, err
	}
	remove, err := marshalStrings(d.RemoveSelectors)
	if err != nil {
		return nil, err
	}
	tags, err := marshalStrings(d.Tags)
	if err != nil {
		return nil, err
	}

	return []any{
		d.Title, d.Language, d.Author, d.Description,
		d.OldestArticleDays, d.MaxArticlesPerFeed,
		d.UseEmbeddedContent, d.NoStylesheets, d.AutoCleanup,
		keep, remove, tags, string(feedsJSON),
	}, nil
}

// marshalStrings renders a string slice as a JSON column value, NULL when
// the slice is nil.
func marshalStrings(in []string) (any, error) {
	if in == nil {
		return nil, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(data), nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanRecipe parses one SQL row into a Recipe. Shared between Get,
// GetBySlug, and List.
func scanRecipe(row rowScanner) (*Recipe, error) {
	var (
		idStr, slug, title, lang, author, description string
		oldest, maxPerFeed                            int
		useEmbedded, noStylesheets, autoCleanup       bool
		keep, remove, tags                            sql.NullString
		feedsJSON, createdAtStr, updatedAtStr         string
	)

	err := row.Scan(
		&idStr, &slug, &title, &lang, &author, &description,
		&oldest, &maxPerFeed,
		&useEmbedded, &noStylesheets, &autoCleanup,
		&keep, &remove, &tags, &feedsJSON,
		&createdAtStr, &updatedAtStr,
	)
	if err == sql.ErrNoRows {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recipe ID: %w", err)
	}

	d := recipe.Descriptor{
		Title:              title,
		Language:           lang,
		Author:             author,
		Description:        description,
		OldestArticleDays:  oldest,
		MaxArticlesPerFeed: maxPerFeed,
		UseEmbeddedContent: useEmbedded,
		NoStylesheets:      noStylesheets,
		AutoCleanup:        autoCleanup,
	}

	if err := json.Unmarshal([]byte(feedsJSON), &d.Feeds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feeds: %w", err)
	}
	if d.KeepSelectors, err = unmarshalStrings(keep); err != nil {
		return nil, err
	}
	if d.RemoveSelectors, err = unmarshalStrings(remove); err != nil {
		return nil, err
	}
	if d.Tags, err = unmarshalStrings(tags); err != nil {
		return nil, err
	}

	return &Recipe{
		ID:         id,
		Slug:       slug,
		Descriptor: d,
		CreatedAt:  parseTime(createdAtStr),
		UpdatedAt:  parseTime(updatedAtStr),
	}, nil
}

func unmarshalStrings(col sql.NullString) ([]string, error) {
	if !col.Valid {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		return nil, fmt.Errorf("failed to unmarshal string list: %w", err)
	}
	return out, nil
}

// Helper functions for time formatting
func formatTime(t time.Time) string {
	// Strip monotonic clock for consistent storage and comparisons
	return t.Truncate(0).Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339, s)
	}
	// Strip monotonic clock for consistent comparisons
	return t.Truncate(0)
}
