package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"newsstand/recipe"
)

// Defaults are the authoring fallbacks applied when a new recipe omits a
// field. They live in the settings table so they survive restarts.
type Defaults struct {
	Author             string `json:"author"`
	Language           string `json:"language"`
	OldestArticleDays  int    `json:"oldest_article_days"`
	MaxArticlesPerFeed int    `json:"max_articles_per_feed"`
}

// Settings keys
const (
	settingAuthor   = "default_author"
	settingLanguage = "default_language"
	settingOldest   = "default_oldest_article_days"
	settingMaxFeed  = "default_max_articles_per_feed"
)

// Defaults retrieves the authoring defaults, falling back to the shipped
// values for anything never set.
func (s *Store) Defaults() (Defaults, error) {
	author, err := s.getSetting(settingAuthor, "")
	if err != nil {
		return Defaults{}, err
	}
	lang, err := s.getSetting(settingLanguage, "en")
	if err != nil {
		return Defaults{}, err
	}
	oldest, err := s.getIntSetting(settingOldest, 7)
	if err != nil {
		return Defaults{}, err
	}
	maxPerFeed, err := s.getIntSetting(settingMaxFeed, 100)
	if err != nil {
		return Defaults{}, err
	}

	return Defaults{
		Author:             author,
		Language:           lang,
		OldestArticleDays:  oldest,
		MaxArticlesPerFeed: maxPerFeed,
	}, nil
}

// SetDefaults stores the authoring defaults.
func (s *Store) SetDefaults(d Defaults) error {
	pairs := []struct {
		key   string
		value string
	}{
		{settingAuthor, d.Author},
		{settingLanguage, d.Language},
		{settingOldest, strconv.Itoa(d.OldestArticleDays)},
		{settingMaxFeed, strconv.Itoa(d.MaxArticlesPerFeed)},
	}

	for _, p := range pairs {
		query := "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)"
		if _, err := s.db.Exec(query, p.key, p.value); err != nil {
			return fmt.Errorf("failed to update setting %s: %w", p.key, err)
		}
	}
	return nil
}

func (s *Store) getSetting(key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query setting %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) getIntSetting(key string, fallback int) (int, error) {
	raw, err := s.getSetting(key, strconv.Itoa(fallback))
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to parse setting %s: %w", key, err)
	}
	return value, nil
}

// applyDefaults fills a descriptor's omitted authoring fields. Explicitly
// set values, including bad ones, are left for Validate to judge.
func applyDefaults(d *recipe.Descriptor, defaults Defaults) {
	if strings.TrimSpace(d.Author) == "" && defaults.Author != "" {
		d.Author = defaults.Author
	}
	if strings.TrimSpace(d.Language) == "" {
		d.Language = defaults.Language
	}
	if d.OldestArticleDays == 0 {
		d.OldestArticleDays = defaults.OldestArticleDays
	}
	if d.MaxArticlesPerFeed == 0 {
		d.MaxArticlesPerFeed = defaults.MaxArticlesPerFeed
	}
}
