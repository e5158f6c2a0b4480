// Package opml turns OPML subscription lists into recipe feed entries,
// so an existing reader subscription can seed a new recipe.
package opml

import (
	"fmt"
	"os"
	"path/filepath"

	goopml "github.com/gilliek/go-opml/opml"

	"newsstand/recipe"
)

// Document is the part of an OPML file a recipe cares about: the list
// title and the subscribed feeds in document order.
type Document struct {
	Title string
	Feeds []recipe.Feed
}

// Parse reads an OPML document and flattens its outline tree into an
// ordered feed list. Only outlines carrying an xmlUrl attribute become
// feeds; folder outlines contribute their children in place. Labels come
// from the outline title, then its text, then the URL itself. Duplicate
// URLs keep their first occurrence.
func Parse(data []byte) (*Document, error) {
	doc, err := goopml.NewOPML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OPML: %w", err)
	}

	return &Document{
		Title: doc.Head.Title,
		Feeds: flatten(doc.Outlines()),
	}, nil
}

// ParseFile is Parse for an OPML file on disk.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}

	return doc, nil
}

// flatten walks the outline tree depth-first, keeping document order.
func flatten(outlines []goopml.Outline) []recipe.Feed {
	var feeds []recipe.Feed
	seen := make(map[string]bool)

	var walk func([]goopml.Outline)
	walk = func(outlines []goopml.Outline) {
		for _, o := range outlines {
			if o.XMLURL != "" && !seen[o.XMLURL] {
				seen[o.XMLURL] = true
				feeds = append(feeds, recipe.Feed{
					Label: outlineLabel(o),
					URL:   o.XMLURL,
				})
			}
			walk(o.Outlines)
		}
	}
	walk(outlines)

	return feeds
}

func outlineLabel(o goopml.Outline) string {
	if o.Title != "" {
		return o.Title
	}
	if o.Text != "" {
		return o.Text
	}
	return o.XMLURL
}
