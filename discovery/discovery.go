// Package discovery suggests feed entries for a recipe from an HTML page
// the caller already has. It only inspects <link rel="alternate">
// advertisements; fetching pages and parsing feed XML stay with the
// hosting engine.
package discovery

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"newsstand/recipe"
)

// feedMIMETypes are the <link type> values that advertise a feed.
var feedMIMETypes = map[string]bool{
	"application/rss+xml":  true,
	"application/atom+xml": true,
}

// FeedLinks extracts candidate feed entries from an HTML document.
// Relative hrefs are resolved against baseURL when one is given. Labels
// come from the link's title attribute, falling back to the page title
// and then to the feed URL's host. Document order is kept and duplicate
// URLs are dropped.
func FeedLinks(r io.Reader, baseURL string) ([]recipe.Feed, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var base *url.URL
	if baseURL != "" {
		base, err = url.Parse(baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base URL: %w", err)
		}
	}

	// Normalize whitespace in the page title once; it backs every label
	// fallback
	pageTitle := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")

	seen := make(map[string]bool)
	var feeds []recipe.Feed

	doc.Find(`link[rel='alternate']`).Each(func(_ int, s *goquery.Selection) {
		if !isFeedType(s.AttrOr("type", "")) {
			return
		}

		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" {
			return
		}

		feedURL := resolveHref(base, href)
		if feedURL == "" || seen[feedURL] {
			return
		}
		seen[feedURL] = true

		feeds = append(feeds, recipe.Feed{
			Label: feedLabel(s, pageTitle, feedURL),
			URL:   feedURL,
		})
	})

	return feeds, nil
}

// isFeedType reports whether a link type attribute names an RSS or Atom
// feed. Case and MIME parameters (e.g. "; charset=utf-8") are ignored.
func isFeedType(linkType string) bool {
	linkType = strings.ToLower(strings.TrimSpace(linkType))
	if i := strings.IndexByte(linkType, ';'); i >= 0 {
		linkType = strings.TrimSpace(linkType[:i])
	}
	return feedMIMETypes[linkType]
}

// resolveHref resolves href against base and keeps only http(s) results.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	if ref.Host == "" {
		return ""
	}
	return ref.String()
}

// feedLabel picks the display label for a discovered feed.
func feedLabel(s *goquery.Selection, pageTitle, feedURL string) string {
	if title := strings.Join(strings.Fields(s.AttrOr("title", "")), " "); title != "" {
		return title
	}
	if pageTitle != "" {
		return pageTitle
	}
	if u, err := url.Parse(feedURL); err == nil && u.Host != "" {
		return u.Host
	}
	return feedURL
}
