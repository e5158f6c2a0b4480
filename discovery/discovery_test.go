package discovery

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFeedLinks_ExtractsAdvertisedFeeds verifies basic link extraction
func TestFeedLinks_ExtractsAdvertisedFeeds(t *testing.T) {
	html := `
	<html>
		<head>
			<title>Example Gazette</title>
			<link rel="alternate" type="application/rss+xml" title="News" href="http://example.com/news/rss/">
			<link rel="alternate" type="application/atom+xml" title="Sports" href="http://example.com/sport/atom/">
		</head>
		<body><p>Hello</p></body>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 2)
	assert.Equal(t, "News", feeds[0].Label)
	assert.Equal(t, "http://example.com/news/rss/", feeds[0].URL)
	assert.Equal(t, "Sports", feeds[1].Label)
	assert.Equal(t, "http://example.com/sport/atom/", feeds[1].URL)
}

// TestFeedLinks_ResolvesRelativeHrefs verifies base URL resolution
func TestFeedLinks_ResolvesRelativeHrefs(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="alternate" type="application/rss+xml" title="News" href="/news/rss/">
			<link rel="alternate" type="application/rss+xml" title="Local" href="local/rss/">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "https://example.com/section/index.html")
	require.NoError(t, err)

	require.Len(t, feeds, 2)
	assert.Equal(t, "https://example.com/news/rss/", feeds[0].URL, "should resolve root-relative href")
	assert.Equal(t, "https://example.com/section/local/rss/", feeds[1].URL, "should resolve document-relative href")
}

// TestFeedLinks_LabelFallsBackToPageTitle verifies label fallback order
func TestFeedLinks_LabelFallsBackToPageTitle(t *testing.T) {
	html := `
	<html>
		<head>
			<title>
				Example
				Gazette
			</title>
			<link rel="alternate" type="application/rss+xml" href="http://example.com/rss">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 1)
	assert.Equal(t, "Example Gazette", feeds[0].Label, "should normalize whitespace in page title")
}

// TestFeedLinks_LabelFallsBackToHost verifies the last label fallback
func TestFeedLinks_LabelFallsBackToHost(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="alternate" type="application/rss+xml" href="http://feeds.example.com/rss">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 1)
	assert.Equal(t, "feeds.example.com", feeds[0].Label)
}

// TestFeedLinks_IgnoresUnrelatedLinks verifies non-feed links are skipped
func TestFeedLinks_IgnoresUnrelatedLinks(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="stylesheet" type="text/css" href="/style.css">
			<link rel="alternate" type="text/html" hreflang="de" href="http://example.com/de/">
			<link rel="alternate" href="http://example.com/notype">
			<link rel="icon" href="/favicon.ico">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)
	assert.Empty(t, feeds)
}

// TestFeedLinks_DeduplicatesByURL verifies repeated advertisements collapse
func TestFeedLinks_DeduplicatesByURL(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="alternate" type="application/rss+xml" title="News" href="http://example.com/rss">
			<link rel="alternate" type="application/rss+xml" title="News again" href="http://example.com/rss">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 1)
	assert.Equal(t, "News", feeds[0].Label, "first advertisement should win")
}

// TestFeedLinks_KeepsDocumentOrder verifies ordering of discovered feeds
func TestFeedLinks_KeepsDocumentOrder(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="alternate" type="application/rss+xml" title="First" href="http://example.com/1">
			<link rel="alternate" type="application/atom+xml" title="Second" href="http://example.com/2">
			<link rel="alternate" type="application/rss+xml" title="Third" href="http://example.com/3">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 3)
	assert.Equal(t, "First", feeds[0].Label)
	assert.Equal(t, "Second", feeds[1].Label)
	assert.Equal(t, "Third", feeds[2].Label)
}

// TestFeedLinks_TypeMatchingIsLenient verifies case and MIME parameters
// do not hide a feed
func TestFeedLinks_TypeMatchingIsLenient(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="alternate" type="APPLICATION/RSS+XML; charset=utf-8" title="News" href="http://example.com/rss">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 1)
	assert.Equal(t, "http://example.com/rss", feeds[0].URL)
}

// TestFeedLinks_DropsUnresolvableHrefs verifies relative hrefs without a
// base and non-http results are skipped
func TestFeedLinks_DropsUnresolvableHrefs(t *testing.T) {
	html := `
	<html>
		<head>
			<link rel="alternate" type="application/rss+xml" title="Relative" href="/rss">
			<link rel="alternate" type="application/rss+xml" title="Feed scheme" href="feed://example.com/rss">
			<link rel="alternate" type="application/rss+xml" title="Absolute" href="https://example.com/rss">
		</head>
	</html>
	`

	feeds, err := FeedLinks(strings.NewReader(html), "")
	require.NoError(t, err)

	require.Len(t, feeds, 1)
	assert.Equal(t, "Absolute", feeds[0].Label)
}

// TestFeedLinks_InvalidBaseURL verifies base URL validation
func TestFeedLinks_InvalidBaseURL(t *testing.T) {
	html := `<html><head></head></html>`

	_, err := FeedLinks(strings.NewReader(html), "://not-a-url")
	assert.Error(t, err)
}
