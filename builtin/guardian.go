package builtin

import (
	"newsstand/recipe"
	"newsstand/registry"
)

func init() {
	registry.MustRegister("guardian", recipe.Descriptor{
		Title:              "The Guardian",
		Language:           "en_GB",
		Author:             "Newsstand Project",
		Description:        "UK, world, and US coverage from The Guardian",
		OldestArticleDays:  2,
		MaxArticlesPerFeed: 30,
		UseEmbeddedContent: true,
		NoStylesheets:      true,
		AutoCleanup:        true,
		Tags:               []string{"news", "uk", "world"},
		Feeds: recipe.FeedList{
			{Label: "UK News", URL: "https://www.theguardian.com/uk-news/rss"},
			{Label: "World", URL: "https://www.theguardian.com/world/rss"},
			{Label: "US News", URL: "https://www.theguardian.com/us-news/rss"},
		},
	})
}
