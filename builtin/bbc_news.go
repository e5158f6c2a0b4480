package builtin

import (
	"newsstand/recipe"
	"newsstand/registry"
)

func init() {
	registry.MustRegister("bbc_news", recipe.Descriptor{
		Title:              "BBC News",
		Language:           "en_GB",
		Author:             "Newsstand Project",
		Description:        "Top stories, world news, and sport from the BBC",
		OldestArticleDays:  2,
		MaxArticlesPerFeed: 40,
		UseEmbeddedContent: false,
		NoStylesheets:      true,
		AutoCleanup:        false,
		KeepSelectors:      []string{"main[role=main] article"},
		RemoveSelectors:    []string{"figure .caption", "aside", ".media-player"},
		Tags:               []string{"news", "uk", "world"},
		Feeds: recipe.FeedList{
			{Label: "Top Stories", URL: "https://feeds.bbci.co.uk/news/rss.xml"},
			{Label: "World", URL: "https://feeds.bbci.co.uk/news/world/rss.xml"},
			{Label: "Sport", URL: "https://feeds.bbci.co.uk/sport/rss.xml"},
		},
	})
}
