package builtin

import (
	"newsstand/recipe"
	"newsstand/registry"
)

func init() {
	registry.MustRegister("oxford_mail", recipe.Descriptor{
		Title:              "Oxford Mail",
		Language:           "en_GB",
		Author:             "Newsstand Project",
		Description:        "Local news for Oxford and Oxfordshire",
		OldestArticleDays:  1,
		MaxArticlesPerFeed: 25,
		UseEmbeddedContent: false,
		NoStylesheets:      true,
		AutoCleanup:        true,
		Tags:               []string{"news", "uk", "local"},
		Feeds: recipe.FeedList{
			{Label: "News", URL: "http://www.oxfordmail.co.uk/news/rss/"},
			{Label: "Sports", URL: "http://www.oxfordmail.co.uk/sport/rss/"},
		},
	})
}
