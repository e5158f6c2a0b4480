package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"newsstand/catalog"
	"newsstand/recipe"
)

func addCmd() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a custom recipe",
		Description: `Add a custom recipe from a document or from flags.

		With --file the document is decoded as recipe YAML. Without it,
		the descriptor is assembled from the field flags, and authoring
		defaults (see 'newsstand defaults') fill in whatever is left
		unset. A recipe with zero feeds is stored with a warning; the
		engine just produces an empty periodical for it.`,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "file",
				Usage: "Recipe document to load instead of field flags",
			},
			&cli.StringFlag{
				Name:  "slug",
				Usage: "Catalog slug (derived from the title when omitted)",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Recipe title",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Publication language tag, e.g. en_GB",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "Recipe author",
			},
			&cli.StringFlag{
				Name:  "description",
				Usage: "Short description for catalog listings",
			},
			&cli.StringSliceFlag{
				Name:  "feed",
				Usage: "Feed as 'Label=URL' (repeatable, order preserved)",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Catalog tag (repeatable)",
			},
			&cli.IntFlag{
				Name:  "oldest-article-days",
				Usage: "Drop articles older than this many days",
			},
			&cli.IntFlag{
				Name:  "max-articles-per-feed",
				Usage: "Cap on articles taken per feed",
			},
			&cli.BoolFlag{
				Name:  "use-embedded-content",
				Usage: "Trust feed-embedded content as the full article",
			},
			&cli.BoolFlag{
				Name:  "no-stylesheets",
				Value: true,
				Usage: "Strip publisher stylesheets",
			},
			&cli.BoolFlag{
				Name:  "auto-cleanup",
				Value: true,
				Usage: "Run readability cleanup on article pages",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			d, err := buildDescriptor(ctx)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Create(ctx.String("slug"), *d)
			if err != nil {
				return err
			}

			if len(rec.Descriptor.Feeds) == 0 {
				fmt.Fprintf(os.Stderr, "%s Recipe has no feeds; the engine will build an empty periodical\n", warnMark)
			}
			fmt.Printf("%s Added recipe: %s\n", okMark, catalog.CustomRef(rec.Slug))
			return nil
		},
	}
}

// buildDescriptor assembles the descriptor from --file or from the
// field flags.
func buildDescriptor(ctx *cli.Context) (*recipe.Descriptor, error) {
	if path := ctx.String("file"); path != "" {
		return recipe.LoadFile(path)
	}

	if ctx.String("title") == "" {
		return nil, errors.New("either --file or --title is required")
	}

	feeds, err := parseFeedSpecs(ctx.StringSlice("feed"))
	if err != nil {
		return nil, err
	}

	return &recipe.Descriptor{
		Title:              ctx.String("title"),
		Language:           ctx.String("language"),
		Author:             ctx.String("author"),
		Description:        ctx.String("description"),
		OldestArticleDays:  ctx.Int("oldest-article-days"),
		MaxArticlesPerFeed: ctx.Int("max-articles-per-feed"),
		UseEmbeddedContent: ctx.Bool("use-embedded-content"),
		NoStylesheets:      ctx.Bool("no-stylesheets"),
		AutoCleanup:        ctx.Bool("auto-cleanup"),
		Tags:               ctx.StringSlice("tag"),
		Feeds:              feeds,
	}, nil
}

// parseFeedSpecs turns 'Label=URL' arguments into ordered feed entries.
// The split is on the first '=' so labels cannot contain one; URLs can.
func parseFeedSpecs(specs []string) (recipe.FeedList, error) {
	feeds := make(recipe.FeedList, 0, len(specs))
	for _, spec := range specs {
		label, url, found := strings.Cut(spec, "=")
		if !found || label == "" || url == "" {
			return nil, fmt.Errorf("feed %q must look like 'Label=URL'", spec)
		}
		feeds = append(feeds, recipe.Feed{Label: label, URL: url})
	}
	return feeds, nil
}
