package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"newsstand/catalog"
	"newsstand/discovery"
	"newsstand/recipe"
)

func discoverCmd() *cli.Command {
	return &cli.Command{
		Name:      "discover",
		Usage:     "Suggest feeds from a saved HTML page",
		ArgsUsage: "<page.html>",
		Description: `Scan a saved HTML page for advertised RSS and Atom
		feeds and print them as candidate recipe entries. Fetching the
		page is up to you (curl, a browser's save-as); pass --base-url
		so relative links resolve. With --add the suggestions are
		stored directly as a new custom recipe.`,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "base-url",
				Usage: "URL the page was saved from, for resolving relative links",
			},
			&cli.BoolFlag{
				Name:  "add",
				Usage: "Store the discovered feeds as a new custom recipe",
			},
			&cli.StringFlag{
				Name:  "title",
				Usage: "Recipe title (required with --add)",
			},
			&cli.StringFlag{
				Name:  "slug",
				Usage: "Catalog slug (derived from the title when omitted)",
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("expected exactly one HTML file")
			}

			path := ctx.Args().First()
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer f.Close()

			feeds, err := discovery.FeedLinks(f, ctx.String("base-url"))
			if err != nil {
				return err
			}

			if len(feeds) == 0 {
				fmt.Println("No feeds advertised by this page.")
				return nil
			}

			if !ctx.Bool("add") {
				fmt.Printf("Found %d feeds:\n\n", len(feeds))
				fmt.Printf("%-30s %s\n", "LABEL", "URL")
				fmt.Println("--------------------------------------------------------------------------------")
				for _, feed := range feeds {
					label := feed.Label
					if len(label) > 30 {
						label = label[:27] + "..."
					}
					fmt.Printf("%-30s %s\n", label, feed.URL)
				}
				return nil
			}

			title := ctx.String("title")
			if title == "" {
				return errors.New("--title is required with --add")
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}
			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Create(ctx.String("slug"), recipe.Descriptor{
				Title:         title,
				NoStylesheets: true,
				AutoCleanup:   true,
				Feeds:         feeds,
			})
			if err != nil {
				return err
			}

			fmt.Printf("%s Stored %d feeds as %s\n", okMark, len(feeds), catalog.CustomRef(rec.Slug))
			return nil
		},
	}
}
