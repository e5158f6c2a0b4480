package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"newsstand/catalog"
	"newsstand/opml"
	"newsstand/recipe"
)

func importOPMLCmd() *cli.Command {
	return &cli.Command{
		Name:      "import-opml",
		Usage:     "Create a custom recipe from an OPML subscription list",
		ArgsUsage: "<file.opml>",
		Description: `Flatten an OPML subscription list into an ordered feed
		list and store it as a new custom recipe. Nested folders are
		walked depth-first so the feed order follows the document. The
		OPML head title becomes the recipe title unless --title says
		otherwise; authoring defaults fill in language and limits.`,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "title",
				Usage: "Recipe title (default: the OPML head title)",
			},
			&cli.StringFlag{
				Name:  "slug",
				Usage: "Catalog slug (derived from the title when omitted)",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Publication language tag, e.g. en_GB",
			},
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("expected exactly one OPML file")
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			doc, err := opml.ParseFile(ctx.Args().First())
			if err != nil {
				return err
			}

			title := ctx.String("title")
			if title == "" {
				title = doc.Title
			}
			if title == "" {
				return errors.New("the OPML head has no title; pass --title")
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			rec, err := st.Create(ctx.String("slug"), recipe.Descriptor{
				Title:         title,
				Language:      ctx.String("language"),
				NoStylesheets: true,
				AutoCleanup:   true,
				Feeds:         doc.Feeds,
			})
			if err != nil {
				return err
			}

			if len(rec.Descriptor.Feeds) == 0 {
				fmt.Fprintf(os.Stderr, "%s No feeds found in the OPML; stored an empty recipe\n", warnMark)
			}
			fmt.Printf("%s Imported %d feeds into %s\n", okMark, len(rec.Descriptor.Feeds), catalog.CustomRef(rec.Slug))
			return nil
		},
	}
}
