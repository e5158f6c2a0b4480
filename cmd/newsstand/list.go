package main

import (
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v2"

	"newsstand/catalog"
)

func listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List recipes in the catalog",
		Description: `List builtin and custom recipes.

		Builtins come first, sorted by ID, then custom recipes sorted by
		slug. Use the filter flags to narrow the listing.`,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "origin",
				Usage: "Only 'builtin' or 'custom' recipes",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Only recipes in this language (en_GB and en-GB match each other)",
			},
			&cli.StringFlag{
				Name:  "tag",
				Usage: "Only recipes carrying this tag",
			},
			formatFlag("table", "Output format: table or json"),
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			cat := openCatalog(cfg)
			if st := cat.Store(); st != nil {
				defer st.Close()
			}

			filter := catalog.Filter{
				Language: ctx.String("language"),
				Tag:      ctx.String("tag"),
			}
			switch origin := ctx.String("origin"); origin {
			case "":
			case string(catalog.OriginBuiltin), string(catalog.OriginCustom):
				filter.Origin = catalog.Origin(origin)
			default:
				return fmt.Errorf("origin must be 'builtin' or 'custom', got %q", origin)
			}

			entries, err := cat.List(filter)
			if err != nil {
				return err
			}

			if ctx.String("format") == "json" {
				data, err := json.MarshalIndent(entries, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			if len(entries) == 0 {
				fmt.Println("No recipes found.")
				return nil
			}

			// Print table header
			fmt.Printf("%-30s %-36s %-10s %s\n", "REF", "TITLE", "LANGUAGE", "FEEDS")
			fmt.Println("------------------------------------------------------------------------------------")

			for _, entry := range entries {
				// Truncate ref and title if too long
				ref := entry.Ref
				if len(ref) > 30 {
					ref = ref[:27] + "..."
				}
				title := entry.Descriptor.Title
				if len(title) > 36 {
					title = title[:33] + "..."
				}

				fmt.Printf("%-30s %-36s %-10s %d\n",
					ref,
					title,
					entry.Descriptor.Language,
					len(entry.Descriptor.Feeds),
				)
			}
			return nil
		},
	}
}
