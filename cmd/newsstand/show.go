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

func showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one recipe in detail",
		ArgsUsage: "<ref>",
		Description: `Show a single recipe.

		The reference is 'builtin:oxford_mail', 'custom:my_paper', or a
		bare name, which tries builtin IDs first and then custom slugs.`,
		Flags: []cli.Flag{
			dbFlag(),
			formatFlag("table", "Output format: table, yaml, or json"),
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("expected exactly one recipe reference")
			}

			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			cat := openCatalog(cfg)
			if st := cat.Store(); st != nil {
				defer st.Close()
			}

			entry, err := cat.Resolve(ctx.Args().First())
			if err != nil {
				return err
			}

			switch format := ctx.String("format"); format {
			case "table":
				printEntry(entry)
				return nil
			case "yaml":
				data, err := recipe.Encode(&entry.Descriptor)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			case "json":
				data, err := recipe.EncodeJSON(&entry.Descriptor)
				if err != nil {
					return err
				}
				_, err = os.Stdout.Write(data)
				return err
			default:
				return fmt.Errorf("format must be 'table', 'yaml', or 'json', got %q", format)
			}
		},
	}
}

// printEntry renders the human-readable detail view.
func printEntry(entry *catalog.Entry) {
	d := entry.Descriptor

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(d.Title)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Ref:         %s\n", entry.Ref)
	fmt.Printf("Origin:      %s\n", entry.Origin)
	fmt.Printf("Language:    %s\n", d.Language)
	if d.Author != "" {
		fmt.Printf("Author:      %s\n", d.Author)
	}
	if d.Description != "" {
		fmt.Printf("Description: %s\n", d.Description)
	}
	if len(d.Tags) > 0 {
		fmt.Printf("Tags:        %s\n", strings.Join(d.Tags, ", "))
	}
	fmt.Println()

	fmt.Println("Engine Settings:")
	fmt.Printf("  Oldest Article:    %d days\n", d.OldestArticleDays)
	fmt.Printf("  Max Per Feed:      %d articles\n", d.MaxArticlesPerFeed)
	fmt.Printf("  Embedded Content:  %t\n", d.UseEmbeddedContent)
	fmt.Printf("  No Stylesheets:    %t\n", d.NoStylesheets)
	fmt.Printf("  Auto Cleanup:      %t\n", d.AutoCleanup)
	if len(d.KeepSelectors) > 0 {
		fmt.Printf("  Keep Selectors:    %s\n", strings.Join(d.KeepSelectors, ", "))
	}
	if len(d.RemoveSelectors) > 0 {
		fmt.Printf("  Remove Selectors:  %s\n", strings.Join(d.RemoveSelectors, ", "))
	}
	fmt.Println()

	if len(d.Feeds) == 0 {
		fmt.Println("No feeds configured.")
		return
	}
	fmt.Printf("Feeds (%d):\n", len(d.Feeds))
	for _, feed := range d.Feeds {
		fmt.Printf("  %-24s %s\n", feed.Label, feed.URL)
	}
}
