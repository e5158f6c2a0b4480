package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"newsstand/recipe"
)

func defaultsCmd() *cli.Command {
	return &cli.Command{
		Name:  "defaults",
		Usage: "Show or change authoring defaults",
		Description: `Authoring defaults fill descriptor fields that 'add',
		'import-opml', and the HTTP API leave unset: author, language,
		and the article limits. They live in the store next to the
		custom recipes.`,
		Subcommands: []*cli.Command{
			defaultsGetCmd(),
			defaultsSetCmd(),
		},
	}
}

func defaultsGetCmd() *cli.Command {
	return &cli.Command{
		Name:  "get",
		Usage: "Show the current authoring defaults",
		Flags: []cli.Flag{
			dbFlag(),
			formatFlag("table", "Output format: table or json"),
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			defaults, err := st.Defaults()
			if err != nil {
				return err
			}

			if ctx.String("format") == "json" {
				data, err := json.MarshalIndent(defaults, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			author := defaults.Author
			if author == "" {
				author = "(unset)"
			}
			fmt.Printf("Author:          %s\n", author)
			fmt.Printf("Language:        %s\n", defaults.Language)
			fmt.Printf("Oldest Article:  %d days\n", defaults.OldestArticleDays)
			fmt.Printf("Max Per Feed:    %d articles\n", defaults.MaxArticlesPerFeed)
			return nil
		},
	}
}

func defaultsSetCmd() *cli.Command {
	return &cli.Command{
		Name:  "set",
		Usage: "Change authoring defaults",
		Description: `Change one or more authoring defaults. Only the flags
		you pass are touched.`,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:  "author",
				Usage: "Default recipe author",
			},
			&cli.StringFlag{
				Name:  "language",
				Usage: "Default language tag, e.g. en_GB",
			},
			&cli.IntFlag{
				Name:  "oldest-article-days",
				Usage: "Default article age cutoff in days",
			},
			&cli.IntFlag{
				Name:  "max-articles-per-feed",
				Usage: "Default per-feed article cap",
			},
		},
		Action: func(ctx *cli.Context) error {
			cfg, err := loadConfig(ctx)
			if err != nil {
				return err
			}

			st, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer st.Close()

			defaults, err := st.Defaults()
			if err != nil {
				return err
			}

			changed := false
			if ctx.IsSet("author") {
				defaults.Author = ctx.String("author")
				changed = true
			}
			if ctx.IsSet("language") {
				lang := ctx.String("language")
				if _, err := recipe.ParseLanguage(lang); err != nil {
					return fmt.Errorf("language %q is not a recognizable locale tag", lang)
				}
				defaults.Language = lang
				changed = true
			}
			if ctx.IsSet("oldest-article-days") {
				if ctx.Int("oldest-article-days") <= 0 {
					return errors.New("oldest-article-days must be positive")
				}
				defaults.OldestArticleDays = ctx.Int("oldest-article-days")
				changed = true
			}
			if ctx.IsSet("max-articles-per-feed") {
				if ctx.Int("max-articles-per-feed") <= 0 {
					return errors.New("max-articles-per-feed must be positive")
				}
				defaults.MaxArticlesPerFeed = ctx.Int("max-articles-per-feed")
				changed = true
			}

			if !changed {
				return errors.New("nothing to change; pass at least one of --author, --language, --oldest-article-days, --max-articles-per-feed")
			}

			if err := st.SetDefaults(defaults); err != nil {
				return err
			}
			fmt.Printf("%s Updated authoring defaults\n", okMark)
			return nil
		},
	}
}
