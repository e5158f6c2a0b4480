package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	// Builtin recipes register themselves on import.
	_ "newsstand/builtin"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	if err := rootApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "newsstand",
		Usage: "Manage declarative news recipe descriptors",
		Description: `Newsstand keeps a catalog of news recipes: declarative
		descriptors that tell a periodical engine which publication to
		build, which feeds to pull, and how aggressively to trim them.
		The engine does the fetching and the cleanup; newsstand only
		manages the descriptors.

		Builtin recipes ship with the binary. Custom recipes live in an
		SQLite database under ~/.newsstand, alongside the authoring
		defaults that fill in fields a recipe leaves unset.

		Flags can generally be set via environment variables, e.g.:

		--db => NEWSSTAND_DB=recipes.db
		--addr => NEWSSTAND_ADDR=localhost:8080
		`,
		Commands: []*cli.Command{
			listCmd(),
			showCmd(),
			addCmd(),
			deleteCmd(),
			validateCmd(),
			exportCmd(),
			importOPMLCmd(),
			discoverCmd(),
			defaultsCmd(),
			serveCmd(),
		},
		Action: func(ctx *cli.Context) error {
			// Show help if no command is specified
			return ctx.App.Run([]string{"", "help"})
		},
	}
}
