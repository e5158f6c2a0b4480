package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsstand/catalog"
	"newsstand/config"
	"newsstand/store"
)

// Status marks for command output. Color drops out automatically on
// non-terminals and when NO_COLOR is set.
var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	warnMark = color.New(color.FgYellow).Sprint("⚠")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// dbFlag is shared by every command that touches the recipe store.
func dbFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db",
		Usage:   "SQLite database file for custom recipes",
		EnvVars: []string{"NEWSSTAND_DB"},
	}
}

func formatFlag(value, usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   value,
		Usage:   usage,
	}
}

// loadConfig resolves the runtime configuration, applies command-line
// overrides, and sets the log level.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v := ctx.String("db"); v != "" {
		cfg.DBPath = v
	}
	if v := ctx.String("addr"); v != "" {
		cfg.Addr = v
	}
	if v := ctx.String("recipes-dir"); v != "" {
		cfg.RecipesDir = v
	}
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	return cfg, nil
}

// openStore opens the recipe store, creating the data directory on
// first use.
func openStore(cfg *config.Config) (*store.Store, error) {
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	return store.New(cfg.DBPath)
}

// openCatalog builds the merged catalog over the builtin registry and
// the user's store. Store trouble degrades to a builtins-only catalog
// so read commands keep working. Callers close the store through
// Catalog.Store when it is non-nil.
func openCatalog(cfg *config.Config) *catalog.Catalog {
	st, err := openStore(cfg)
	if err != nil {
		log.Warnf("Recipe store unavailable, continuing with builtin recipes only: %v", err)
		st = nil
	}
	return catalog.New(nil, st)
}

// writeDocument writes an exported document to a file, or to stdout
// when out is empty.
func writeDocument(data []byte, out string) error {
	if out == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(out, data, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}
