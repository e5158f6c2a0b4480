package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"newsstand/recipe"
)

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate recipe documents",
		ArgsUsage: "[path ...]",
		Description: `Decode and validate recipe documents.

		Each path is a document or a directory, in which case every
		*.recipe.yaml inside it is checked. With no paths the configured
		recipes directory is used.

		Malformed documents (feeds that are not a sequence of
		[label, url] pairs, unknown keys, broken YAML) are reported
		separately from invalid ones (empty title, unusable language
		tag, non-positive limits, bad feed URLs). Zero feeds is legal
		and only draws a warning.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "recipes-dir",
				Usage:   "Recipes directory checked when no paths are given",
				EnvVars: []string{"NEWSSTAND_RECIPES_DIR"},
			},
		},
		Action: func(ctx *cli.Context) error {
			paths := ctx.Args().Slice()
			if len(paths) == 0 {
				cfg, err := loadConfig(ctx)
				if err != nil {
					return err
				}
				if _, err := os.Stat(cfg.RecipesDir); os.IsNotExist(err) {
					fmt.Println("No recipe documents found.")
					return nil
				}
				paths = []string{cfg.RecipesDir}
			}

			total, failed := 0, 0
			for _, path := range paths {
				n, bad, err := validatePath(path)
				if err != nil {
					return err
				}
				total += n
				failed += bad
			}

			if total == 0 {
				fmt.Println("No recipe documents found.")
				return nil
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%s %d of %d documents failed validation", failMark, failed, total), 1)
			}
			fmt.Printf("%s All %d documents are valid\n", okMark, total)
			return nil
		},
	}
}

// validatePath checks one document, or every document in a directory.
func validatePath(path string) (total, failed int, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if !info.IsDir() {
		d, err := recipe.LoadFile(path)
		if !printVerdict(path, d, err) {
			return 1, 1, nil
		}
		return 1, 0, nil
	}

	result, err := recipe.LoadDir(path)
	if err != nil {
		return 0, 0, err
	}
	for _, readErr := range result.Errors {
		printVerdict(filepath.Join(path, readErr.Filename), nil, readErr.Err)
		failed++
	}
	for _, entry := range result.Entries {
		if !printVerdict(filepath.Join(path, entry.Filename), &entry.Descriptor, nil) {
			failed++
		}
	}
	return len(result.Errors) + len(result.Entries), failed, nil
}

// printVerdict reports one document's result and returns whether it
// passed. A malformed document never reaches Validate, so the decode
// error and the validation error are reported as distinct failures.
func printVerdict(name string, d *recipe.Descriptor, decodeErr error) bool {
	switch {
	case errors.Is(decodeErr, recipe.ErrMalformedDescriptor):
		fmt.Printf("%s %s: malformed feed structure\n", failMark, name)
		fmt.Printf("    %v\n", decodeErr)
		return false
	case decodeErr != nil:
		fmt.Printf("%s %s: unreadable\n", failMark, name)
		fmt.Printf("    %v\n", decodeErr)
		return false
	}

	if err := d.Validate(); err != nil {
		fmt.Printf("%s %s: invalid\n", failMark, name)
		fmt.Printf("    %v\n", err)
		return false
	}

	if len(d.Feeds) == 0 {
		fmt.Printf("%s %s: valid, but has no feeds\n", warnMark, name)
		return true
	}

	fmt.Printf("%s %s\n", okMark, name)
	return true
}
