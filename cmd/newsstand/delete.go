package main

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"newsstand/catalog"
)

func deleteCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a custom recipe",
		ArgsUsage: "<ref>",
		Description: `Delete a custom recipe from the store.

		Builtin recipes cannot be deleted.`,
		Flags: []cli.Flag{
			dbFlag(),
		},
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return errors.New("expected exactly one recipe reference")
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

			ref := ctx.Args().First()
			if err := catalog.New(nil, st).Delete(ref); err != nil {
				return err
			}
			fmt.Printf("%s Deleted recipe: %s\n", okMark, ref)
			return nil
		},
	}
}
