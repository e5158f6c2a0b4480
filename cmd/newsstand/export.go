package main

import (
	"errors"

	"github.com/urfave/cli/v2"
)

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Export a recipe as a document",
		ArgsUsage: "<ref>",
		Description: `Export a recipe in its document form, suitable for
		feeding to an engine, editing, or re-adding with 'add --file'.`,
		Flags: []cli.Flag{
			dbFlag(),
			formatFlag("yaml", "Output format: yaml or json"),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Write to this file instead of stdout",
			},
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

			data, err := cat.Export(ctx.Args().First(), ctx.String("format"))
			if err != nil {
				return err
			}
			return writeDocument(data, ctx.String("out"))
		},
	}
}
