package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"newsstand/catalog"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the recipe catalog over HTTP",
		Description: `Start the catalog HTTP API.

		Builtin and custom recipes are served under /api/v1/recipes and
		the authoring defaults under /api/v1/meta/defaults. The API
		hands out descriptors only; fetching articles and assembling
		periodicals stays with the engine.`,
		Flags: []cli.Flag{
			dbFlag(),
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "Listen address",
				EnvVars: []string{"NEWSSTAND_ADDR"},
			},
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

			router := catalog.NewAPIServer(cat).SetupRouter()

			log.WithFields(log.Fields{
				"addr": cfg.Addr,
				"db":   cfg.DBPath,
			}).Info("Serving recipe catalog")

			if err := router.Run(cfg.Addr); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}
}
