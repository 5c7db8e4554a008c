package api

import (
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve stop service lookups from a published index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Value: ":8080",
				Usage: "listen target for the web server",
			},
			&cli.StringFlag{
				Name:     "index",
				Usage:    "output document or shard directory to serve",
				EnvVars:  []string{"TRAVIGO_STOPSERVICES_INDEX"},
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			index, err := LoadIndex(c.String("index"))
			if err != nil {
				return err
			}

			log.Info().
				Str("index", c.String("index")).
				Int("stops", index.StopCount()).
				Str("listen", c.String("listen")).
				Msg("Serving stop services")

			return SetupServer(c.String("listen"), index)
		},
	}
}
