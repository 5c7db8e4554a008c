package stopservices

import (
	"os"
	"os/signal"
	"runtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/config"
	"github.com/travigo/stopservices/pkg/database"
	"github.com/travigo/stopservices/pkg/elastic_client"
	"github.com/travigo/stopservices/pkg/publish"
	"github.com/travigo/stopservices/pkg/redis_client"
	"github.com/travigo/stopservices/pkg/util"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Consolidate TransXChange archives into the stop services index",
		ArgsUsage: "[archive or directory or URL...]",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "archive",
				Usage:   "archive, directory of archives, or URL to process",
				EnvVars: []string{"TRAVIGO_STOPSERVICES_ARCHIVES"},
			},
			&cli.StringFlag{
				Name:    "noc-table",
				Usage:   "canonical operator code table (CSV or Traveline XML)",
				EnvVars: []string{"TRAVIGO_STOPSERVICES_NOC_TABLE"},
			},
			&cli.StringFlag{
				Name:    "overrides",
				Usage:   "operator name overrides (YAML or JSON mapping)",
				EnvVars: []string{"TRAVIGO_STOPSERVICES_OVERRIDES"},
			},
			&cli.StringFlag{
				Name:    "output",
				Value:   "stopservices.json",
				Usage:   "file the consolidated index is written to",
				EnvVars: []string{"TRAVIGO_STOPSERVICES_OUTPUT"},
			},
			&cli.StringFlag{
				Name:    "shard-directory",
				Usage:   "directory to also write prefix sharded output into",
				EnvVars: []string{"TRAVIGO_STOPSERVICES_SHARD_DIRECTORY"},
			},
			&cli.IntFlag{
				Name:  "shard-prefix",
				Value: config.DefaultShardPrefix,
				Usage: "length of the stop identifier prefix used to pick a shard",
			},
			&cli.IntFlag{
				Name:  "workers",
				Value: runtime.NumCPU(),
				Usage: "documents parsed in parallel",
			},
			&cli.StringFlag{
				Name:    "timezone",
				Value:   config.DefaultTimezone,
				Usage:   "civil time zone that defines today",
				EnvVars: []string{"TRAVIGO_TIMEZONE"},
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "reference date (YYYY-MM-DD) to check validity against instead of today",
			},
		},
		Action: func(c *cli.Context) error {
			env := util.GetEnvironmentVariables()

			run := config.Run{
				Sources:         append(c.StringSlice("archive"), c.Args().Slice()...),
				CodeTablePath:   c.String("noc-table"),
				OverridesPath:   c.String("overrides"),
				Output:          c.String("output"),
				ShardDirectory:  c.String("shard-directory"),
				ShardPrefix:     c.Int("shard-prefix"),
				Workers:         c.Int("workers"),
				Timezone:        c.String("timezone"),
				Date:            c.String("date"),
				MetricsTextfile: env["TRAVIGO_METRICS_TEXTFILE"],
			}
			if err := run.Validate(); err != nil {
				return err
			}

			if err := database.Connect(); err != nil {
				return err
			}
			defer database.Disconnect(c.Context)
			if err := elastic_client.Connect(false); err != nil {
				return err
			}
			if err := redis_client.Connect(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
			defer stop()

			runID := uuid.New().String()
			log.Info().Str("run", runID).Strs("sources", run.Sources).Msg("Starting stop services build")

			_, err := Build(ctx, run, runID, publish.Configured())
			return err
		},
	}
}
