package stopservices

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/archive"
	"github.com/travigo/stopservices/pkg/config"
	"github.com/travigo/stopservices/pkg/consolidator"
	"github.com/travigo/stopservices/pkg/metrics"
	"github.com/travigo/stopservices/pkg/operators"
	"github.com/travigo/stopservices/pkg/publish"
)

var ErrNoArchives = errors.New("no archive could be opened")

// Build runs one full consolidation: load reference data, process every archive,
// write the output artifacts then hand the result to each publisher. Archives that
// failed to open are returned after the output is written.
func Build(ctx context.Context, run config.Run, runID string, publishers []publish.Publisher) (consolidator.Stats, error) {
	startTime := time.Now()
	logger := log.With().Str("run", runID).Logger()

	if err := run.Validate(); err != nil {
		return consolidator.Stats{}, err
	}

	location, err := run.Location()
	if err != nil {
		return consolidator.Stats{}, err
	}
	today, err := run.Today()
	if err != nil {
		return consolidator.Stats{}, err
	}

	directory := operators.LoadDirectory(run.CodeTablePath, run.OverridesPath)
	logger.Info().
		Int("codes", directory.CodeCount()).
		Int("overrides", directory.OverrideCount()).
		Str("today", today.Format("2006-01-02")).
		Msg("Loaded operator directory")

	locations, err := archive.Resolve(run.Sources)
	if err != nil {
		return consolidator.Stats{}, err
	}

	runConsolidator := consolidator.New(today, location, operators.NewResolver(directory))
	archiveErr := runConsolidator.ProcessArchives(ctx, locations, run.Workers)
	stats := runConsolidator.Stats()

	if ctx.Err() != nil {
		return stats, archiveErr
	}
	if len(locations) > 0 && stats.ArchivesFailed == len(locations) {
		return stats, fmt.Errorf("%w: %w", ErrNoArchives, archiveErr)
	}

	output := runConsolidator.Output()

	if err := publish.WriteDocumentFile(run.Output, output); err != nil {
		return stats, err
	}
	logger.Info().Str("file", run.Output).Int("stops", len(output)).Msg("Written output document")

	if run.ShardDirectory != "" {
		if _, err := publish.WriteShards(run.ShardDirectory, output, run.ShardPrefix); err != nil {
			return stats, err
		}
	}

	stats.Log(logger)

	if run.MetricsTextfile != "" {
		runMetrics := metrics.NewMetrics()
		runMetrics.Record(stats, time.Since(startTime))

		if err := runMetrics.WriteTextfile(run.MetricsTextfile); err != nil {
			logger.Error().Err(err).Str("file", run.MetricsTextfile).Msg("Failed to write metrics")
		}
	}

	if err := publish.PublishAll(ctx, publishers, runID, output); err != nil {
		return stats, errors.Join(archiveErr, err)
	}

	return stats, archiveErr
}
