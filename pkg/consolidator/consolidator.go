package consolidator

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/stream"
	"github.com/travigo/stopservices/pkg/archive"
	"github.com/travigo/stopservices/pkg/operators"
	"github.com/travigo/stopservices/pkg/transxchange"
)

// Consolidator owns the state of one run. Only Merge mutates it and ProcessArchives
// guarantees merges happen one at a time in archive and entry order.
type Consolidator struct {
	today    time.Time
	location *time.Location

	operators *operators.Resolver
	versions  *VersionResolver
	index     *StopServiceIndex

	stats Stats
}

func New(today time.Time, location *time.Location, resolver *operators.Resolver) *Consolidator {
	if location == nil {
		location = time.UTC
	}
	if resolver == nil {
		resolver = operators.NewResolver(nil)
	}

	return &Consolidator{
		today:     today,
		location:  location,
		operators: resolver,
		versions:  NewVersionResolver(),
		index:     NewStopServiceIndex(),
	}
}

// Merge folds one document's facts into the index
func (c *Consolidator) Merge(extraction *transxchange.Extraction) {
	c.stats.DocumentsProcessed++

	for _, fact := range extraction.Facts {
		c.stats.ServicesSeen++

		if !IsActive(c.today, extraction.BoundsFor(fact)...) {
			c.stats.RejectedValidity++
			log.Debug().Str("service", fact.ServiceCode).Msg("Service not active")
			continue
		}

		versionKey := VersionKey{
			Revision:             fact.Revision,
			PublicationTimestamp: fact.PublicationTimestamp,
		}
		if !c.versions.Offer(fact.ServiceCode, versionKey) {
			c.stats.RejectedVersion++
			log.Debug().Str("service", fact.ServiceCode).Int("revision", fact.Revision).Msg("Service superseded")
			continue
		}

		c.stats.ServicesRetained++

		service := ResolvedService{
			Ref:          fact.Ref,
			Name:         fact.DisplayLine,
			Operator:     c.operators.Resolve(fact.RawOperatorCode, fact.DocumentOperatorName),
			OperatorCode: fact.RawOperatorCode,
			ServiceCode:  fact.ServiceCode,
		}

		for _, stopID := range extraction.StopRefs {
			c.index.Add(stopID, service)
		}
	}
}

// ProcessDocument parses and merges a single document
func (c *Consolidator) ProcessDocument(data []byte) error {
	extraction, err := transxchange.ParseDocument(bytes.NewReader(data), c.location)
	if err != nil {
		c.stats.DocumentsFailed++
		return err
	}

	c.Merge(extraction)
	return nil
}

// ProcessArchives parses every document of every archive on up to workers goroutines
// and merges the results serially in the order the archives and entries were given.
// Archives that cannot be opened are skipped and returned joined together, each
// matching archive.ErrArchiveOpen.
func (c *Consolidator) ProcessArchives(ctx context.Context, locations []string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	documentStream := stream.New().WithMaxGoroutines(workers)
	var openErrors []error

	for _, location := range locations {
		if ctx.Err() != nil {
			break
		}

		sourceArchive, cleanup, err := archive.OpenLocation(ctx, location)
		if err != nil {
			log.Error().Err(err).Str("archive", location).Msg("Failed to open archive")
			openErrors = append(openErrors, err)

			documentStream.Go(func() stream.Callback {
				return func() { c.stats.ArchivesFailed++ }
			})
			continue
		}

		log.Info().Str("archive", location).Msg("Processing archive")

		for entry, err := range sourceArchive.Entries() {
			if ctx.Err() != nil {
				break
			}

			if err != nil {
				log.Error().Err(err).Str("archive", location).Msg("Failed to read entry")
				documentStream.Go(func() stream.Callback {
					return func() { c.stats.EntriesFailed++ }
				})
				continue
			}

			documentStream.Go(func() stream.Callback {
				extraction, err := transxchange.ParseDocument(bytes.NewReader(entry.Data), c.location)

				return func() {
					if err != nil {
						log.Error().Err(err).Str("archive", entry.Archive).Str("file", entry.Name).Msg("Failed to parse document")
						c.stats.DocumentsFailed++
						return
					}

					log.Debug().
						Str("file", entry.Name).
						Int("services", len(extraction.Facts)).
						Int("stops", len(extraction.StopRefs)).
						Msg("Parsed document")
					c.Merge(extraction)
				}
			})
		}

		sourceArchive.Close()
		cleanup()

		documentStream.Go(func() stream.Callback {
			return func() { c.stats.ArchivesProcessed++ }
		})
	}

	documentStream.Wait()

	if err := ctx.Err(); err != nil {
		openErrors = append(openErrors, err)
	}

	return errors.Join(openErrors...)
}

func (c *Consolidator) Index() *StopServiceIndex {
	return c.index
}

func (c *Consolidator) Versions() *VersionResolver {
	return c.versions
}

// Output freezes the current index. Call after processing has finished.
func (c *Consolidator) Output() Output {
	return BuildOutput(c.index)
}

func (c *Consolidator) Stats() Stats {
	stats := c.stats
	stats.Stops = c.index.StopCount()
	stats.Associations = c.index.AssociationCount()

	return stats
}
