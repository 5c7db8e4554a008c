package publish

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/consolidator"
	"github.com/travigo/stopservices/pkg/database"
	"github.com/travigo/stopservices/pkg/elastic_client"
	"github.com/travigo/stopservices/pkg/redis_client"
)

// Publisher pushes a finished output to an external store
type Publisher interface {
	Name() string
	Publish(ctx context.Context, runID string, output consolidator.Output) error
}

// Configured returns a publisher for every client that has been connected
func Configured() []Publisher {
	var publishers []Publisher

	if elastic_client.Client != nil {
		publishers = append(publishers, NewElasticPublisher())
	}
	if database.Connected() {
		publishers = append(publishers, NewMongoPublisher(database.GetCollection(database.StopServicesCollection)))
	}
	if redis_client.Client != nil {
		publishers = append(publishers, NewRedisPublisher(redis_client.Client, DefaultCacheExpiration))
	}

	return publishers
}

// PublishAll runs every publisher, carrying on past failures
func PublishAll(ctx context.Context, publishers []Publisher, runID string, output consolidator.Output) error {
	var errs []error

	for _, publisher := range publishers {
		if err := publisher.Publish(ctx, runID, output); err != nil {
			log.Error().Err(err).Str("publisher", publisher.Name()).Msg("Failed to publish")
			errs = append(errs, fmt.Errorf("%s: %w", publisher.Name(), err))
			continue
		}

		log.Info().Str("publisher", publisher.Name()).Int("stops", len(output)).Msg("Published")
	}

	return errors.Join(errs...)
}
