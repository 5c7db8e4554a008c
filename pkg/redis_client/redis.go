package redis_client

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/util"
)

var Client *redis.Client

const defaultDatabase = 0

// Connect sets up the global client. It does nothing when TRAVIGO_REDIS_ADDRESS is not set.
func Connect() error {
	env := util.GetEnvironmentVariables()

	address := env["TRAVIGO_REDIS_ADDRESS"]
	if address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	database, err := util.GetEnvironmentInt(env, "TRAVIGO_REDIS_DATABASE", defaultDatabase)
	if err != nil {
		return fmt.Errorf("parsing TRAVIGO_REDIS_DATABASE: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: env["TRAVIGO_REDIS_PASSWORD"],
		DB:       database,
	})

	statusCmd := client.Ping(context.Background())
	if err := statusCmd.Err(); err != nil {
		return err
	}

	Client = client

	log.Info().Str("address", address).Msg("Redis client setup")

	return nil
}
