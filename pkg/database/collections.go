package database

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const StopServicesCollection = "stop_services"

func createIndexes() {
	createStopServicesIndexes()
}

func createStopServicesIndexes() {
	stopServicesCollection := GetCollection(StopServicesCollection)
	stopServicesIndex := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "stop", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "services.servicecode", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "services.operatorcode", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "runid", Value: 1}},
		},
	}

	opts := options.CreateIndexes()
	_, err := stopServicesCollection.Indexes().CreateMany(context.Background(), stopServicesIndex, opts)
	if err != nil {
		log.Error().Err(err).Msg("Creating Index")
	}
}
