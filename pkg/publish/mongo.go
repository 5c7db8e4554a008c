package publish

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/consolidator"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoBatchSize = 1000

type StopServicesRecord struct {
	Stop     string
	RunID    string
	Services []consolidator.ResolvedService

	ModificationDateTime time.Time
}

// MongoPublisher upserts one record per stop and removes stops left over from older runs
type MongoPublisher struct {
	collection *mongo.Collection
}

func NewMongoPublisher(collection *mongo.Collection) *MongoPublisher {
	return &MongoPublisher{collection: collection}
}

func (m *MongoPublisher) Name() string {
	return "mongodb"
}

func (m *MongoPublisher) Publish(ctx context.Context, runID string, output consolidator.Output) error {
	now := time.Now()
	operations := make([]mongo.WriteModel, 0, mongoBatchSize)
	var written int64

	flush := func() error {
		if len(operations) == 0 {
			return nil
		}

		result, err := m.collection.BulkWrite(ctx, operations, &options.BulkWriteOptions{})
		if err != nil {
			return err
		}
		written += result.UpsertedCount + result.ModifiedCount
		operations = operations[:0]

		return nil
	}

	for _, stopID := range output.StopIDs() {
		bsonRep, err := bson.Marshal(StopServicesRecord{
			Stop:                 stopID,
			RunID:                runID,
			Services:             output[stopID],
			ModificationDateTime: now,
		})
		if err != nil {
			return err
		}

		updateModel := mongo.NewReplaceOneModel()
		updateModel.SetFilter(bson.M{"stop": stopID})
		updateModel.SetReplacement(bsonRep)
		updateModel.SetUpsert(true)

		operations = append(operations, updateModel)

		if len(operations) >= mongoBatchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := flush(); err != nil {
		return err
	}

	deleted, err := m.collection.DeleteMany(ctx, bson.M{"runid": bson.M{"$ne": runID}})
	if err != nil {
		return err
	}

	log.Info().Int64("writes", written).Int64("deleted", deleted.DeletedCount).Msg("Written stop services to database")

	return nil
}
