package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/kr/pretty"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/consolidator"
	"github.com/travigo/stopservices/pkg/elastic_client"
)

const stopServicesIndexPrefix = "travigo-stopservices-"

const stopServicesMapping = `{
	"settings": {
		"number_of_shards": 1,
		"number_of_replicas": 1
	},
	"mappings": {
		"properties": {
			"Stop": { "type": "keyword" },
			"RunID": { "type": "keyword" },
			"Service": {
				"properties": {
					"ref": { "type": "keyword" },
					"name": {
						"type": "text",
						"fields": {
							"keyword": {
								"type": "keyword",
								"ignore_above": 256
							}
						}
					},
					"operator": {
						"type": "text",
						"fields": {
							"keyword": {
								"type": "keyword",
								"ignore_above": 256
							}
						}
					},
					"operatorCode": { "type": "keyword" },
					"serviceCode": { "type": "keyword" }
				}
			}
		}
	}
}`

type stopServiceDocument struct {
	Stop    string
	RunID   string
	Service consolidator.ResolvedService
}

// ElasticPublisher indexes one document per stop and service into a fresh index
// then removes the indexes of earlier runs
type ElasticPublisher struct{}

func NewElasticPublisher() *ElasticPublisher {
	return &ElasticPublisher{}
}

func (e *ElasticPublisher) Name() string {
	return "elasticsearch"
}

func (e *ElasticPublisher) Publish(ctx context.Context, runID string, output consolidator.Output) error {
	indexName := fmt.Sprintf("%s%d", stopServicesIndexPrefix, time.Now().Unix())

	if err := createStopServicesIndex(ctx, indexName); err != nil {
		return err
	}

	for _, stopID := range output.StopIDs() {
		for _, service := range output[stopID] {
			document, err := json.Marshal(stopServiceDocument{
				Stop:    stopID,
				RunID:   runID,
				Service: service,
			})
			if err != nil {
				return err
			}

			if err := elastic_client.IndexRequest(ctx, indexName, bytes.NewReader(document)); err != nil {
				return err
			}
		}
	}

	log.Info().Str("index", indexName).Msg("Sent all index requests to queue")

	stats, err := elastic_client.WaitUntilQueueEmpty(ctx)
	if err != nil {
		return err
	}
	log.Debug().Msg(pretty.Sprint(stats))

	if stats.NumFailed > 0 {
		return fmt.Errorf("%d of %d documents failed to index into %s", stats.NumFailed, stats.NumAdded, indexName)
	}

	return deleteOldIndexes(ctx, stopServicesIndexPrefix+"*", indexName)
}

func createStopServicesIndex(ctx context.Context, indexName string) error {
	indexReq := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(stopServicesMapping),
	}

	resp, err := indexReq.Do(ctx, elastic_client.Client)
	if err != nil {
		return fmt.Errorf("creating index %s: %w", indexName, err)
	}
	defer resp.Body.Close()

	if resp.IsError() {
		responseBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("creating index %s: %s %s", indexName, resp.Status(), responseBytes)
	}

	return nil
}

func deleteOldIndexes(ctx context.Context, indexWildcard string, indexName string) error {
	catReq := esapi.CatIndicesRequest{
		Index:  []string{indexWildcard},
		Format: "json",
	}

	resp, err := catReq.Do(ctx, elastic_client.Client)
	if err != nil {
		return fmt.Errorf("listing indexes: %w", err)
	}
	defer resp.Body.Close()

	var indexes []struct {
		Index string `json:"index"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&indexes); err != nil {
		return fmt.Errorf("decoding index list: %w", err)
	}

	for _, index := range indexes {
		if index.Index == indexName {
			continue
		}

		deleteReq := esapi.IndicesDeleteRequest{
			Index: []string{index.Index},
		}

		deleteResp, err := deleteReq.Do(ctx, elastic_client.Client)
		if err != nil {
			log.Error().Err(err).Str("index", index.Index).Msg("Failed to delete old index")
			continue
		}
		deleteResp.Body.Close()

		log.Info().Str("index", index.Index).Msg("Delete old index")
	}

	return nil
}
