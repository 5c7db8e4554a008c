package publish

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/stopservices/pkg/consolidator"
	"github.com/travigo/stopservices/pkg/util"
)

// CatchAllBucket holds every stop that cannot be bucketed by prefix
const CatchAllBucket = "_"

var ErrInvalidPrefixLength = errors.New("shard prefix length must be at least 1")

// ShardKey is the bucket a stop identifier belongs in. Identifiers shorter than the
// prefix, or whose prefix would not make a safe file name, go to the catch-all bucket.
func ShardKey(stopID string, prefixLength int) string {
	if len(stopID) < prefixLength {
		return CatchAllBucket
	}

	prefix := util.TrimString(stopID, prefixLength)
	if strings.ContainsAny(prefix, `/\.:`) {
		return CatchAllBucket
	}

	return prefix
}

// Shard partitions output by stop identifier prefix
func Shard(output consolidator.Output, prefixLength int) map[string]consolidator.Output {
	shards := map[string]consolidator.Output{}

	for stopID, services := range output {
		key := ShardKey(stopID, prefixLength)

		shard, exists := shards[key]
		if !exists {
			shard = consolidator.Output{}
			shards[key] = shard
		}
		shard[stopID] = services
	}

	return shards
}

// WriteShards writes one <prefix>.json file per bucket into dir and returns how many were written
func WriteShards(dir string, output consolidator.Output, prefixLength int) (int, error) {
	if prefixLength < 1 {
		return 0, ErrInvalidPrefixLength
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	shards := Shard(output, prefixLength)
	for key, shard := range shards {
		if err := WriteDocumentFile(filepath.Join(dir, fmt.Sprintf("%s.json", key)), shard); err != nil {
			return 0, err
		}
	}

	log.Info().Str("directory", dir).Int("shards", len(shards)).Msg("Written shards")

	return len(shards), nil
}

// ReadShards merges every shard file in dir back into one output
func ReadShards(dir string) (consolidator.Output, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	output := consolidator.Output{}
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}

		shard, err := ReadDocument(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("reading shard %s: %w", path, err)
		}

		for stopID, services := range shard {
			output[stopID] = services
		}
	}

	return output, nil
}
