package api

import (
	"os"
	"time"

	"github.com/travigo/stopservices/pkg/consolidator"
	"github.com/travigo/stopservices/pkg/publish"
)

// Index is a read only published output held in memory for lookups
type Index struct {
	output consolidator.Output
	loaded time.Time
}

func NewIndex(output consolidator.Output) *Index {
	if output == nil {
		output = consolidator.Output{}
	}

	return &Index{
		output: output,
		loaded: time.Now(),
	}
}

// LoadIndex reads either a shard directory or a single output document
func LoadIndex(path string) (*Index, error) {
	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if fileInfo.IsDir() {
		output, err := publish.ReadShards(path)
		if err != nil {
			return nil, err
		}

		return NewIndex(output), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	output, err := publish.ReadDocument(file)
	if err != nil {
		return nil, err
	}

	return NewIndex(output), nil
}

func (i *Index) Services(stopID string) ([]consolidator.ResolvedService, bool) {
	services, exists := i.output[stopID]
	return services, exists
}

func (i *Index) StopCount() int {
	return len(i.output)
}

func (i *Index) ServiceCount() int {
	return i.output.ServiceCount()
}

func (i *Index) Loaded() time.Time {
	return i.loaded
}
