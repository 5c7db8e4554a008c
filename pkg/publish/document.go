package publish

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/travigo/stopservices/pkg/consolidator"
)

// WriteDocument serialises output as a single JSON object keyed by stop identifier
func WriteDocument(w io.Writer, output consolidator.Output) error {
	if output == nil {
		output = consolidator.Output{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)

	return encoder.Encode(output)
}

// WriteDocumentFile writes output to path, replacing it only once fully written
func WriteDocumentFile(path string, output consolidator.Output) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".stopservices-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if err := WriteDocument(tmpFile, output); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return os.Rename(tmpFile.Name(), path)
}

func ReadDocument(r io.Reader) (consolidator.Output, error) {
	output := consolidator.Output{}
	if err := json.NewDecoder(r).Decode(&output); err != nil {
		return nil, err
	}

	return output, nil
}
