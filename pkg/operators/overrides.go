package operators

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

var ErrMalformedOverrides = errors.New("malformed operator overrides")

// LoadOverrides reads a flat YAML or JSON mapping of code or name to display name.
// A missing file and a malformed file both give no overrides, logged differently.
func LoadOverrides(path string) []Override {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", path).Msg("Operator overrides file not found, continuing without overrides")
		return nil
	} else if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Operator overrides file could not be read, continuing without overrides")
		return nil
	}

	overrides, err := ParseOverrides(data)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Operator overrides file is malformed, continuing without overrides")
		return nil
	}

	log.Info().Str("path", path).Int("overrides", len(overrides)).Msg("Loaded operator overrides")

	return overrides
}

// ParseOverrides keeps the declared order of keys as prefix matching depends on it
func ParseOverrides(data []byte) ([]Override, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedOverrides, err)
	}

	if document.Kind == 0 || len(document.Content) == 0 {
		return nil, nil
	}

	mapping := document.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a mapping at line %d", ErrMalformedOverrides, mapping.Line)
	}

	var overrides []Override
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		key := mapping.Content[i]
		value := mapping.Content[i+1]

		if key.Kind != yaml.ScalarNode || value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non string entry at line %d", ErrMalformedOverrides, key.Line)
		}

		overrides = append(overrides, Override{Key: key.Value, Name: value.Value})
	}

	return overrides, nil
}

// LoadDirectory assembles the run's operator directory from its two reference files
func LoadDirectory(codeTablePath string, overridesPath string) *Directory {
	return NewDirectory(LoadCodeTable(codeTablePath), LoadOverrides(overridesPath))
}
