package operators

import "strings"

// Override maps a raw operator code, code prefix or document name to a display name
type Override struct {
	Key  string
	Name string
}

// Directory is the reference data for operator resolution. It is not modified after loading.
type Directory struct {
	codes map[string]string

	overrides     []Override
	overrideIndex map[string]string
}

// NewDirectory builds a directory from a canonical code table and overrides in declared order
func NewDirectory(codes map[string]string, overrides []Override) *Directory {
	directory := &Directory{
		codes:         map[string]string{},
		overrideIndex: map[string]string{},
	}

	for code, name := range codes {
		directory.codes[code] = name
	}

	for _, override := range overrides {
		if _, exists := directory.overrideIndex[override.Key]; exists {
			continue
		}

		directory.overrides = append(directory.overrides, override)
		directory.overrideIndex[override.Key] = override.Name
	}

	return directory
}

func (d *Directory) CodeCount() int {
	return len(d.codes)
}

func (d *Directory) OverrideCount() int {
	return len(d.overrides)
}

func (d *Directory) exactOverride(key string) (string, bool) {
	if key == "" {
		return "", false
	}

	name, exists := d.overrideIndex[key]
	return name, exists
}

func (d *Directory) prefixOverride(code string) (string, bool) {
	if code == "" {
		return "", false
	}

	for _, override := range d.overrides {
		if override.Key != "" && strings.HasPrefix(code, override.Key) {
			return override.Name, true
		}
	}

	return "", false
}

func (d *Directory) canonicalName(code string) (string, bool) {
	if code == "" {
		return "", false
	}

	name, exists := d.codes[code]
	return name, exists
}
