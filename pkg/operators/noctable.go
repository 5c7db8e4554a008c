package operators

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

var (
	ErrColumnsNotFound = errors.New("operator table columns not found")

	nocCodeHeaderRegex      = regexp.MustCompile(`(?i)noc\s*_?code`)
	operatorNameHeaderRegex = regexp.MustCompile(`(?i)operator.*name`)
)

// LoadCodeTable reads the canonical operator code table from a Traveline NOC CSV
// or travelinedata XML export. Any failure degrades to an empty table with a warning.
func LoadCodeTable(path string) map[string]string {
	if path == "" {
		return map[string]string{}
	}

	file, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Operator code table could not be opened, continuing without it")
		return map[string]string{}
	}
	defer file.Close()

	var codes map[string]string
	if strings.ToLower(filepath.Ext(path)) == ".xml" {
		codes, err = ParseTravelineData(file)
	} else {
		codes, err = ParseCodeTableCSV(file)
	}

	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Operator code table unusable, continuing without it")
		return map[string]string{}
	}

	log.Info().Str("path", path).Int("codes", len(codes)).Msg("Loaded operator code table")

	return codes
}

// ParseCodeTableCSV finds the NOC code and operator name columns by their headers
func ParseCodeTableCSV(reader io.Reader) (map[string]string, error) {
	rows, err := gocsv.CSVToMaps(reader)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table has no records", ErrColumnsNotFound)
	}

	headers := make([]string, 0, len(rows[0]))
	for header := range rows[0] {
		headers = append(headers, header)
	}
	sort.Strings(headers)

	codeColumn := findColumn(headers, nocCodeHeaderRegex)
	nameColumn := findColumn(headers, operatorNameHeaderRegex)
	if codeColumn == "" || nameColumn == "" {
		return nil, fmt.Errorf("%w: code column %q, name column %q", ErrColumnsNotFound, codeColumn, nameColumn)
	}

	codes := map[string]string{}
	for _, row := range rows {
		code := strings.TrimSpace(row[codeColumn])
		name := strings.TrimSpace(row[nameColumn])

		if code == "" || name == "" {
			continue
		}
		if _, exists := codes[code]; !exists {
			codes[code] = name
		}
	}

	return codes, nil
}

func findColumn(headers []string, pattern *regexp.Regexp) string {
	for _, header := range headers {
		if pattern.MatchString(header) {
			return header
		}
	}

	return ""
}
