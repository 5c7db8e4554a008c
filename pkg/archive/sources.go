package archive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

// Resolve expands directories into the archives they hold. URLs and plain file
// paths are passed through untouched. An unreadable directory fails the whole call.
func Resolve(sources []string) ([]string, error) {
	var locations []string

	for _, source := range sources {
		if isValidUrl(source) {
			locations = append(locations, source)
			continue
		}

		fileInfo, err := os.Stat(source)
		if err != nil || !fileInfo.IsDir() {
			locations = append(locations, source)
			continue
		}

		dirEntries, err := os.ReadDir(source)
		if err != nil {
			return nil, fmt.Errorf("reading archive directory %s: %w", source, err)
		}

		var directoryLocations []string
		for _, dirEntry := range dirEntries {
			if dirEntry.IsDir() {
				continue
			}

			switch strings.ToLower(filepath.Ext(dirEntry.Name())) {
			case ".zip", ".xml":
				directoryLocations = append(directoryLocations, filepath.Join(source, dirEntry.Name()))
			}
		}
		sort.Strings(directoryLocations)

		log.Debug().Str("directory", source).Int("archives", len(directoryLocations)).Msg("Resolved archive directory")

		locations = append(locations, directoryLocations...)
	}

	return locations, nil
}

// OpenLocation opens a local archive, downloading it first when location is a URL
func OpenLocation(ctx context.Context, location string) (*Archive, func(), error) {
	if !isValidUrl(location) {
		archive, err := Open(location)
		return archive, func() {}, err
	}

	tempFile, err := tempDownloadFile(ctx, location)
	if err != nil {
		return nil, func() {}, fmt.Errorf("%w %s: %w", ErrArchiveOpen, location, err)
	}
	cleanup := func() { os.Remove(tempFile) }

	archive, err := Open(tempFile)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	archive.Name = location

	return archive, cleanup, nil
}

func isValidUrl(toTest string) bool {
	_, err := url.ParseRequestURI(toTest)
	if err != nil {
		return false
	}

	u, err := url.Parse(toTest)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}

	return u.Scheme == "http" || u.Scheme == "https"
}

func tempDownloadFile(ctx context.Context, source string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "curl/7.54.1") // Some feeds are behind cloudflare which rejects requests with no user agent

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	fileExtension := filepath.Ext(source)
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err == nil && filepath.Ext(params["filename"]) != "" {
		fileExtension = filepath.Ext(params["filename"])
	}
	if fileExtension == "" || strings.Contains(fileExtension, "?") {
		fileExtension = ".zip"
	}

	tmpFile, err := os.CreateTemp(os.TempDir(), fmt.Sprintf("travigo-stopservices-*%s", fileExtension))
	if err != nil {
		return "", err
	}
	defer tmpFile.Close()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		os.Remove(tmpFile.Name())
		return "", err
	}

	log.Debug().Str("source", source).Str("file", tmpFile.Name()).Msg("Downloaded archive")

	return tmpFile.Name(), nil
}
