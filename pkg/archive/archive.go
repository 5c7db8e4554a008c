package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

var (
	ErrArchiveOpen = errors.New("cannot open archive")
	ErrEntryRead   = errors.New("cannot read archive entry")
)

// Entry is one XML document held fully in memory
type Entry struct {
	Archive string
	Name    string
	Data    []byte
}

// Archive is a zip bundle of documents, or a single document on its own
type Archive struct {
	Name string

	zipReader *zip.ReadCloser
	document  string
}

func Open(path string) (*Archive, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrArchiveOpen, path, err)
		}

		return &Archive{Name: path, document: path}, nil
	default:
		zipReader, err := zip.OpenReader(path)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrArchiveOpen, path, err)
		}

		return &Archive{Name: path, zipReader: zipReader}, nil
	}
}

func (a *Archive) Close() error {
	if a.zipReader != nil {
		return a.zipReader.Close()
	}

	return nil
}

// Entries yields every XML document in the archive, descending into nested zip
// files. A failed entry is yielded as an error and iteration carries on.
func (a *Archive) Entries() iter.Seq2[*Entry, error] {
	return func(yield func(*Entry, error) bool) {
		if a.document != "" {
			data, err := os.ReadFile(a.document)
			if err != nil {
				yield(nil, fmt.Errorf("%w %s: %w", ErrEntryRead, a.document, err))
				return
			}

			yield(&Entry{Archive: a.Name, Name: filepath.Base(a.document), Data: data}, nil)
			return
		}

		walkZip(a.Name, "", a.zipReader.File, yield)
	}
}

func walkZip(archiveName string, prefix string, files []*zip.File, yield func(*Entry, error) bool) bool {
	for _, zipFile := range files {
		if zipFile.FileInfo().IsDir() {
			continue
		}

		name := zipFile.Name
		if prefix != "" {
			name = fmt.Sprintf("%s:%s", prefix, zipFile.Name)
		}

		switch strings.ToLower(filepath.Ext(zipFile.Name)) {
		case ".xml":
			data, err := readZipFile(zipFile)
			if err != nil {
				if !yield(nil, fmt.Errorf("%w %s: %w", ErrEntryRead, name, err)) {
					return false
				}
				continue
			}

			if !yield(&Entry{Archive: archiveName, Name: name, Data: data}, nil) {
				return false
			}
		case ".zip":
			data, err := readZipFile(zipFile)
			if err == nil {
				var innerReader *zip.Reader
				innerReader, err = zip.NewReader(bytes.NewReader(data), int64(len(data)))
				if err == nil {
					log.Debug().Str("archive", archiveName).Str("bundle", name).Msg("Expanding nested archive")

					if !walkZip(archiveName, name, innerReader.File, yield) {
						return false
					}
					continue
				}
			}

			if !yield(nil, fmt.Errorf("%w %s: %w", ErrEntryRead, name, err)) {
				return false
			}
		default:
			log.Debug().Str("archive", archiveName).Str("entry", name).Msg("Skipping non XML entry")
		}
	}

	return true
}

func readZipFile(zipFile *zip.File) ([]byte, error) {
	file, err := zipFile.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
