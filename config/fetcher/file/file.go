package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrPathIsDirectory is returned when the path points to a directory instead
// of a file.
var ErrPathIsDirectory = errors.New("path is a directory, not a file")

// Fetcher implements config.DataFetcher for file-based fixture sources. The
// file is read once at construction time and its contents cached; the
// fixture layer may re-read the same source cheaply on rebuilds.
type Fetcher struct {
	filepath string
	data     []byte
}

// NewFetcher creates a Fetcher for the file at fpath. Returns an error if
// the file cannot be read or if the path points to a directory.
func NewFetcher(fpath string) (*Fetcher, error) {
	cleanPath := filepath.Clean(fpath)

	stat, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	if stat.IsDir() {
		return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	}

	data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
	if err != nil {
		return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
	}

	return &Fetcher{
		filepath: cleanPath,
		data:     data,
	}, nil
}

// Path returns the cleaned path the fetcher was created from.
func (f *Fetcher) Path() string {
	return f.filepath
}

// Fetch returns a copy of the cached file contents. A copy is returned to
// prevent callers from mutating the cached data.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}
