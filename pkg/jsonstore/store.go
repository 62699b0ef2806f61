package jsonstore

import (
	"fmt"
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store persists named collections as pretty-printed JSON files in a single
// directory, one file per collection. Every Save rewrites the whole file; the
// bytes go to a temp file first and are renamed into place so a reader never
// observes a partially written collection.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the file backing the named collection.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Load reads the named collection into out. A missing file is not an error:
// out is left untouched, representing an empty collection.
func (s *Store) Load(name string, out any) error {
	data, err := os.ReadFile(s.Path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return nil
}

// Save rewrites the named collection wholesale.
func (s *Store) Save(name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}

	tmp, err := os.CreateTemp(s.dir, name+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for collection %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write collection %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file for collection %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), s.Path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace collection %s: %w", name, err)
	}
	return nil
}
