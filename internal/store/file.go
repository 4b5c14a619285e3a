package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileCollection persists a collection as a single JSON file holding an
// id-indexed map. Replace writes to a temp file in the same directory
// and renames it over the target, so readers never observe a partial
// write.
type FileCollection[T any] struct {
	path string
}

// NewFileCollection creates a file-backed collection stored at
// dir/<name>.json, creating the directory if needed.
func NewFileCollection[T any](dir, name string) (*FileCollection[T], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create data dir %s: %v", ErrStorage, dir, err)
	}
	return &FileCollection[T]{path: filepath.Join(dir, name+".json")}, nil
}

// Load reads the collection file. A missing file loads as an empty map.
func (c *FileCollection[T]) Load(ctx context.Context) (map[string]T, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return map[string]T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrStorage, c.path, err)
	}

	records := map[string]T{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStorage, c.path, err)
	}

	return records, nil
}

// Replace overwrites the collection file atomically.
func (c *FileCollection[T]) Replace(ctx context.Context, records map[string]T) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrStorage, c.path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file for %s: %v", ErrStorage, c.path, err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: write %s: %v", ErrStorage, c.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: close %s: %v", ErrStorage, c.path, err)
	}

	if err := os.Rename(tmp.Name(), c.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replace %s: %v", ErrStorage, c.path, err)
	}

	return nil
}
