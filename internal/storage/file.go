package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists every collection in one JSON document on disk. Each
// commit rewrites the document through a temp file and rename, so a crash
// leaves either the old or the new state.
type FileStore struct {
	*MemoryStore
	path string
}

// OpenFileStore loads path, creating parent directories when needed.
func OpenFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("storage: file path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}

	mem := NewMemoryStore()
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	case len(raw) > 0:
		var doc map[Collection]json.RawMessage
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("storage: decode %s: %w", path, err)
		}
		for name, value := range doc {
			mem.data[name] = []byte(value)
		}
	}

	fileStore := &FileStore{MemoryStore: mem, path: path}
	mem.persist = fileStore.write
	return fileStore, nil
}

func (s *FileStore) write(data map[Collection][]byte) error {
	doc := make(map[Collection]json.RawMessage, len(data))
	for name, value := range data {
		doc[name] = json.RawMessage(value)
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".paintstock-*.json")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("storage: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("storage: replace %s: %w", s.path, err)
	}
	return nil
}
