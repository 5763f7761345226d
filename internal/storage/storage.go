package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nikbrunner/gallery/internal/model"
)

// ErrNotFound is returned when a painting is not in the local catalog.
var ErrNotFound = errors.New("painting not found")

// Storage defines the interface for persisting the local catalog.
type Storage interface {
	Load() (*model.Catalog, error)
	Save(catalog *model.Catalog) error
}

// JSONStorage implements Storage using a JSON file.
type JSONStorage struct {
	path string
	mu   sync.Mutex
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Load reads the catalog from the JSON file.
// Returns an empty catalog if the file doesn't exist.
func (s *JSONStorage) Load() (*model.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewCatalog(), nil
		}
		return nil, err
	}

	var catalog model.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	if catalog.Paintings == nil {
		catalog.Paintings = []model.Painting{}
	}

	return &catalog, nil
}

// Save writes the catalog to the JSON file.
// Creates the directory if it doesn't exist. The file is replaced by a
// rename, so a concurrent Load sees either the old or the new catalog.
func (s *JSONStorage) Save(catalog *model.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Lookup loads the catalog and returns the painting with id.
func Lookup(s Storage, id string) (model.Painting, error) {
	catalog, err := s.Load()
	if err != nil {
		return model.Painting{}, err
	}
	p := catalog.GetPaintingByID(id)
	if p == nil {
		return model.Painting{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return *p, nil
}

// Dir returns the gallery config directory: ~/.config/gallery
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "gallery"), nil
}

// DefaultCatalogPath returns the default catalog path: ~/.config/gallery/paintings.json
func DefaultCatalogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "paintings.json"), nil
}

// DefaultSQLitePath returns the default SQLite database path: ~/.config/gallery/paintings.db
func DefaultSQLitePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "paintings.db"), nil
}

// DefaultStatePath returns the app-state snapshot path: ~/.config/gallery/state.json
func DefaultStatePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.json"), nil
}

// DefaultCacheDir returns the query cache directory under the user cache dir.
func DefaultCacheDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gallery"), nil
}

// DefaultLogPath returns $XDG_STATE_HOME/gallery/gallery.log, falling back
// to ~/.local/state when XDG_STATE_HOME is unset.
func DefaultLogPath() (string, error) {
	base := os.Getenv("XDG_STATE_HOME")
	if base == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(base, "gallery", "gallery.log"), nil
}

// OpenStorage opens the appropriate storage backend.
// Prefers SQLite if the database file exists, otherwise falls back to JSON.
func OpenStorage() (Storage, error) {
	sqlitePath, err := DefaultSQLitePath()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(sqlitePath); err == nil {
		return NewSQLiteStorage(sqlitePath)
	}

	jsonPath, err := DefaultCatalogPath()
	if err != nil {
		return nil, err
	}
	return NewJSONStorage(jsonPath), nil
}
