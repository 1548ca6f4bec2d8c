package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const (
	configFile   = "config.json"
	defaultsFile = "defaultConfig.json"
)

// FileStore persists settings as JSON under a data directory. The
// overrides file holds only what operators changed; loading overlays it
// on the defaults so a missing field always means "use the default".
type FileStore struct {
	mu           sync.Mutex
	path         string
	defaultsPath string
}

// NewFileStore ensures dir exists and writes the defaults file on first
// run so operators can inspect the reset target.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}

	store := &FileStore{
		path:         filepath.Join(dir, configFile),
		defaultsPath: filepath.Join(dir, defaultsFile),
	}

	if _, err := os.Stat(store.defaultsPath); errors.Is(err, fs.ErrNotExist) {
		if err := writeJSON(store.defaultsPath, Defaults()); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat defaults file: %w", err)
	}

	return store, nil
}

// Load returns the defaults overlaid with the stored overrides. A
// missing or unreadable overrides file yields plain defaults.
func (s *FileStore) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() Settings {
	base := s.defaultsLocked()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return base
	}

	var patch Patch
	if err := json.Unmarshal(raw, &patch); err != nil {
		return base
	}
	return patch.Apply(base)
}

// Update applies a patch on top of the current settings and persists the
// result as the new overrides file.
func (s *FileStore) Update(patch Patch) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.loadLocked())
	if err := writeJSON(s.path, next); err != nil {
		return Settings{}, err
	}
	return next, nil
}

// Replace overwrites the stored settings wholesale (config import).
func (s *FileStore) Replace(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeJSON(s.path, settings)
}

// Reset restores the stored settings to the defaults.
func (s *FileStore) Reset() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := s.defaultsLocked()
	if err := writeJSON(s.path, defaults); err != nil {
		return Settings{}, err
	}
	return defaults, nil
}

// Defaults reads the read-only defaults file, falling back to the
// built-in defaults if it is missing or corrupt.
func (s *FileStore) Defaults() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.defaultsLocked()
}

func (s *FileStore) defaultsLocked() Settings {
	raw, err := os.ReadFile(s.defaultsPath)
	if err != nil {
		return Defaults()
	}

	stored := Defaults()
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Defaults()
	}
	return stored
}

func writeJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
