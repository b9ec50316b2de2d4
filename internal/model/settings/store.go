package settings

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store holds the singleton assistant settings with change notification.
type Store interface {
	// Get always returns a fully populated value.
	Get() Settings
	// Update merges the partial, persists, notifies subscribers synchronously
	// and returns the new full value.
	Update(Partial) Settings
	// Subscribe registers a callback invoked on every successful update.
	Subscribe(func(Settings))
}

// FileStore persists settings as a JSON blob independent from the chat blob.
type FileStore struct {
	mu          sync.RWMutex
	path        string
	current     Settings
	subscribers []func(Settings)
}

// NewFileStore loads settings from path, falling back to defaults for any
// missing or malformed state.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, current: readSettings(path)}
}

func readSettings(path string) Settings {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[store] failed to read settings blob: %v", err)
		}
		return Defaults()
	}

	var loaded Settings
	if err := json.Unmarshal(b, &loaded); err != nil {
		log.Printf("[store] discarding corrupt settings blob: %v", err)
		return Defaults()
	}
	return loaded.normalized()
}

// Get returns the cached settings.
func (s *FileStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update merges, persists and notifies.
func (s *FileStore) Update(update Partial) Settings {
	s.mu.Lock()
	next := s.current.merge(update)
	s.current = next
	if err := s.write(next); err != nil {
		log.Printf("[store] failed to persist settings: %v", err)
	}
	subscribers := append([]func(Settings){}, s.subscribers...)
	s.mu.Unlock()

	for _, notify := range subscribers {
		notify(next)
	}
	return next
}

// Subscribe registers a change listener.
func (s *FileStore) Subscribe(fn func(Settings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func (s *FileStore) write(value Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
