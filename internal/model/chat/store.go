package chat

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Store is the persisted, append-only conversation log.
type Store interface {
	// Load returns the full ordered history. Absent or corrupt state yields
	// an empty sequence, never an error.
	Load() []Message
	// Append persists the history with the new message added at the end.
	Append(Message) error
	// Clear erases persisted state entirely. It does not re-seed a greeting;
	// that is the orchestrator's job.
	Clear() error
}

// FileStore keeps the conversation in a single JSON blob on disk, mirrored by
// an in-memory cache. Every mutation rewrites the whole blob.
type FileStore struct {
	mu       sync.RWMutex
	path     string
	messages []Message
}

// NewFileStore loads existing history from path. A missing or unreadable blob
// starts the store empty.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, messages: readMessages(path)}
}

func readMessages(path string) []Message {
	b, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[store] failed to read message blob: %v", err)
		}
		return nil
	}

	var messages []Message
	if err := json.Unmarshal(b, &messages); err != nil {
		log.Printf("[store] discarding corrupt message blob: %v", err)
		return nil
	}
	return messages
}

// Load returns a copy of the cached history.
func (s *FileStore) Load() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Append adds the message and rewrites the blob.
func (s *FileStore) Append(message Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(append([]Message(nil), s.messages...), message)
	if err := s.write(next); err != nil {
		return err
	}
	s.messages = next
	return nil
}

// Clear removes the blob and empties the cache.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	s.messages = nil
	return nil
}

func (s *FileStore) write(messages []Message) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore implements Store without persistence, suitable for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []Message
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored history.
func (s *MemoryStore) Load() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copied := make([]Message, len(s.messages))
	copy(copied, s.messages)
	return copied
}

// Append adds a message to the history.
func (s *MemoryStore) Append(message Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, message)
	return nil
}

// Clear resets the history to empty.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	return nil
}
