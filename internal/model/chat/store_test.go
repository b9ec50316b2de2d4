package chat

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")

	store := NewFileStore(path)
	if got := store.Load(); len(got) != 0 {
		t.Fatalf("expected empty history, got %d messages", len(got))
	}

	first := NewUserMessage("hello")
	second := NewAssistantMessage("hi there")
	if err := store.Append(first); err != nil {
		t.Fatalf("Append err: %v", err)
	}
	if err := store.Append(second); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	reloaded := NewFileStore(path)
	got := reloaded.Load()
	if len(got) != 2 {
		t.Fatalf("expected 2 messages after reload, got %d", len(got))
	}
	if got[0].ID != first.ID || got[1].ID != second.ID {
		t.Fatalf("history order not preserved: %v", got)
	}
	if got[0].Role != RoleUser || got[1].Role != RoleAssistant {
		t.Fatalf("unexpected roles: %s, %s", got[0].Role, got[1].Role)
	}
}

func TestFileStoreCorruptBlobYieldsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed corrupt blob: %v", err)
	}

	store := NewFileStore(path)
	if got := store.Load(); len(got) != 0 {
		t.Fatalf("corrupt blob should load as empty, got %d messages", len(got))
	}

	// The store must still accept appends afterwards.
	if err := store.Append(NewUserMessage("recovered")); err != nil {
		t.Fatalf("Append after corrupt load err: %v", err)
	}
	if got := NewFileStore(path).Load(); len(got) != 1 {
		t.Fatalf("expected 1 message after recovery, got %d", len(got))
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.json")

	store := NewFileStore(path)
	if err := store.Append(NewUserMessage("bye")); err != nil {
		t.Fatalf("Append err: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear err: %v", err)
	}

	if got := store.Load(); len(got) != 0 {
		t.Fatalf("expected empty history after clear, got %d", len(got))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected blob removed, stat err: %v", err)
	}

	// Clearing an already-empty store is a no-op.
	if err := store.Clear(); err != nil {
		t.Fatalf("second Clear err: %v", err)
	}
}

func TestWindow(t *testing.T) {
	var messages []Message
	for _, text := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		messages = append(messages, NewUserMessage(text))
	}

	window := Window(messages, 7)
	if len(window) != 7 {
		t.Fatalf("expected window of 7, got %d", len(window))
	}
	if window[0].Content != "c" || window[6].Content != "i" {
		t.Fatalf("window not oldest-first over the tail: %v", window)
	}

	if got := Window(messages[:3], 7); len(got) != 3 {
		t.Fatalf("short history should pass through, got %d entries", len(got))
	}
	if got := Window(nil, 7); got != nil {
		t.Fatalf("empty history should yield nil window, got %v", got)
	}
}
