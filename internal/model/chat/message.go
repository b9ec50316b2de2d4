package chat

import (
	"time"

	"github.com/google/uuid"
)

// Roles a message can carry. The conversation only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in the conversation. Immutable once created.
type Message struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserMessage builds a user turn with a fresh id and UTC timestamp.
func NewUserMessage(text string) Message {
	return newMessage(RoleUser, text)
}

// NewAssistantMessage builds an assistant turn with a fresh id and UTC timestamp.
func NewAssistantMessage(text string) Message {
	return newMessage(RoleAssistant, text)
}

func newMessage(role, text string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// HistoryEntry is the reduced role/content pair sent to the model.
type HistoryEntry struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Window reduces the last limit messages to role/content pairs, oldest first.
// It is derived fresh per model call and never stored.
func Window(messages []Message, limit int) []HistoryEntry {
	if limit <= 0 || len(messages) == 0 {
		return nil
	}

	start := 0
	if len(messages) > limit {
		start = len(messages) - limit
	}

	window := make([]HistoryEntry, 0, len(messages)-start)
	for _, msg := range messages[start:] {
		window = append(window, HistoryEntry{Role: msg.Role, Content: msg.Text})
	}
	return window
}
