package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/maxbuilds/panda-ai/backend/internal/analysis/intent"
	"github.com/maxbuilds/panda-ai/backend/internal/model/chat"
	"github.com/maxbuilds/panda-ai/backend/internal/model/settings"
	"github.com/maxbuilds/panda-ai/backend/internal/service/ai"
	"github.com/maxbuilds/panda-ai/backend/internal/service/speech"
)

// historyWindow bounds the recent-message slice sent to the model.
const historyWindow = 7

// fallbackReply is appended when the model call fails. Deliberately distinct
// from the ai package's unconfigured template.
const fallbackReply = "I ran into a connection snag. Please check your API key or try again shortly."

const greetingFormat = "Hey there! I’m %s, your bamboo-powered buddy. Tap the mic and tell me what you need—open apps, search the web, or just chat."

// Service orchestrates the conversation: it decides per utterance between a
// local intent and a model query, sequences store mutation, model call and
// speech, and keeps the thinking flag honest.
type Service struct {
	messages chat.Store
	settings settings.Store
	intents  *intent.Resolver
	model    ai.Responder
	speaker  speech.Speaker

	mu       sync.Mutex
	inFlight int
	notify   func(thinking bool)
}

// New wires the orchestrator. All collaborators are required except that a
// nil speaker falls back to NopSpeaker.
func New(messages chat.Store, store settings.Store, intents *intent.Resolver, model ai.Responder, speaker speech.Speaker) *Service {
	if speaker == nil {
		speaker = speech.NopSpeaker{}
	}
	return &Service{
		messages: messages,
		settings: store,
		intents:  intents,
		model:    model,
		speaker:  speaker,
	}
}

// OnThinking registers a notifier for thinking-state transitions.
func (s *Service) OnThinking(fn func(bool)) {
	s.mu.Lock()
	s.notify = fn
	s.mu.Unlock()
}

// Thinking reports whether any model call is outstanding.
func (s *Service) Thinking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Submit processes one utterance to completion and returns the messages it
// appended. Empty or whitespace-only input is a silent no-op. Failures never
// escape: they terminate in a user-visible fallback message. Overlapping
// submits are allowed and each runs independently.
func (s *Service) Submit(ctx context.Context, rawText string) []chat.Message {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return nil
	}

	userMessage := chat.NewUserMessage(trimmed)
	s.append(userMessage)

	if result := s.intents.Resolve(trimmed); result.Handled {
		if result.Reply == "" {
			return []chat.Message{userMessage}
		}
		return []chat.Message{userMessage, s.reply(ctx, result.Reply)}
	}

	s.setThinking(true)
	defer s.setThinking(false)

	window := chat.Window(s.messages.Load(), historyWindow)
	cfg := s.settings.Get()

	replyText, err := s.model.Reply(ctx, ai.ReplyRequest{
		Message:       trimmed,
		History:       window,
		AssistantName: cfg.AssistantName,
	})
	if err != nil {
		log.Printf("[assistant] model call failed: %v", err)
		replyText = fallbackReply
	}

	return []chat.Message{userMessage, s.reply(ctx, replyText)}
}

// Announce appends an assistant message outside the submit flow, e.g. a
// capture error surfaced by the speech bridge, and speaks it.
func (s *Service) Announce(ctx context.Context, text string) chat.Message {
	return s.reply(ctx, text)
}

// History returns the full conversation.
func (s *Service) History() []chat.Message {
	return s.messages.Load()
}

// EnsureGreeting seeds the greeting when the history is empty, as on first
// launch. The greeting is not spoken.
func (s *Service) EnsureGreeting() []chat.Message {
	if existing := s.messages.Load(); len(existing) > 0 {
		return existing
	}
	greeting := chat.NewAssistantMessage(s.greetingText())
	s.append(greeting)
	return []chat.Message{greeting}
}

// Reset clears the conversation and seeds a fresh greeting.
func (s *Service) Reset() chat.Message {
	if err := s.messages.Clear(); err != nil {
		log.Printf("[assistant] failed to clear history: %v", err)
	}
	greeting := chat.NewAssistantMessage(s.greetingText())
	s.append(greeting)
	return greeting
}

// reply persists the assistant message first, then speaks it.
func (s *Service) reply(ctx context.Context, text string) chat.Message {
	message := chat.NewAssistantMessage(text)
	s.append(message)
	s.speaker.Speak(ctx, text)
	return message
}

func (s *Service) append(message chat.Message) {
	if err := s.messages.Append(message); err != nil {
		log.Printf("[assistant] failed to persist %s message: %v", message.Role, err)
	}
}

func (s *Service) greetingText() string {
	return fmt.Sprintf(greetingFormat, s.settings.Get().AssistantName)
}

// setThinking tracks overlapping model calls; the observable flag flips only
// on the 0↔1 transitions.
func (s *Service) setThinking(on bool) {
	s.mu.Lock()
	var flipped bool
	if on {
		s.inFlight++
		flipped = s.inFlight == 1
	} else {
		s.inFlight--
		flipped = s.inFlight == 0
	}
	notify := s.notify
	s.mu.Unlock()

	if flipped && notify != nil {
		notify(on)
	}
}
