package speech

import (
	"context"

	"github.com/maxbuilds/panda-ai/backend/internal/model/settings"
)

// Speaker voices one assistant reply. Speaking a new utterance always cancels
// the one currently playing.
type Speaker interface {
	Speak(ctx context.Context, text string)
}

// HubSpeaker forwards speech to connected clients, which run the actual
// text-to-speech engine. Voice and rate are read from settings at call time.
type HubSpeaker struct {
	hub      *Hub
	settings settings.Store
}

// NewHubSpeaker wires the hub to the settings store.
func NewHubSpeaker(hub *Hub, store settings.Store) *HubSpeaker {
	return &HubSpeaker{hub: hub, settings: store}
}

// Speak cancels any in-flight utterance, then pushes the new one.
func (s *HubSpeaker) Speak(_ context.Context, text string) {
	cfg := s.settings.Get()
	s.hub.Broadcast("cancel", nil)
	s.hub.Broadcast("speak", map[string]any{
		"text":    text,
		"voiceId": cfg.VoiceID,
		"rate":    cfg.SpeakingRate,
	})
}

// NopSpeaker discards speech, for tests and headless runs.
type NopSpeaker struct{}

// Speak does nothing.
func (NopSpeaker) Speak(context.Context, string) {}
