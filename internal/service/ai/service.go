package ai

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/maxbuilds/panda-ai/backend/internal/config"
	"github.com/maxbuilds/panda-ai/backend/internal/model/chat"
)

// ErrModelRejected marks a definitive refusal from the model backend, e.g. a
// bad API key or missing model permission. Transport and decoding failures
// stay generic.
var ErrModelRejected = errors.New("model backend rejected the request")

// ReplyRequest is the wire contract of the model proxy: the new utterance,
// a bounded history window (oldest first) and the configured assistant name.
type ReplyRequest struct {
	Message       string              `json:"message"`
	History       []chat.HistoryEntry `json:"history"`
	AssistantName string              `json:"assistantName"`
}

// Responder produces one assistant reply for one request.
type Responder interface {
	Reply(ctx context.Context, req ReplyRequest) (string, error)
}

// Service picks a model provider from configuration. Running without any
// provider is a valid state: replies fall back to a deterministic template
// that names the assistant and echoes the input.
type Service struct {
	provider Responder
	name     string
}

// NewService selects the provider. Ark credentials win over an OpenAI key so
// an explicit Ark setup is not shadowed by a leftover OPENAI_API_KEY.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	switch {
	case cfg.ArkEnabled():
		provider, err := newArkResponder(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ark provider: %w", err)
		}
		return &Service{provider: provider, name: "ark"}, nil
	case cfg.OpenAIEnabled():
		return &Service{provider: newOpenAIResponder(cfg), name: "openai"}, nil
	default:
		return &Service{}, nil
	}
}

// Configured reports whether a live model backend is available.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Provider names the active backend, empty when unconfigured.
func (s *Service) Provider() string {
	return s.name
}

// Reply generates an assistant reply. Without a configured provider it
// returns the "unconfigured" template instead of an error.
func (s *Service) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	if s.provider == nil {
		return UnconfiguredReply(req.AssistantName, req.Message), nil
	}

	reply, err := s.provider.Reply(ctx, req)
	if err != nil {
		return "", err
	}

	log.Printf("[ai] generated reply via %s, history=%d, length=%d", s.name, len(req.History), len(reply))
	return reply, nil
}

// UnconfiguredReply is the templated informational reply used when no model
// backend is configured. Distinct from the orchestrator's network-failure
// fallback.
func UnconfiguredReply(assistantName, message string) string {
	return fmt.Sprintf("%s here! I heard: “%s”. Connect your OpenAI or Gemini key in the environment to unlock full AI responses.", assistantName, message)
}
