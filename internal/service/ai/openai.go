package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/maxbuilds/panda-ai/backend/internal/config"
	"github.com/maxbuilds/panda-ai/backend/internal/model/chat"
)

// openAIResponder talks to the OpenAI chat completions API.
type openAIResponder struct {
	client      *openai.Client
	model       string
	temperature float32
}

func newOpenAIResponder(cfg config.AIConfig) *openAIResponder {
	return &openAIResponder{
		client:      openai.NewClient(cfg.OpenAIAPIKey),
		model:       cfg.OpenAIModel,
		temperature: float32(cfg.Temperature),
	}
}

func (o *openAIResponder) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt(req.AssistantName),
	})
	for _, entry := range req.History {
		role := openai.ChatMessageRoleAssistant
		if entry.Role == chat.RoleUser {
			role = openai.ChatMessageRoleUser
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: entry.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Message,
	})

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		Temperature: o.temperature,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("openai rejected the request (status %d): %w", apiErr.HTTPStatusCode, ErrModelRejected)
		}
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
