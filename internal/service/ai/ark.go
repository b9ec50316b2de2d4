package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/maxbuilds/panda-ai/backend/internal/config"
	"github.com/maxbuilds/panda-ai/backend/internal/model/chat"
)

// arkResponder runs a fixed prompt→model eino chain against Volcengine Ark.
type arkResponder struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

func newArkResponder(ctx context.Context, cfg config.AIConfig) (*arkResponder, error) {
	chatModel, err := cfg.NewArkChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &arkResponder{chain: runnable}, nil
}

func (a *arkResponder) Reply(ctx context.Context, req ReplyRequest) (string, error) {
	input := map[string]any{
		"system":  systemPrompt(req.AssistantName),
		"history": schemaHistory(req.History),
		"query":   req.Message,
	}

	response, err := a.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	return response.Content, nil
}

func schemaHistory(entries []chat.HistoryEntry) []*schema.Message {
	if len(entries) == 0 {
		return nil
	}

	history := make([]*schema.Message, 0, len(entries))
	for _, entry := range entries {
		switch entry.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(entry.Content))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(entry.Content, nil))
		}
	}
	return history
}
