package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/sridharsri/consultancy/backend/internal/config"
	"github.com/sridharsri/consultancy/backend/internal/model/chat"
	"github.com/sridharsri/consultancy/backend/internal/model/doctor"
	chatservice "github.com/sridharsri/consultancy/backend/internal/service/chat"
)

// historyLimit bounds the conversation context sent to the model: the last
// five exchanges, user and bot turns counted separately.
const historyLimit = 10

// Service resolves user questions through an LLM, enriching the prompt
// with doctor directory context and recent conversation history. It backs
// the remote chat endpoint the widget's remote resolver talks to.
type Service struct {
	chatModel model.ChatModel
	doctors   doctor.Store
	chatSvc   *chatservice.Service
	chain     compose.Runnable[map[string]any, *schema.Message]
}

// NewService creates the LLM-backed resolver from the Ark configuration.
func NewService(ctx context.Context, doctors doctor.Store, chatSvc *chatservice.Service, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
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

	return &Service{
		chatModel: chatModel,
		doctors:   doctors,
		chatSvc:   chatSvc,
		chain:     runnable,
	}, nil
}

// Resolve generates a reply for the question within the session's
// conversation context. It satisfies the resolver contract.
func (s *Service) Resolve(ctx context.Context, sessionID, question string) (string, error) {
	var history []chat.Message
	if s.chatSvc != nil {
		messages, err := s.chatSvc.LoadTranscript(ctx, sessionID)
		if err == nil {
			history = messages
		}
	}

	input := map[string]any{
		"system":  BuildSystemPrompt(question, s.doctors),
		"history": buildHistoryMessages(history),
		"query":   question,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run chat chain: %w", err)
	}

	log.Printf("[ai] generated response for session=%s, length=%d", sessionID, len(response.Content))
	return response.Content, nil
}

func buildHistoryMessages(messages []chat.Message) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Text))
		case chat.SenderBot:
			history = append(history, schema.AssistantMessage(msg.Text, nil))
		}
	}

	return history
}
