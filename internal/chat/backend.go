// Package chat runs the AI health assistant conversations shown on the patient
// dashboard.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/Skufu/heartcheck/internal/upstream"
)

// Roles used in a transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrEmptyReply is returned when a backend answers with no text.
var ErrEmptyReply = errors.New("chat: empty reply")

// Message is one transcript entry.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Backend produces the assistant's next reply for a transcript.
type Backend interface {
	Reply(ctx context.Context, messages []Message) (string, error)
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RemoteBackend calls POST /chat/gpt on the prediction service.
type RemoteBackend struct {
	api *upstream.Client
}

func NewRemoteBackend(api *upstream.Client) *RemoteBackend {
	return &RemoteBackend{api: api}
}

func (b *RemoteBackend) Reply(ctx context.Context, messages []Message) (string, error) {
	req := struct {
		Messages []wireMessage `json:"messages"`
	}{Messages: make([]wireMessage, 0, len(messages))}
	for _, m := range messages {
		req.Messages = append(req.Messages, wireMessage{Role: m.Role, Content: m.Content})
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := b.api.PostJSON(ctx, "/chat/gpt", req, &resp); err != nil {
		return "", fmt.Errorf("chat reply: %w", err)
	}
	if resp.Message == "" {
		return "", ErrEmptyReply
	}
	return resp.Message, nil
}

// SystemPrompt steers the OpenAI backend.
const SystemPrompt = "You are a friendly heart health assistant. Help users understand their heart " +
	"health metrics, suggest lifestyle, diet and exercise improvements, and explain medical terms " +
	"in plain language. You do not diagnose. For chest pain, fainting or other emergency signs, " +
	"tell the user to contact emergency services immediately."

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend talks to the OpenAI chat completion API directly.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend returns a backend for model. An empty baseURL uses the
// public OpenAI endpoint.
func NewOpenAIBackend(apiKey, model, baseURL string) *OpenAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{client: openai.NewClientWithConfig(cfg), model: model}
}

func (b *OpenAIBackend) Reply(ctx context.Context, messages []Message) (string, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt})
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    oaMsgs,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}
