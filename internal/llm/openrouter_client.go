package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenRouterClient implements Client against OpenRouter's OpenAI-compatible
// chat completions API.
type OpenRouterClient struct {
	api     chatCompleter
	modelID string
}

// OpenRouterOption configures the OpenRouter client.
type OpenRouterOption func(*openai.ClientConfig)

// WithCallTimeout bounds each completion call at the HTTP layer.
func WithCallTimeout(timeout time.Duration) OpenRouterOption {
	return func(cfg *openai.ClientConfig) {
		if timeout > 0 {
			cfg.HTTPClient = &http.Client{Timeout: timeout}
		}
	}
}

// NewOpenRouterClient creates a client for the given OpenRouter credentials.
// baseURL may be empty to use the public OpenRouter endpoint.
func NewOpenRouterClient(apiKey, baseURL, modelID string, opts ...OpenRouterOption) *OpenRouterClient {
	cfg := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	} else {
		cfg.BaseURL = "https://openrouter.ai/api/v1"
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "mistralai/mistral-7b-instruct"
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &OpenRouterClient{
		api:     openai.NewClientWithConfig(cfg),
		modelID: modelID,
	}
}

// Complete sends a chat completion request and returns the first choice.
func (c *OpenRouterClient) Complete(ctx context.Context, req Request) (Response, error) {
	if len(req.Messages) == 0 {
		return Response{}, errors.New("llm: at least one message is required")
	}

	model := req.Model
	if model == "" {
		model = c.modelID
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, msg := range req.Messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAssistant:
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	apiReq := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: req.Temperature,
	}
	if req.MaxTokens > 0 {
		apiReq.MaxTokens = int(req.MaxTokens)
	}

	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		return Response{}, fmt.Errorf("llm: openrouter completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New("llm: openrouter returned no choices")
	}

	choice := resp.Choices[0]
	return Response{
		Text:       strings.TrimSpace(choice.Message.Content),
		StopReason: string(choice.FinishReason),
		Usage: TokenUsage{
			InputTokens:  int32(resp.Usage.PromptTokens),
			OutputTokens: int32(resp.Usage.CompletionTokens),
			TotalTokens:  int32(resp.Usage.TotalTokens),
		},
	}, nil
}
