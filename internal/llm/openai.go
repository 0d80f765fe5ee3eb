package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider calls an OpenAI-style chat completion API. It serves both
// the OpenAI cloud API and OpenAI-compatible providers (DeepSeek) through a
// base URL override.
type openAIProvider struct {
	name   string
	client *openai.Client
	model  string
}

func newOpenAIProvider(name, apiKey, baseURL, modelName string) *openAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	return &openAIProvider{
		name:   name,
		client: openai.NewClientWithConfig(cfg),
		model:  modelName,
	}
}

func (p *openAIProvider) generate(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error) {
	oaMsgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		role := m.Role
		if role != openai.ChatMessageRoleSystem && role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			// coerce anything unknown to user
			role = openai.ChatMessageRoleUser
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    oaMsgs,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProviderError{Model: p.name, Reason: "no choices in response"}
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps SDK errors onto the adapter's error taxonomy.
func (p *openAIProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403 {
			return &AuthError{Model: p.name}
		}
		return &ProviderError{Model: p.name, StatusCode: apiErr.HTTPStatusCode, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{Model: p.name, StatusCode: reqErr.HTTPStatusCode, Err: err}
	}
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &ConnectionError{Model: p.name, Err: err}
	}
	return &ProviderError{Model: p.name, Err: err}
}
