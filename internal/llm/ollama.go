package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ollamaProvider calls a local Ollama service's native chat endpoint. The
// service needs no credential, only a reachable endpoint.
type ollamaProvider struct {
	name       string
	baseURL    string
	model      string
	httpClient *http.Client
}

func newOllamaProvider(name, baseURL, modelName string) *ollamaProvider {
	return &ollamaProvider{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      modelName,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  ollamaChatOptions   `json:"options"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatOptions struct {
	Temperature float32 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaChatResponse struct {
	Message ollamaChatMessage `json:"message"`
}

func (p *ollamaProvider) generate(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error) {
	msgs := make([]ollamaChatMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, ollamaChatMessage{Role: m.Role, Content: m.Content})
	}
	body, err := json.Marshal(ollamaChatRequest{
		Model:    p.model,
		Messages: msgs,
		Stream:   false,
		Options:  ollamaChatOptions{Temperature: temperature, NumPredict: maxTokens},
	})
	if err != nil {
		return "", &ProviderError{Model: p.name, Reason: "encode request", Permanent: true, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", &ProviderError{Model: p.name, Reason: "build request", Permanent: true, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &ConnectionError{Model: p.name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &ProviderError{
			Model:      p.name,
			StatusCode: resp.StatusCode,
			Reason:     fmt.Sprintf("unexpected status: %s", strings.TrimSpace(string(snippet))),
		}
	}

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Model: p.name, Reason: "decode response", Err: err}
	}
	return out.Message.Content, nil
}
