package llm

import (
	"context"
	log "log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"patientsim/internal/config"
)

// maxRetries bounds the adapter's retry loop; transient failures are retried
// with Fibonacci backoff, then the final error propagates to the caller.
const maxRetries = 2

// provider is one backend variant. The registry selects the variant per
// model name at startup; there is no runtime type inspection on the hot path.
type provider interface {
	generate(ctx context.Context, messages []Message, temperature float32, maxTokens int) (string, error)
}

// Registry implements Client by dispatching each call to the provider
// registered under the model name. Models whose credential env var is unset
// are not registered; requesting them yields an AuthError.
type Registry struct {
	providers map[string]provider
	configs   map[string]config.ModelConfig
	missing   map[string]string // model name -> unset env var
}

// NewRegistry builds the model-name-to-provider lookup table from the
// configuration. It never fails: misconfigured credentials only narrow the
// set of available models.
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{
		providers: make(map[string]provider),
		configs:   make(map[string]config.ModelConfig),
		missing:   make(map[string]string),
	}
	for name, mc := range cfg.Models {
		switch mc.Provider {
		case config.ProviderOpenAI, config.ProviderDeepSeek:
			apiKey := os.Getenv(mc.APIKeyEnv)
			if apiKey == "" {
				log.Warn("API key not set, model unavailable", "model", name, "env", mc.APIKeyEnv)
				r.missing[name] = mc.APIKeyEnv
				continue
			}
			r.providers[name] = newOpenAIProvider(name, apiKey, mc.BaseURL, mc.ModelName)
		case config.ProviderOllama:
			baseURL := mc.BaseURL
			if baseURL == "" {
				baseURL = config.DefaultOllamaBaseURL
			}
			r.providers[name] = newOllamaProvider(name, baseURL, mc.ModelName)
		}
		r.configs[name] = mc
	}
	return r
}

// AvailableModels returns the initialized model names in sorted order.
func (r *Registry) AvailableModels() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Generate dispatches to the model's provider with bounded retry. Only
// transient failures (unreachable endpoint, 5xx, empty completion) are
// retried; auth and client errors propagate immediately.
func (r *Registry) Generate(ctx context.Context, model string, messages []Message, opts *Options) (string, error) {
	p, ok := r.providers[model]
	if !ok {
		return "", &AuthError{Model: model, EnvVar: r.missing[model]}
	}
	mc := r.configs[model]
	temperature := mc.Temperature
	maxTokens := mc.MaxTokens
	if opts != nil {
		if opts.Temperature != nil {
			temperature = *opts.Temperature
		}
		if opts.MaxTokens != nil {
			maxTokens = *opts.MaxTokens
		}
	}

	var out string
	backoff := retry.NewFibonacci(500 * time.Millisecond)
	err := retry.Do(ctx, retry.WithMaxRetries(maxRetries, backoff), func(ctx context.Context) error {
		text, err := p.generate(ctx, messages, temperature, maxTokens)
		if err != nil {
			if retryable(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		if strings.TrimSpace(text) == "" {
			return retry.RetryableError(&ProviderError{Model: model, Reason: "empty completion"})
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// TestConnection probes the model with a minimal one-message generation.
// It mutates no state beyond the outbound call itself.
func (r *Registry) TestConnection(ctx context.Context, model string) error {
	maxTokens := 50
	_, err := r.Generate(ctx, model,
		[]Message{{Role: RoleUser, Content: "Say hi"}},
		&Options{MaxTokens: &maxTokens},
	)
	return err
}
