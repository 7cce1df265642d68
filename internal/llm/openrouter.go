package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// OpenRouterProvider wraps OpenAIProvider with OpenRouter-specific defaults.
// OpenRouter exposes an OpenAI-compatible API, so the underlying SDK is reused.
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = cfg.BaseURL
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}

	headers := map[string]string{}
	if cfg.Referer != "" {
		headers["HTTP-Referer"] = cfg.Referer
	}
	if cfg.Title != "" {
		headers["X-Title"] = cfg.Title
	}
	if len(headers) > 0 {
		config.HTTPClient = &http.Client{
			Transport: &headerTransport{base: http.DefaultTransport, headers: headers},
		}
	}

	// Model IDs are passed through as-is (no friendly-name mapping).
	inner := newOpenAIProviderWithConfig(config, cfg.Model)
	return &OpenRouterProvider{OpenAIProvider: inner}, nil
}

// Generate drops JSON mode for models that reject response_format.
func (p *OpenRouterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.JSONMode && !SupportsJSONObject(p.model) {
		req.JSONMode = false
	}
	return p.OpenAIProvider.Generate(ctx, req)
}

// SupportsJSONObject reports whether an OpenRouter model accepts
// response_format json_object. Model names containing "meta" or "llama"
// are sent without it. The match is case-sensitive, so "Meta-Llama-3"
// still gets the field.
func SupportsJSONObject(model string) bool {
	return !strings.Contains(model, "meta") && !strings.Contains(model, "llama")
}

// headerTransport adds fixed headers to every outgoing request.
type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
