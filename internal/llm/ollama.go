package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/ollama/ollama/api"
)

// OllamaProvider implements Provider against a local Ollama endpoint
// using its native /api/generate route.
type OllamaProvider struct {
	client *api.Client
	model  string
}

// NewOllamaProvider creates a provider for the endpoint at cfg.BaseURL.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama endpoint URL is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("ollama model is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse ollama endpoint: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("ollama endpoint %q needs a scheme and host", cfg.BaseURL)
	}
	return &OllamaProvider{
		client: api.NewClient(base, &http.Client{}),
		model:  cfg.Model,
	}, nil
}

// Generate sends the prompt to /api/generate without streaming. MaxTokens
// and Temperature are left to the model's own defaults.
func (p *OllamaProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	stream := false
	greq := &api.GenerateRequest{
		Model:  p.model,
		Prompt: buildOllamaPrompt(req.Messages),
		System: req.System,
		Stream: &stream,
	}
	switch {
	case req.Schema != nil:
		format, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal ollama format: %w", err)
		}
		greq.Format = format
	case req.JSONMode:
		greq.Format = json.RawMessage(`"json"`)
	}

	var (
		reply api.GenerateResponse
		got   bool
	)
	err := p.client.Generate(ctx, greq, func(r api.GenerateResponse) error {
		reply, got = r, true
		return nil
	})
	if err != nil {
		return nil, ollamaError(ctx, err)
	}
	if !got || reply.Response == "" {
		raw, _ := json.Marshal(reply)
		return nil, &ErrInvalidResponse{
			Content: raw,
			Err:     errors.New("ollama reply has no response text"),
		}
	}

	content := json.RawMessage(reply.Response)

	if req.Schema != nil {
		if err := ValidateJSON(req.Schema, content); err != nil {
			return nil, err
		}
	}

	in, out := reply.PromptEvalCount, reply.EvalCount

	model := reply.Model
	if model == "" {
		model = p.model
	}

	stop := "end"
	if reply.DoneReason == "length" {
		stop = "max_tokens"
	}

	return &Response{
		Content:    content,
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:      model,
		StopReason: stop,
	}, nil
}

func (p *OllamaProvider) ModelID() string {
	return p.model
}

// ListModels returns the names of locally pulled models, sorted.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.client.List(ctx)
	if err != nil {
		return nil, ollamaError(ctx, err)
	}

	names := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names, nil
}

// ollamaError maps client errors onto the provider error types. HTTP
// failures arrive as api.StatusError; anything else never got a usable
// reply from the server.
func ollamaError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var se api.StatusError
	if errors.As(err, &se) {
		msg := strings.TrimSpace(se.ErrorMessage)
		if msg == "" {
			msg = se.Status
		}
		return classifyStatus(se.StatusCode, errors.New(msg))
	}
	return &ErrProviderUnavailable{Err: err}
}

// buildOllamaPrompt flattens the conversation into a single prompt.
// A single user message is sent verbatim.
func buildOllamaPrompt(msgs []Message) string {
	if len(msgs) == 1 {
		return msgs[0].Content
	}
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if m.Role == RoleAssistant {
			b.WriteString("Assistant: ")
		}
		b.WriteString(m.Content)
	}
	return b.String()
}
