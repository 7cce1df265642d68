package llm

import (
	"strings"
	"time"
)

// ModelCost is the list price of a model in USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of a call with the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

// IsFree reports whether calls cost nothing.
func (c ModelCost) IsFree() bool {
	return c.InputPerMTok == 0 && c.OutputPerMTok == 0
}

// localProviders run on the user's machine and are never billed.
var localProviders = map[string]bool{
	"ollama": true,
	"mock":   true,
}

// LookupCost returns the pricing of modelID as called through provider, or
// nil when it is unknown.
//
// Local providers and OpenRouter ":free" variants cost nothing. OpenRouter
// IDs of the form "vendor/model" are priced as the vendor's own model, and
// short aliases such as "claude-haiku" resolve the way the providers
// resolve them.
func LookupCost(provider, modelID string) *ModelCost {
	if localProviders[provider] {
		return &ModelCost{}
	}

	id := strings.TrimSpace(modelID)
	if id == "" {
		return nil
	}
	if strings.HasSuffix(id, ":free") {
		return &ModelCost{}
	}

	for _, name := range candidateNames(id) {
		if c, ok := modelCosts[name]; ok {
			return &c
		}
	}
	return nil
}

// candidateNames lists the table keys modelID may be priced under, most
// specific first.
func candidateNames(modelID string) []string {
	names := []string{modelID}

	name := modelID
	if _, rest, ok := strings.Cut(name, "/"); ok {
		name = rest
	}
	name, _, _ = strings.Cut(name, ":")
	names = append(names, name)

	// OpenRouter spells Anthropic versions with dots.
	if strings.HasPrefix(name, "claude-") {
		names = append(names, strings.ReplaceAll(name, ".", "-"))
	}

	for _, aliases := range []map[string]string{anthropicModels, openaiModels, geminiModels} {
		if full, ok := aliases[name]; ok {
			names = append(names, full)
		}
	}

	if base, ok := trimDateSuffix(name); ok {
		names = append(names, base)
	}
	return names
}

// trimDateSuffix strips a trailing "-YYYY-MM-DD" snapshot date, as in
// "gpt-4o-mini-2024-07-18".
func trimDateSuffix(name string) (string, bool) {
	const layout = "2006-01-02"
	if len(name) <= len(layout)+1 {
		return name, false
	}
	cut := len(name) - len(layout)
	if name[cut-1] != '-' {
		return name, false
	}
	if _, err := time.Parse(layout, name[cut:]); err != nil {
		return name, false
	}
	return name[:cut-1], true
}

// modelCosts covers the models reachable through the remote sources,
// including the OpenRouter spellings that differ from the vendor's own.
// Prices from models.dev and openrouter.ai/models, 2026-02.
var modelCosts = map[string]ModelCost{
	// OpenAI, direct or as openai/<model> on OpenRouter.
	"gpt-3.5-turbo": {0.5, 1.5},
	"gpt-4":         {30, 60},
	"gpt-4-turbo":   {10, 30},
	"gpt-4o":        {2.5, 10},
	"gpt-4o-mini":   {0.15, 0.6},
	"gpt-4.1":       {2, 8},
	"gpt-4.1-mini":  {0.4, 1.6},
	"gpt-4.1-nano":  {0.1, 0.4},
	"gpt-5":         {1.25, 10},
	"gpt-5-mini":    {0.25, 2},
	"gpt-5-nano":    {0.05, 0.4},
	"gpt-5.1":       {1.25, 10},
	"gpt-5.2":       {1.75, 14},
	"o1":            {15, 60},
	"o1-mini":       {1.1, 4.4},
	"o3":            {2, 8},
	"o3-mini":       {1.1, 4.4},
	"o4-mini":       {1.1, 4.4},

	// Anthropic. Dated IDs come back from the API; the short forms are
	// what OpenRouter lists.
	"claude-3-haiku-20240307":    {0.25, 1.25},
	"claude-3-haiku":             {0.25, 1.25},
	"claude-3-5-haiku-20241022":  {0.8, 4},
	"claude-3-5-haiku":           {0.8, 4},
	"claude-3-5-sonnet-20241022": {3, 15},
	"claude-3-5-sonnet":          {3, 15},
	"claude-3-7-sonnet-20250219": {3, 15},
	"claude-3-7-sonnet":          {3, 15},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-haiku-4-5":           {1, 5},
	"claude-sonnet-4-20250514":   {3, 15},
	"claude-sonnet-4":            {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-opus-4-20250514":     {15, 75},
	"claude-opus-4":              {15, 75},
	"claude-opus-4-1":            {15, 75},
	"claude-opus-4-5":            {5, 25},

	// Google.
	"gemini-1.5-flash":      {0.075, 0.3},
	"gemini-1.5-pro":        {1.25, 5},
	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-001":  {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
	"gemini-3-pro-preview":  {2, 12},

	// Open-weight models served by OpenRouter for a fee. The same models
	// are free through a local endpoint.
	"llama-3.1-8b-instruct":  {0.02, 0.03},
	"llama-3.1-70b-instruct": {0.1, 0.28},
	"llama-3.2-3b-instruct":  {0.015, 0.025},
	"llama-3.3-70b-instruct": {0.038, 0.12},
	"mistral-7b-instruct":    {0.028, 0.054},
	"mistral-nemo":           {0.02, 0.04},
	"qwen-2.5-7b-instruct":   {0.04, 0.1},
	"qwen-2.5-72b-instruct":  {0.07, 0.26},
	"deepseek-chat":          {0.3, 0.85},
	"gemma-2-9b-it":          {0.01, 0.03},
}
