package quizgen

import (
	"context"
	"encoding/json"
	"os"

	"github.com/quizcraft/quizcraft/internal/llm"
	"github.com/quizcraft/quizcraft/internal/logger"
	"github.com/quizcraft/quizcraft/internal/quiz"
	"github.com/quizcraft/quizcraft/internal/store"
)

// APIKeyEnv fills an empty stored API key at provider build time.
// The value is never persisted.
const APIKeyEnv = "QUIZCRAFT_API_KEY"

// ProviderFactory builds the backend for the current settings.
type ProviderFactory func(ctx context.Context, settings quiz.Settings) (llm.Provider, error)

// NewProviderFactory returns a factory building fully decorated providers
// whose calls are recorded in events.
func NewProviderFactory(events store.EventRepo, log *logger.Logger) ProviderFactory {
	return func(ctx context.Context, settings quiz.Settings) (llm.Provider, error) {
		return llm.NewProvider(ctx, BackendConfig(settings), events, log)
	}
}

// BackendConfig maps user settings onto an llm.Config.
func BackendConfig(s quiz.Settings) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = string(s.AISource)
	cfg.Retry.MaxAttempts = 1 + min(max(s.Retries, 0), quiz.MaxRetries)
	cfg.Timeout = max(s.Timeout, 0)

	key := s.APIKey
	if key == "" {
		key = os.Getenv(APIKeyEnv)
	}

	model := s.Model
	if model == "" {
		model = quiz.DefaultModel(s.AISource)
	}

	switch s.AISource {
	case quiz.SourceOllama:
		if s.Endpoint != "" {
			cfg.Ollama.BaseURL = s.Endpoint
		}
		cfg.Ollama.Model = model
	case quiz.SourceOpenRouter:
		cfg.OpenRouter.APIKey = key
		cfg.OpenRouter.Model = model
	case quiz.SourceOpenAI:
		cfg.OpenAI.APIKey = key
		cfg.OpenAI.Model = model
	case quiz.SourceAnthropic:
		cfg.Anthropic.APIKey = key
		cfg.Anthropic.Model = model
	case quiz.SourceGemini:
		cfg.Gemini.APIKey = key
		cfg.Gemini.Model = model
	case quiz.SourceMock:
		cfg.Mock.Content = sampleQuiz
	}
	return cfg
}

// sampleQuiz is served by the offline mock source.
var sampleQuiz = json.RawMessage(`{
  "questions": [
    {
      "question": "Which planet is known as the Red Planet?",
      "options": ["Venus", "Mars", "Jupiter", "Mercury"],
      "correctAnswer": 1,
      "explanation": "Iron oxide on its surface gives Mars a reddish colour."
    },
    {
      "question": "What is the boiling point of water at sea level?",
      "options": ["90°C", "100°C", "110°C", "120°C"],
      "correctAnswer": 1,
      "explanation": "At standard atmospheric pressure water boils at 100°C."
    },
    {
      "question": "Which gas do plants absorb during photosynthesis?",
      "options": ["Oxygen", "Nitrogen", "Carbon dioxide", "Hydrogen"],
      "correctAnswer": 2,
      "explanation": "Plants take in carbon dioxide and release oxygen."
    },
    {
      "question": "What is 7 × 8?",
      "options": ["54", "56", "58", "64"],
      "correctAnswer": 1,
      "explanation": "7 × 8 = 56."
    },
    {
      "question": "Which is the longest river in Malaysia?",
      "options": ["Sungai Pahang", "Sungai Perak", "Sungai Kinabatangan", "Sungai Rajang"],
      "correctAnswer": 3,
      "explanation": "The Rajang in Sarawak is about 565 km long."
    }
  ]
}`)
