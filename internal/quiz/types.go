package quiz

import (
	"fmt"
	"time"
)

const (
	// QuestionCount is the number of questions requested per quiz.
	QuestionCount = 5

	// OptionCount is the number of options every question must carry.
	OptionCount = 4

	// Unanswered marks a gap in an attempt's answer sequence.
	Unanswered = -1

	// MaxRetries caps Settings.Retries.
	MaxRetries = 5
)

// AISource selects which backend generates quizzes.
type AISource string

const (
	SourceOllama     AISource = "ollama"     // local endpoint
	SourceOpenRouter AISource = "openrouter" // remote chat-completions API
	SourceOpenAI     AISource = "openai"
	SourceAnthropic  AISource = "anthropic"
	SourceGemini     AISource = "gemini"
	SourceMock       AISource = "mock"
)

// Sources lists the selectable sources in display order.
var Sources = []AISource{
	SourceOllama,
	SourceOpenRouter,
	SourceOpenAI,
	SourceAnthropic,
	SourceGemini,
}

// Valid reports whether s is a known source.
func (s AISource) Valid() bool {
	switch s {
	case SourceOllama, SourceOpenRouter, SourceOpenAI, SourceAnthropic, SourceGemini, SourceMock:
		return true
	}
	return false
}

// IsLocal reports whether s talks to a locally-run endpoint.
func (s AISource) IsLocal() bool {
	return s == SourceOllama
}

// DisplayName returns a human-readable label.
func (s AISource) DisplayName() string {
	switch s {
	case SourceOllama:
		return "Ollama (local)"
	case SourceOpenRouter:
		return "OpenRouter"
	case SourceOpenAI:
		return "OpenAI"
	case SourceAnthropic:
		return "Anthropic"
	case SourceGemini:
		return "Gemini"
	case SourceMock:
		return "Mock"
	default:
		return string(s)
	}
}

// DefaultModel returns the model preselected when switching to s.
func DefaultModel(s AISource) string {
	switch s {
	case SourceOllama:
		return "llama3.2"
	case SourceOpenRouter:
		return "meta-llama/llama-3.2-3b-instruct:free"
	case SourceOpenAI:
		return "gpt-4o-mini"
	case SourceAnthropic:
		return "claude-haiku"
	case SourceGemini:
		return "gemini-flash"
	default:
		return "mock"
	}
}

// Difficulty alters the wording of generation instructions.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the selectable difficulty levels.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is one of the three known levels.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// User is the single local profile, created once at onboarding.
type User struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Settings holds the generation configuration edited by the user.
type Settings struct {
	AISource   AISource   `json:"aiSource"`
	Endpoint   string     `json:"endpoint"`
	APIKey     string     `json:"apiKey"`
	Model      string     `json:"model"`
	Difficulty Difficulty `json:"difficulty"`

	// Retries is how often a generation that failed for a transient
	// reason is repeated. Zero surfaces the first failure.
	Retries int `json:"retries,omitempty"`

	// Timeout bounds one generation, retries included. Zero means none.
	Timeout time.Duration `json:"timeout,omitempty"`
}

// CheckLimits reports an out-of-range Retries or Timeout.
func (s Settings) CheckLimits() error {
	if s.Retries < 0 || s.Retries > MaxRetries {
		return fmt.Errorf("retries must be between 0 and %d, got %d", MaxRetries, s.Retries)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", s.Timeout)
	}
	return nil
}

// DefaultSettings returns the settings used when none have been saved.
func DefaultSettings() Settings {
	return Settings{
		AISource:   SourceOllama,
		Endpoint:   "http://localhost:11434",
		Model:      DefaultModel(SourceOllama),
		Difficulty: DifficultyMedium,
	}
}

// WithSource switches the source and resets the model to the source default.
func (s Settings) WithSource(src AISource) Settings {
	s.AISource = src
	s.Model = DefaultModel(src)
	return s
}

// Question is a single multiple-choice question.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz is an immutable set of generated questions on one subject.
type Quiz struct {
	ID        string     `json:"id"`
	Subject   string     `json:"subject"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
	AISource  AISource   `json:"aiSource"`
}

// Attempt is one completed run through a quiz.
type Attempt struct {
	ID string `json:"id"`

	// QuizID is a lookup-only reference; the quiz may be absent.
	QuizID string `json:"quizId"`

	// Answers is index-aligned with the quiz's questions.
	// Unanswered positions hold Unanswered.
	Answers []int `json:"answers"`

	Score       int       `json:"score"`
	CompletedAt time.Time `json:"completedAt"`
}
