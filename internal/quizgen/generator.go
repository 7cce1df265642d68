package quizgen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/quizcraft/quizcraft/internal/llm"
	"github.com/quizcraft/quizcraft/internal/logger"
	"github.com/quizcraft/quizcraft/internal/quiz"
)

// Generator produces quizzes using an AI backend.
type Generator interface {
	// Generate requests a quiz on subject using settings, validates it and
	// appends it to the quiz log. Every failure is a *RequestError,
	// *ParseError, *ValidationError or *UnknownError, and nothing is
	// stored on failure.
	Generate(ctx context.Context, subject string, settings quiz.Settings) (*quiz.Quiz, error)
}

// QuizAppender is the part of the quiz log the generator writes to.
type QuizAppender interface {
	Append(ctx context.Context, q quiz.Quiz) error
}

// LLMGenerator implements Generator on top of llm.Provider.
type LLMGenerator struct {
	newProvider ProviderFactory
	quizzes     QuizAppender
	config      Config
	log         *logger.Logger

	// now is swapped in tests.
	now func() time.Time
}

// New creates a new LLMGenerator.
func New(factory ProviderFactory, quizzes QuizAppender, cfg Config, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.NewNop()
	}
	return &LLMGenerator{
		newProvider: factory,
		quizzes:     quizzes,
		config:      cfg,
		log:         log,
		now:         time.Now,
	}
}

// Generate produces, validates and stores a quiz for subject.
func (g *LLMGenerator) Generate(ctx context.Context, subject string, settings quiz.Settings) (*quiz.Quiz, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, &ValidationError{Validator: "input", Message: "subject is required"}
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	log := g.log.With("subject", subject, "source", string(settings.AISource), "model", settings.Model)

	provider, err := g.newProvider(ctx, settings)
	if err != nil {
		log.Warn("build provider", "error", err)
		return nil, &UnknownError{Err: err}
	}

	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: g.config.Prompt(subject, settings.Difficulty)},
		},
		JSONMode:    true,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := provider.Generate(ctx, req)
	if err != nil {
		classified := classify(err)
		log.Warn("quiz generation failed", "error", err)
		return nil, classified
	}

	q, raw, err := Normalize(resp.Content, subject, settings.AISource, g.now())
	if err != nil {
		log.Warn("quiz reply not parseable", "error", err, "content", truncate(string(resp.Content), 500))
		return nil, err
	}

	for _, v := range g.config.Validators {
		if verr := v.Validate(q, raw); verr != nil {
			log.Warn("quiz rejected", "validator", verr.Validator, "reason", verr.Message)
			return nil, verr
		}
	}

	if err := g.quizzes.Append(ctx, *q); err != nil {
		return nil, &UnknownError{Err: fmt.Errorf("save quiz: %w", err)}
	}

	log.Info("quiz generated", "quiz_id", q.ID, "questions", len(q.Questions))
	return q, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
