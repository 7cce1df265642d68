package store

import (
	"context"
	"errors"
	"time"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUserExists is returned when onboarding runs a second time.
	ErrUserExists = errors.New("user already exists")
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To

	Purpose string // exact purpose match, empty for all
}

// UserRepo manages the single local profile.
type UserRepo interface {
	// Get returns the current user, or nil if onboarding has not happened.
	Get(ctx context.Context) (*quiz.User, error)

	// Create stores the user. It fails with ErrUserExists if one is present.
	Create(ctx context.Context, u quiz.User) error
}

// SettingsRepo manages the single settings record.
type SettingsRepo interface {
	// Get returns the saved settings, or quiz.DefaultSettings if none exist.
	Get(ctx context.Context) (quiz.Settings, error)

	// Put replaces the current settings.
	Put(ctx context.Context, s quiz.Settings) error
}

// QuizRepo is the append-only quiz log.
type QuizRepo interface {
	Append(ctx context.Context, q quiz.Quiz) error

	// List returns all quizzes in insertion order.
	List(ctx context.Context) ([]quiz.Quiz, error)

	// Get returns a quiz by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*quiz.Quiz, error)

	// Recent returns up to n quizzes, newest first.
	Recent(ctx context.Context, n int) ([]quiz.Quiz, error)
}

// AttemptRepo is the append-only attempt log.
type AttemptRepo interface {
	Append(ctx context.Context, a quiz.Attempt) error

	// List returns all attempts in insertion order.
	List(ctx context.Context) ([]quiz.Attempt, error)

	// ListByQuiz returns the attempts referencing quizID in insertion order.
	ListByQuiz(ctx context.Context, quizID string) ([]quiz.Attempt, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates token usage for one purpose, or for one model of
// one provider.
type LLMUsage struct {
	Purpose      string
	Provider     string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns a single event, or nil if it does not exist.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel groups by provider and model, since the same model
	// name can be billed differently by a local and a remote source.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
