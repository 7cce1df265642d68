package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/quizcraft/quizcraft/internal/llm"
	"github.com/quizcraft/quizcraft/internal/quiz"
)

// memQuizzes records appended quizzes.
type memQuizzes struct {
	mu      sync.Mutex
	quizzes []quiz.Quiz
	err     error
}

func (m *memQuizzes) Append(_ context.Context, q quiz.Quiz) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.quizzes = append(m.quizzes, q)
	return nil
}

func staticFactory(p llm.Provider) ProviderFactory {
	return func(context.Context, quiz.Settings) (llm.Provider, error) { return p, nil }
}

func fiveQuestions() json.RawMessage {
	return sampleQuiz
}

func newTestGenerator(p llm.Provider, store *memQuizzes) *LLMGenerator {
	g := New(staticFactory(p), store, DefaultConfig(), nil)
	g.now = func() time.Time { return testNow }
	return g
}

func TestGenerate_StoresValidQuiz(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: fiveQuestions()})
	store := &memQuizzes{}
	gen := newTestGenerator(mock, store)

	settings := quiz.DefaultSettings()
	settings.Difficulty = quiz.DifficultyHard

	q, err := gen.Generate(context.Background(), "  General Science ", settings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Questions) != quiz.QuestionCount {
		t.Fatalf("expected %d questions, got %d", quiz.QuestionCount, len(q.Questions))
	}
	if q.Subject != "General Science" {
		t.Errorf("subject = %q", q.Subject)
	}
	if len(store.quizzes) != 1 || store.quizzes[0].ID != q.ID {
		t.Fatalf("quiz not stored: %+v", store.quizzes)
	}

	call := mock.Calls[0]
	if !call.JSONMode {
		t.Error("expected JSON mode")
	}
	if call.Schema != nil {
		t.Error("quiz requests carry no schema")
	}
	if len(call.Messages) != 1 || call.Messages[0].Role != llm.RoleUser {
		t.Fatalf("unexpected messages %+v", call.Messages)
	}
	if !strings.Contains(call.Messages[0].Content, hardInstructions) {
		t.Error("prompt should carry the hard instructions")
	}
}

func TestGenerate_EmptySubject(t *testing.T) {
	mock := llm.NewMockProvider()
	store := &memQuizzes{}
	gen := newTestGenerator(mock, store)

	_, err := gen.Generate(context.Background(), "   ", quiz.DefaultSettings())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if mock.CallCount() != 0 {
		t.Fatal("provider should not be called")
	}
}

func TestGenerate_ParseFailureStoresNothing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("I'm sorry, I can't do that.")})
	store := &memQuizzes{}
	gen := newTestGenerator(mock, store)

	settings := quiz.DefaultSettings().WithSource(quiz.SourceOpenRouter)
	q, err := gen.Generate(context.Background(), "History", settings)
	if q != nil {
		t.Fatalf("expected no quiz, got %+v", q)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T (%v)", err, err)
	}
	if err.Error() != "Failed to parse JSON response from AI model" {
		t.Errorf("message = %q", err.Error())
	}
	if len(store.quizzes) != 0 {
		t.Fatalf("expected nothing stored, got %d", len(store.quizzes))
	}
}

func TestGenerate_MalformedQuizRejected(t *testing.T) {
	content := `{"questions":[{"question":"Q","options":["A","B","C"],"correctAnswer":5}]}`
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(content)})
	store := &memQuizzes{}
	gen := newTestGenerator(mock, store)

	_, err := gen.Generate(context.Background(), "History", quiz.DefaultSettings())
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if ve.Validator != "schema" {
		t.Errorf("validator = %q, want schema", ve.Validator)
	}
	if len(store.quizzes) != 0 {
		t.Fatal("malformed quiz must not be stored")
	}
}

func TestGenerate_ValidatorOrder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: fiveQuestions()})
	tracker := &trackingValidator{}
	cfg := Config{Validators: []Validator{&rejectValidator{name: "first"}, tracker}}
	gen := New(staticFactory(mock), &memQuizzes{}, cfg, nil)

	_, err := gen.Generate(context.Background(), "History", quiz.DefaultSettings())
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Validator != "first" {
		t.Fatalf("expected rejection from first, got %v", err)
	}
	if tracker.called {
		t.Error("second validator should not have been called")
	}
}

type rejectValidator struct{ name string }

func (v *rejectValidator) Name() string { return v.name }
func (v *rejectValidator) Validate(*quiz.Quiz, json.RawMessage) *ValidationError {
	return &ValidationError{Validator: v.name, Message: "rejected"}
}

type trackingValidator struct{ called bool }

func (v *trackingValidator) Name() string { return "tracking" }
func (v *trackingValidator) Validate(*quiz.Quiz, json.RawMessage) *ValidationError {
	v.called = true
	return nil
}

func TestGenerate_ProviderErrors(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{
			"status",
			&llm.ErrRequestFailed{StatusCode: http.StatusUnauthorized, Err: errors.New("bad key")},
			func(err error) bool { var e *RequestError; return errors.As(err, &e) && e.StatusCode == 401 },
		},
		{
			"rate limit",
			&llm.ErrRateLimit{Err: errors.New("slow down")},
			func(err error) bool { var e *RequestError; return errors.As(err, &e) && e.StatusCode == 429 },
		},
		{
			"unreachable",
			&llm.ErrProviderUnavailable{Err: errors.New("connection refused")},
			func(err error) bool { var e *UnknownError; return errors.As(err, &e) },
		},
		{
			"invalid response",
			&llm.ErrInvalidResponse{Err: errors.New("no choices")},
			func(err error) bool { var e *ParseError; return errors.As(err, &e) },
		},
		{
			"canceled",
			context.Canceled,
			func(err error) bool { var e *UnknownError; return errors.As(err, &e) },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider(llm.MockResponse{Err: tt.err})
			store := &memQuizzes{}
			gen := newTestGenerator(mock, store)

			_, err := gen.Generate(context.Background(), "History", quiz.DefaultSettings())
			if !tt.check(err) {
				t.Fatalf("unexpected error %T (%v)", err, err)
			}
			if len(store.quizzes) != 0 {
				t.Fatal("nothing should be stored on failure")
			}
		})
	}
}

func TestGenerate_FactoryError(t *testing.T) {
	factory := func(context.Context, quiz.Settings) (llm.Provider, error) {
		return nil, errors.New("an API key is required for the openrouter provider")
	}
	gen := New(factory, &memQuizzes{}, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), "History", quiz.DefaultSettings())
	var ue *UnknownError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnknownError, got %T", err)
	}
	if !strings.Contains(err.Error(), "API key is required") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGenerate_StoreError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: fiveQuestions()})
	gen := newTestGenerator(mock, &memQuizzes{err: errors.New("disk full")})

	_, err := gen.Generate(context.Background(), "History", quiz.DefaultSettings())
	var ue *UnknownError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnknownError, got %T", err)
	}
}

func TestGenerate_OllamaEndToEnd(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/generate" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"model":    "llama3.2",
			"response": oneQuestion,
			"done":     true,
		})
	}))
	defer srv.Close()

	settings := quiz.DefaultSettings()
	settings.Endpoint = srv.URL

	store := &memQuizzes{}
	gen := New(NewProviderFactory(nil, nil), store, DefaultConfig(), nil)

	q, err := gen.Generate(context.Background(), "Biology", settings)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(q.Questions) != 1 || q.Questions[0].CorrectAnswer != 1 {
		t.Fatalf("unexpected quiz %+v", q)
	}
	if q.AISource != quiz.SourceOllama {
		t.Errorf("source = %q", q.AISource)
	}
	if body["model"] != "llama3.2" || body["stream"] != false || body["format"] != "json" {
		t.Fatalf("unexpected body %v", body)
	}
	if len(store.quizzes) != 1 {
		t.Fatalf("expected 1 stored quiz, got %d", len(store.quizzes))
	}
}

func TestGenerate_OllamaFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"model \"llama9\" not found"}`)
	}))
	defer srv.Close()

	settings := quiz.DefaultSettings()
	settings.Endpoint = srv.URL
	settings.Model = "llama9"

	store := &memQuizzes{}
	gen := New(NewProviderFactory(nil, nil), store, DefaultConfig(), nil)

	q, err := gen.Generate(context.Background(), "Biology", settings)
	if q != nil {
		t.Fatal("expected no quiz")
	}
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RequestError, got %T (%v)", err, err)
	}
	if re.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d", re.StatusCode)
	}
	if err.Error() != "API request failed: 404 Not Found" {
		t.Errorf("message = %q", err.Error())
	}
	if len(store.quizzes) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestGenerate_OllamaRetriesWhenEnabled(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, `{"error":"loading model"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"model": "llama3.2", "response": oneQuestion, "done": true})
	}))
	defer srv.Close()

	settings := quiz.DefaultSettings()
	settings.Endpoint = srv.URL
	gen := New(NewProviderFactory(nil, nil), &memQuizzes{}, DefaultConfig(), nil)

	_, err := gen.Generate(context.Background(), "Biology", settings)
	if err == nil {
		t.Fatal("retries are off by default; expected the 503 to surface")
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}

	calls.Store(0)
	settings.Retries = 1
	q, err := gen.Generate(context.Background(), "Biology", settings)
	if err != nil {
		t.Fatalf("Generate with a retry: %v", err)
	}
	if n := calls.Load(); n != 2 || len(q.Questions) != 1 {
		t.Fatalf("calls = %d, quiz = %+v", n, q)
	}
}

func TestGenerate_OllamaTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	settings := quiz.DefaultSettings()
	settings.Endpoint = srv.URL
	settings.Timeout = 50 * time.Millisecond
	gen := New(NewProviderFactory(nil, nil), &memQuizzes{}, DefaultConfig(), nil)

	start := time.Now()
	_, err := gen.Generate(context.Background(), "Biology", settings)
	var ue *UnknownError
	if !errors.As(err, &ue) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected *UnknownError wrapping DeadlineExceeded, got %T (%v)", err, err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("call ran %v past a 50ms timeout", elapsed)
	}
}

func openRouterGenerator(t *testing.T, handler http.HandlerFunc) (*LLMGenerator, *memQuizzes) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	factory := func(ctx context.Context, s quiz.Settings) (llm.Provider, error) {
		cfg := BackendConfig(s)
		cfg.OpenRouter.BaseURL = srv.URL
		return llm.NewProvider(ctx, cfg, nil, nil)
	}
	store := &memQuizzes{}
	return New(factory, store, DefaultConfig(), nil), store
}

func openRouterSettings(model string) quiz.Settings {
	s := quiz.DefaultSettings().WithSource(quiz.SourceOpenRouter)
	s.APIKey = "sk-or-test"
	if model != "" {
		s.Model = model
	}
	return s
}

func TestGenerate_OpenRouterEmbeddedObject(t *testing.T) {
	var (
		body    map[string]any
		headers http.Header
	)
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		headers = r.Header.Clone()
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":     "gen-1",
			"object": "chat.completion",
			"model":  "meta-llama/llama-3.2-3b-instruct:free",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "Here is the quiz: " + oneQuestion + "  "},
				"finish_reason": "stop",
			}},
		})
	}
	gen, store := openRouterGenerator(t, handler)

	q, err := gen.Generate(context.Background(), "Biology", openRouterSettings(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(q.Questions) != 1 || q.AISource != quiz.SourceOpenRouter {
		t.Fatalf("unexpected quiz %+v", q)
	}
	if got := headers.Get("Authorization"); got != "Bearer sk-or-test" {
		t.Errorf("Authorization = %q", got)
	}
	if headers.Get("X-Title") != "Quiz Generator" || headers.Get("HTTP-Referer") == "" {
		t.Errorf("missing attribution headers: %v", headers)
	}
	if _, ok := body["response_format"]; ok {
		t.Error("response_format must be omitted for llama models")
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", body["messages"])
	}
	if len(store.quizzes) != 1 {
		t.Fatal("quiz should be stored")
	}
}

func TestGenerate_OpenRouterJSONObjectModel(t *testing.T) {
	var body map[string]any
	handler := func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "gen-2",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": oneQuestion},
			}},
		})
	}
	gen, _ := openRouterGenerator(t, handler)

	if _, err := gen.Generate(context.Background(), "Biology", openRouterSettings("mistralai/mistral-7b-instruct")); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rf, _ := body["response_format"].(map[string]any)
	if rf["type"] != "json_object" {
		t.Fatalf("response_format = %v", body["response_format"])
	}
}

func TestGenerate_OpenRouterFailureStatus(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"upstream error","code":500}}`)
	}
	gen, store := openRouterGenerator(t, handler)

	_, err := gen.Generate(context.Background(), "Biology", openRouterSettings(""))
	var re *RequestError
	if !errors.As(err, &re) {
		t.Fatalf("expected *RequestError, got %T (%v)", err, err)
	}
	if re.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", re.StatusCode)
	}
	if len(store.quizzes) != 0 {
		t.Fatal("nothing should be stored")
	}
}

func TestGenerate_OpenRouterFloatAnswerIndex(t *testing.T) {
	content := `{"questions":[{"question":"Q","options":["A","B","C","D"],"correctAnswer":1.0,"explanation":"E"}]}`
	handler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "gen-3",
			"choices": []map[string]any{{
				"index":   0,
				"message": map[string]any{"role": "assistant", "content": content},
			}},
		})
	}
	gen, store := openRouterGenerator(t, handler)

	q, err := gen.Generate(context.Background(), "Biology", openRouterSettings(""))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.Questions[0].CorrectAnswer != 1 {
		t.Fatalf("correctAnswer = %d, want 1", q.Questions[0].CorrectAnswer)
	}
	if len(store.quizzes) != 1 {
		t.Fatal("quiz should be stored")
	}
}
