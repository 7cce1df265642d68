package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/quizcraft/quizcraft/internal/llm"
)

// RequestError means the backend answered with a non-success status.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return fmt.Sprintf("API request failed: %d %s", e.StatusCode, text)
	}
	return fmt.Sprintf("API request failed: %d", e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError means the reply held no valid or recoverable JSON.
type ParseError struct {
	Content json.RawMessage
	Err     error
}

func (e *ParseError) Error() string {
	return "Failed to parse JSON response from AI model"
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError describes why a decoded quiz was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("AI model returned an invalid quiz (%s): %s", e.Validator, e.Message)
}

// UnknownError wraps any other failure.
type UnknownError struct {
	Err error
}

func (e *UnknownError) Error() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

func (e *UnknownError) Unwrap() error { return e.Err }

// classify maps a provider failure onto one of the generation error kinds.
func classify(err error) error {
	var (
		reqErr   *RequestError
		parseErr *ParseError
		valErr   *ValidationError
		unkErr   *UnknownError
	)
	switch {
	case errors.As(err, &reqErr), errors.As(err, &parseErr), errors.As(err, &valErr), errors.As(err, &unkErr):
		return err
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return &UnknownError{Err: err}
	}

	if code, ok := llm.StatusCode(err); ok {
		return &RequestError{StatusCode: code, Err: err}
	}

	var inv *llm.ErrInvalidResponse
	if errors.As(err, &inv) {
		return &ParseError{Content: inv.Content, Err: err}
	}
	var maxTok *llm.ErrMaxTokensExceeded
	if errors.As(err, &maxTok) {
		return &ParseError{Content: maxTok.Content, Err: err}
	}

	return &UnknownError{Err: err}
}
