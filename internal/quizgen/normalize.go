package quizgen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

// embeddedObject matches from the first '{' to the last '}'.
var embeddedObject = regexp.MustCompile(`(?s)\{.*\}`)

// rawQuiz is the decoded reply before IDs and metadata are attached.
type rawQuiz struct {
	Questions []rawQuestion `json:"questions"`
}

// CorrectAnswer is decoded as a number so integral floats such as 1.0,
// which some models emit, still index an option.
type rawQuestion struct {
	Question      string       `json:"question"`
	Options       []string     `json:"options"`
	CorrectAnswer *json.Number `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
}

// answerIndex converts a decoded correctAnswer to an option index. Missing
// or non-integral values map to quiz.Unanswered, which validation rejects.
func answerIndex(n *json.Number) int {
	if n == nil {
		return quiz.Unanswered
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
		return int(i)
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return quiz.Unanswered
	}
	return int(f)
}

// Normalize turns a backend reply into a quiz with fresh IDs. It also
// returns the JSON the quiz was decoded from, for validation. Failures are
// *ParseError.
func Normalize(content []byte, subject string, source quiz.AISource, now time.Time) (*quiz.Quiz, json.RawMessage, error) {
	raw, block, err := decode(content, source)
	if err != nil {
		return nil, nil, err
	}
	return raw.toQuiz(subject, source, now), block, nil
}

// decode parses a backend reply into a raw quiz and returns the JSON it
// was decoded from. The local endpoint is trusted to honor format "json",
// so its reply must parse as a whole. Remote replies that do not parse
// directly get one recovery attempt on the first {...} block.
func decode(content []byte, source quiz.AISource) (*rawQuiz, json.RawMessage, error) {
	trimmed := bytes.TrimSpace(content)

	raw, err := decodeStrict(trimmed)
	if err == nil {
		return raw, trimmed, nil
	}
	if source.IsLocal() {
		return nil, nil, &ParseError{Content: content, Err: err}
	}

	block := embeddedObject.Find(trimmed)
	if block == nil {
		return nil, nil, &ParseError{Content: content, Err: fmt.Errorf("no JSON object in reply: %w", err)}
	}
	raw, err = decodeStrict(block)
	if err != nil {
		return nil, nil, &ParseError{Content: content, Err: err}
	}
	return raw, block, nil
}

func decodeStrict(data []byte) (*rawQuiz, error) {
	if len(data) == 0 {
		return nil, errors.New("empty reply")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	var raw rawQuiz
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, errors.New("trailing data after JSON object")
	}
	return &raw, nil
}

// toQuiz attaches fresh IDs, the subject, a UTC timestamp and the source.
func (r *rawQuiz) toQuiz(subject string, source quiz.AISource, now time.Time) *quiz.Quiz {
	q := &quiz.Quiz{
		ID:        uuid.NewString(),
		Subject:   strings.TrimSpace(subject),
		Questions: make([]quiz.Question, 0, len(r.Questions)),
		CreatedAt: now.UTC(),
		AISource:  source,
	}
	for _, rq := range r.Questions {
		q.Questions = append(q.Questions, quiz.Question{
			ID:            uuid.NewString(),
			Question:      strings.TrimSpace(rq.Question),
			Options:       rq.Options,
			CorrectAnswer: answerIndex(rq.CorrectAnswer),
			Explanation:   strings.TrimSpace(rq.Explanation),
		})
	}
	return q
}
