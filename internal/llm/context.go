package llm

import "context"

// Purpose labels stored with each request event.
const (
	PurposeQuizGen = "quiz-gen"
	PurposeUnknown = "unknown"
)

type purposeKey struct{}

// WithPurpose labels the model calls made with ctx. The label is stored in
// the purpose column of the request log, which `llm list --purpose`
// filters on. An empty label leaves ctx unchanged.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	if purpose == "" {
		return ctx
	}
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if p, _ := ctx.Value(purposeKey{}).(string); p != "" {
		return p
	}
	return PurposeUnknown
}
