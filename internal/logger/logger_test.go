package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{
		"api_key", "sk-or-123",
		"Authorization", "Bearer abc",
		"model", "llama3.2",
		"input_tokens", 42,
		"settings", map[string]any{"apiKey": "secret-value", "endpoint": "http://localhost:11434"},
		"dangling",
	})

	require.Len(t, got, 11)
	assert.Equal(t, "[REDACTED]", got[1])
	assert.Equal(t, "[REDACTED]", got[3])
	assert.Equal(t, "llama3.2", got[5])
	assert.Equal(t, 42, got[7], "token counts are not secrets")
	nested := got[9].(map[string]any)
	assert.Equal(t, "[REDACTED]", nested["apiKey"])
	assert.Equal(t, "http://localhost:11434", nested["endpoint"])
	assert.Equal(t, "dangling", got[10])
}

func TestSanitizeKVs_EmptyKeyStaysEmpty(t *testing.T) {
	got := sanitizeKVs([]any{"api_key", ""})
	assert.Equal(t, "", got[1])
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizcraft.log")

	log, err := New("dev", path)
	require.NoError(t, err)
	log.Info("quiz generated", "subject", "Photosynthesis", "api_key", "sk-live")
	log.Debug("debug visible in dev mode")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "quiz generated")
	assert.Contains(t, string(data), "Photosynthesis")
	assert.Contains(t, string(data), "debug visible")
	assert.NotContains(t, string(data), "sk-live")
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	log.With("k", "v").Warn("ignored")
}
