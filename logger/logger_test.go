package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeRedactsSecretKeys(t *testing.T) {
	out := sanitizeKVs([]interface{}{"api_key", "sk-123", "session", "quiz", "refresh_token", "abc"})
	require.Equal(t, []interface{}{"api_key", "[REDACTED]", "session", "quiz", "refresh_token", "[REDACTED]"}, out)
}

func TestSanitizeKeepsRequestToken(t *testing.T) {
	// request tokens are staleness counters, not credentials
	out := sanitizeKVs([]interface{}{"request", uint64(7)})
	require.Equal(t, []interface{}{"request", uint64(7)}, out)
}

func TestSanitizeOddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	require.Equal(t, []interface{}{"a", 1, "dangling"}, out)
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "studydash.log")
	log, err := New("prod", path)
	require.NoError(t, err)

	log.Info("request issued", "session", "quiz-generation", "api_key", "hunter2")
	log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), "quiz-generation"))
	require.False(t, strings.Contains(string(data), "hunter2"))
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
	l := Nop()
	require.Same(t, l, OrNop(l))
}
