package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
[backend]
base_url = "https://api.example.com"
timeout = "45s"

[backend.paths]
content = "/v2/chat"

[quiz]
phase = "API Design"
topics = ["REST", "GraphQL"]
feedback_interval = "500ms"
question_count = 3

[workflow]
role = "Backend Engineer"
detail_cache_size = 0

[[workflow.stage]]
name = "Design"
tools = ["OpenAPI"]

[[workflow.stage]]
name = "Build"

[log]
mode = "dev"

[theme]
accent = "#ff0000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.ResolvedBaseURL())
	assert.Equal(t, 45*time.Second, cfg.ResolvedTimeout())
	paths := cfg.ResolvedPaths()
	assert.Equal(t, "/v2/chat", paths.Content)
	assert.Equal(t, "/api/workflow/generate", paths.Workflow)
	assert.Equal(t, "API Design", cfg.ResolvedPhase())
	assert.Equal(t, []string{"REST", "GraphQL"}, cfg.Quiz.Topics)
	assert.Equal(t, 500*time.Millisecond, cfg.ResolvedFeedbackInterval())
	assert.Equal(t, 3, cfg.ResolvedQuestionCount())
	assert.Equal(t, "Backend Engineer", cfg.ResolvedRole())
	assert.Equal(t, 0, cfg.ResolvedDetailCacheSize())
	require.Len(t, cfg.ResolvedStages(), 2)
	assert.Equal(t, []string{"OpenAPI"}, cfg.ResolvedStages()[0].Tools)
	assert.Equal(t, "dev", cfg.ResolvedLogMode())

	theme := cfg.ResolvedTheme()
	assert.Equal(t, "#ff0000", theme.Accent)
	assert.Equal(t, DefaultTheme().FG, theme.FG)
}

func TestDefaultsForEmptyConfig(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultBaseURL, cfg.ResolvedBaseURL())
	assert.Zero(t, cfg.ResolvedTimeout())
	assert.Equal(t, "/api/chat", cfg.ResolvedPaths().Content)
	assert.Equal(t, "/api/workflow/stage-detail", cfg.ResolvedPaths().StageDetail)
	assert.Equal(t, DefaultRole, cfg.ResolvedRole())
	assert.Equal(t, DefaultPhase, cfg.ResolvedPhase())
	assert.Equal(t, DefaultFeedbackInterval, cfg.ResolvedFeedbackInterval())
	assert.Equal(t, DefaultQuestionCount, cfg.ResolvedQuestionCount())
	assert.Equal(t, DefaultDetailCacheSize, cfg.ResolvedDetailCacheSize())
	assert.Equal(t, DefaultStages(), cfg.ResolvedStages())
	assert.Equal(t, "prod", cfg.ResolvedLogMode())
	assert.Equal(t, "minidot", cfg.ResolvedSpinnerType())
	assert.True(t, cfg.ResolvedShowExplanations())
	assert.Equal(t, "studydash.log", filepath.Base(cfg.ResolvedLogPath()))
	assert.Equal(t, DefaultTheme(), cfg.ResolvedTheme())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"timeout":       "[backend]\ntimeout = \"soon\"",
		"interval":      "[quiz]\nfeedback_interval = \"-1s\"",
		"unnamed stage": "[[workflow.stage]]\ndescription = \"x\"",
		"log mode":      "[log]\nmode = \"verbose\"",
		"syntax":        "[backend\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyEnvOverridesFile(t *testing.T) {
	cfg := Config{
		Backend:  BackendConfig{BaseURL: "http://file", APIKey: "file-key"},
		Workflow: WorkflowConfig{Role: "File Role"},
	}
	env := map[string]string{
		EnvBackendURL: "http://env",
		EnvRole:       "Env Role",
		EnvAPIKey:     "",
	}
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, "http://env", cfg.ResolvedBaseURL())
	assert.Equal(t, "Env Role", cfg.ResolvedRole())
	assert.Equal(t, "file-key", cfg.Backend.APIKey, "empty variable keeps the file value")
}

func TestSaveRoundTripDropsAPIKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Starter()
	cfg.Backend.APIKey = "sk-secret"

	require.NoError(t, Save(path, cfg))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-secret")

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultStages(), loaded.ResolvedStages())
	assert.Equal(t, DefaultFeedbackInterval, loaded.ResolvedFeedbackInterval())
	assert.Equal(t, DefaultDetailCacheSize, loaded.ResolvedDetailCacheSize())
}
