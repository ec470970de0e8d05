package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dylan/studydash/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInitWritesStarterOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "studydash", "config.toml")

	require.Equal(t, 0, run([]string{"-init", "-config", path}))
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Workflow.Stages)
	assert.Empty(t, cfg.Backend.APIKey)

	assert.Equal(t, 1, run([]string{"-init", "-config", path}))
}

func TestRunRejectsBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[quiz]\nfeedback_interval = \"soon\"\n"), 0o644))
	assert.Equal(t, 1, run([]string{"-config", path}))

	assert.Equal(t, 1, run([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}))
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-no-such-flag"}))
	assert.Equal(t, 0, run([]string{"-h"}))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "k8s"}, splitList(" go, ,k8s ,"))
	assert.Nil(t, splitList(""))
}
