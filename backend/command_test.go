package backend

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandBlank(t *testing.T) {
	assert.Nil(t, NewCommand("  "))
	assert.Equal(t, []string{"claude", "--print"}, NewCommand("claude  --print").Argv)
}

func TestCommandPipesPrompt(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	reply, err := NewCommand("cat").GenerateContent(context.Background(), "SRE", "make a quiz", "Testing")
	require.NoError(t, err)
	assert.Equal(t, "You are helping a SRE.\nContext: Testing\n\nmake a quiz", reply)
}

func TestCommandMissingBinary(t *testing.T) {
	_, err := NewCommand("studydash-no-such-binary").GenerateContent(context.Background(), "", "m", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCommandEmptyOutput(t *testing.T) {
	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("true not available")
	}
	_, err := NewCommand("true").GenerateContent(context.Background(), "", "m", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}
