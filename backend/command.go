package backend

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Command generates content with a local model CLI, e.g. "claude --print".
// The prompt goes to stdin, prefixed by the context line; stdout is the
// reply.
type Command struct {
	Argv []string
}

// NewCommand splits line on whitespace. It returns nil for a blank line.
func NewCommand(line string) *Command {
	argv := strings.Fields(line)
	if len(argv) == 0 {
		return nil
	}
	return &Command{Argv: argv}
}

func (c *Command) GenerateContent(ctx context.Context, role, message, contextText string) (string, error) {
	var in strings.Builder
	if role != "" {
		fmt.Fprintf(&in, "You are helping a %s.\n", role)
	}
	if contextText != "" {
		fmt.Fprintf(&in, "Context: %s\n", contextText)
	}
	in.WriteString("\n" + message)

	cmd := exec.CommandContext(ctx, c.Argv[0], c.Argv[1:]...)
	cmd.Stdin = strings.NewReader(in.String())
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s not found, install it or unset backend.content_command", c.Argv[0])
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s: %w", c.Argv[0], strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("%s: %w", c.Argv[0], err)
	}

	reply := strings.TrimSpace(string(out))
	if reply == "" {
		return "", fmt.Errorf("%s returned empty response", c.Argv[0])
	}
	return reply, nil
}
