// Package snippet hands stage code snippets to the clipboard or an editor.
package snippet

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type CopiedMsg struct {
	Bytes int
	Err   error
}

type EditorFinishedMsg struct {
	Path string
	Err  error
}

// Copy puts code on the system clipboard.
func Copy(code string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(code); err != nil {
			return CopiedMsg{Err: fmt.Errorf("clipboard: %w", err)}
		}
		return CopiedMsg{Bytes: len(code)}
	}
}

var extensions = map[string]string{
	"go":         ".go",
	"golang":     ".go",
	"python":     ".py",
	"py":         ".py",
	"javascript": ".js",
	"js":         ".js",
	"typescript": ".ts",
	"ts":         ".ts",
	"java":       ".java",
	"rust":       ".rs",
	"ruby":       ".rb",
	"bash":       ".sh",
	"sh":         ".sh",
	"shell":      ".sh",
	"yaml":       ".yaml",
	"yml":        ".yaml",
	"json":       ".json",
	"sql":        ".sql",
	"hcl":        ".tf",
	"terraform":  ".tf",
	"dockerfile": ".dockerfile",
	"html":       ".html",
	"css":        ".css",
}

// Extension maps a snippet language to a file extension so the editor
// picks the right syntax. Unknown languages get .txt.
func Extension(language string) string {
	if ext, ok := extensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return ".txt"
}

// ResolveEditor returns the editor command line: the configured one,
// then $VISUAL, then $EDITOR, then nvim.
func ResolveEditor(configured string, getenv func(string) string) []string {
	for _, v := range []string{configured, getenv("VISUAL"), getenv("EDITOR")} {
		if f := strings.Fields(v); len(f) > 0 {
			return f
		}
	}
	return []string{"nvim"}
}

// WriteTemp stores code in a fresh temp file named after stage.
func WriteTemp(dir, stage, language, code string) (string, error) {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, stage)
	f, err := os.CreateTemp(dir, "studydash-"+name+"-*"+Extension(language))
	if err != nil {
		return "", fmt.Errorf("creating snippet file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(code); err != nil {
		return "", fmt.Errorf("writing snippet file: %w", err)
	}
	return f.Name(), nil
}

// Open writes the snippet to a temp file and opens it in the editor. Inside
// tmux the editor gets its own pane and the file is left for it.
func Open(stage, language, code, editor string) tea.Cmd {
	path, err := WriteTemp("", stage, language, code)
	if err != nil {
		return func() tea.Msg { return EditorFinishedMsg{Err: err} }
	}
	argv := append(ResolveEditor(editor, os.Getenv), path)

	if os.Getenv("TMUX") != "" {
		return func() tea.Msg {
			args := append([]string{"split-window", "-h"}, argv...)
			err := exec.Command("tmux", args...).Run()
			return EditorFinishedMsg{Path: path, Err: err}
		}
	}

	c := exec.Command(argv[0], argv[1:]...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		_ = os.Remove(path)
		return EditorFinishedMsg{Path: path, Err: err}
	})
}
