package help

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/dylan/studydash/tui/shared"
	"github.com/stretchr/testify/assert"
)

func TestRenderListsEveryGroup(t *testing.T) {
	out := render(shared.Keys.Groups())
	for _, g := range shared.Keys.Groups() {
		assert.Contains(t, out, g.Title)
		for _, k := range g.Bindings {
			assert.Contains(t, out, k.Help().Desc)
		}
	}
}

func TestRenderUsesGroupTitles(t *testing.T) {
	groups := []shared.KeyGroup{{
		Title: "Custom",
		Bindings: []key.Binding{
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "do x")),
			key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "do y")),
		},
	}}
	out := render(groups)
	assert.Contains(t, out, "Custom")
	assert.NotContains(t, out, "Navigation")

	// descriptions start in the same column
	var xLine, yLine string
	for _, l := range strings.Split(out, "\n") {
		switch {
		case strings.Contains(l, "do x"):
			xLine = l
		case strings.Contains(l, "do y"):
			yLine = l
		}
	}
	assert.Equal(t, lipgloss.Width(yLine)-len("do y"), lipgloss.Width(xLine)-len("do x"))
}
