package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dylan/studydash/tui/shared"
)

// Model is the full-screen key reference toggled with ?.
type Model struct {
	width  int
	height int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

func (m Model) View() string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
		shared.HelpOverlayStyle.Render(render(shared.Keys.Groups())))
}

func render(groups []shared.KeyGroup) string {
	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render("StudyDash Help"))
	b.WriteString("\n")

	for _, g := range groups {
		b.WriteString("\n" + shared.SectionStyle.Render(g.Title) + "\n")

		// pad keys to the widest in the group so descriptions line up
		width := 0
		for _, k := range g.Bindings {
			width = max(width, lipgloss.Width(k.Help().Key))
		}
		for _, k := range g.Bindings {
			h := k.Help()
			pad := strings.Repeat(" ", width-lipgloss.Width(h.Key))
			b.WriteString("  " + shared.HelpKeyStyle.Render(h.Key) + pad + "  " + shared.HelpDescStyle.Render(h.Desc) + "\n")
		}
	}
	return b.String()
}
