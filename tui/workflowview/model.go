package workflowview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dylan/studydash/lifecycle"
	"github.com/dylan/studydash/snippet"
	"github.com/dylan/studydash/tui/shared"
	"github.com/dylan/studydash/workflow"
)

type Model struct {
	engine      *workflow.Engine
	input       textinput.Model
	editing     bool
	cursor      int
	detailVP    viewport.Model
	editor      string
	spinnerView string
	width       int
	height      int
}

func New(engine *workflow.Engine, editor string) Model {
	ti := textinput.New()
	ti.Placeholder = "Tools you use, e.g. terraform, k8s, argo"
	ti.CharLimit = 200
	ti.Width = 60
	return Model{
		engine:   engine,
		input:    ti,
		editor:   editor,
		detailVP: viewport.New(40, 10),
	}
}

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.input.Width = w - 10
	if m.input.Width > 80 {
		m.input.Width = 80
	}
	detailH := h - 5 // header, input line, spacing
	if detailH < 3 {
		detailH = 3
	}
	m.detailVP = viewport.New(m.detailWidth(), detailH)
	m.sync()
}

func (m Model) listWidth() int {
	if m.width < 60 {
		return m.width
	}
	return m.width * 2 / 5
}

func (m Model) detailWidth() int {
	w := m.width - m.listWidth() - 2 // border and padding
	if w < 20 {
		w = 20
	}
	return w
}

// SetSpinnerView sets the rendered spinner frame shown while loading.
func (m *Model) SetSpinnerView(view string) {
	m.spinnerView = view
	m.sync()
}

// Editing reports whether the customization input has focus.
func (m Model) Editing() bool {
	return m.editing
}

// Loading reports whether any workflow request is in flight.
func (m Model) Loading() bool {
	return m.engine.RegenerateState().Phase == lifecycle.Pending ||
		m.engine.DetailState().Phase == lifecycle.Pending
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if _, ok := msg.(lifecycle.ResultMsg); !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	cmd := m.engine.Update(msg)
	if n := len(m.engine.Stages()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.sync()
	return m, cmd
}

func (m Model) HandleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.editing {
		return m.handleInputKey(msg)
	}

	stages := m.engine.Stages()
	switch {
	case key.Matches(msg, shared.Keys.Down):
		if m.cursor < len(stages)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, shared.Keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, shared.Keys.Customize):
		m.editing = true
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, shared.Keys.Select):
		if m.cursor >= len(stages) {
			return m, nil
		}
		cmd := m.engine.FetchStageDetail(stages[m.cursor])
		m.detailVP.GotoTop()
		m.sync()
		return m, cmd

	case key.Matches(msg, shared.Keys.StageQuiz):
		if m.cursor >= len(stages) {
			return m, nil
		}
		st := stages[m.cursor]
		topics := append(append([]string(nil), st.ToolsUsed...), st.Activities...)
		return m, func() tea.Msg {
			return shared.StartQuizMsg{PhaseName: st.Name, Topics: topics}
		}

	case key.Matches(msg, shared.Keys.Retry):
		if m.engine.RegenerateState().Phase == lifecycle.Error {
			return m, m.engine.RetryRegenerate()
		}
		if m.engine.DetailState().Phase == lifecycle.Error {
			return m, m.engine.RetryDetail()
		}
		return m, nil

	case key.Matches(msg, shared.Keys.Escape):
		m.engine.CloseDetail()
		m.sync()
		return m, nil

	case key.Matches(msg, shared.Keys.Copy):
		d, ok := m.engine.ActiveDetail()
		if !ok || !d.Detail.HasSnippet() {
			return m, shared.Notify(shared.FeedbackWarning, shared.OpSnippet, "No code snippet to copy", nil)
		}
		return m, snippet.Copy(d.Detail.CodeSnippet.Code)

	case key.Matches(msg, shared.Keys.Edit):
		d, ok := m.engine.ActiveDetail()
		if !ok || !d.Detail.HasSnippet() {
			return m, shared.Notify(shared.FeedbackWarning, shared.OpSnippet, "No code snippet to open", nil)
		}
		return m, snippet.Open(d.Stage, d.Detail.CodeSnippet.Language, d.Detail.CodeSnippet.Code, m.editor)
	}

	// Pass through to viewport for scrolling
	var cmd tea.Cmd
	m.detailVP, cmd = m.detailVP.Update(msg)
	return m, cmd
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.editing = false
		m.input.Blur()
		cmd := m.engine.Regenerate(m.input.Value())
		if cmd == nil {
			return m, shared.Notify(shared.FeedbackInfo, shared.OpWorkflow, "Describe your tools first", nil)
		}
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) sync() {
	m.detailVP.SetContent(m.renderDetail())
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString("\n")

	header := shared.TitleStyle.Render("  Workflow")
	if role := m.engine.RoleLabel(); role != "" {
		header += "  " + shared.RoleStyle.Render(role)
	}
	if m.engine.RegenerateState().Phase == lifecycle.Pending {
		label := shared.OpWorkflow.Label()
		if m.spinnerView != "" {
			label = m.spinnerView + " " + label
		}
		header += "  " + shared.HelpDescStyle.Render(label)
	}
	b.WriteString(header + "\n")

	if m.editing {
		b.WriteString("  " + m.input.View() + "\n")
	} else if err := m.engine.LastError(); err != nil {
		b.WriteString("  " + shared.ErrorStyle.Render(fmt.Sprintf("Regeneration failed: %v (r: retry)", err)) + "\n")
	} else {
		b.WriteString("  " + shared.HelpDescStyle.Render("/: customize  enter: detail  t: quiz on stage") + "\n")
	}
	b.WriteString("\n")

	list := m.renderStages()
	if m.width < 60 {
		if _, ok := m.engine.Selected(); ok {
			return b.String() + m.detailVP.View()
		}
		return b.String() + list
	}
	list = lipgloss.NewStyle().Width(m.listWidth()).Render(list)
	detail := shared.DetailBoxStyle.Render(m.detailVP.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, detail))
	return b.String()
}

func (m Model) renderStages() string {
	stages := m.engine.Stages()
	if len(stages) == 0 {
		return "  " + shared.DimStyle.Render("Workflow unavailable. Press / to describe your tools.") + "\n"
	}
	var b strings.Builder
	for i, s := range stages {
		name := fmt.Sprintf("%d. %s", i+1, s.Name)
		if i == m.cursor {
			b.WriteString("  " + shared.StageActiveStyle.Render(name) + "\n")
		} else {
			b.WriteString("  " + shared.StageStyle.Render(name) + "\n")
		}
		if s.Description != "" {
			b.WriteString("     " + shared.DimStyle.Render(s.Description) + "\n")
		}
		if len(s.ToolsUsed) > 0 {
			badges := make([]string, len(s.ToolsUsed))
			for j, t := range s.ToolsUsed {
				badges[j] = shared.ToolBadge.Render(t)
			}
			b.WriteString("     " + strings.Join(badges, " ") + "\n")
		}
	}
	return b.String()
}

func (m Model) renderDetail() string {
	sel, ok := m.engine.Selected()
	if !ok {
		return shared.DimStyle.Render("Select a stage to see its detail.")
	}

	var b strings.Builder
	b.WriteString(shared.TitleStyle.Render(sel.Name) + "\n\n")

	st := m.engine.DetailState()
	switch st.Phase {
	case lifecycle.Pending:
		label := shared.OpDetail.Label()
		if m.spinnerView != "" {
			label = m.spinnerView + " " + label
		}
		b.WriteString(shared.HelpDescStyle.Render(label))
		return b.String()
	case lifecycle.Error:
		b.WriteString(shared.ErrorStyle.Render(fmt.Sprintf("Could not load detail: %v", st.Err)) + "\n")
		b.WriteString(shared.HelpDescStyle.Render("r: retry  esc: close"))
		return b.String()
	}

	d, ok := m.engine.ActiveDetail()
	if !ok {
		return b.String()
	}
	if !d.Available {
		b.WriteString(shared.DimStyle.Render("Detail is unavailable for this stage."))
		return b.String()
	}

	if d.Detail.HasSnippet() {
		lang := d.Detail.CodeSnippet.Language
		if lang == "" {
			lang = "code"
		}
		b.WriteString(shared.SectionStyle.Render(strings.ToUpper(lang)) + "  " + shared.HelpDescStyle.Render("y: copy  e: edit") + "\n")
		b.WriteString(shared.CodeStyle.Render(d.Detail.CodeSnippet.Code) + "\n\n")
	}
	b.WriteString(shared.SectionStyle.Render("BEST PRACTICES") + "\n")
	b.WriteString(shared.RenderBullets(d.Detail.BestPractices, "None listed"))
	b.WriteString("\n")
	b.WriteString(shared.SectionStyle.Render("CHECKLIST") + "\n")
	b.WriteString(shared.RenderBullets(d.Detail.Checklist, "None listed"))
	return b.String()
}
