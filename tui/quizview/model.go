package quizview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/lifecycle"
	"github.com/dylan/studydash/quiz"
	"github.com/dylan/studydash/tui/shared"
)

type Model struct {
	session          *quiz.Session
	defaultReq       quiz.Request
	showExplanations bool
	spinnerView      string
	width            int
	height           int
}

func New(session *quiz.Session, defaultReq quiz.Request, showExplanations bool) Model {
	return Model{
		session:          session,
		defaultReq:       defaultReq,
		showExplanations: showExplanations,
	}
}

func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetSpinnerView sets the rendered spinner frame shown while loading.
func (m *Model) SetSpinnerView(view string) {
	m.spinnerView = view
}

// SetRole changes the role used by quizzes opened from now on.
func (m *Model) SetRole(role string) {
	m.defaultReq.Role = role
}

// Open starts a quiz. Empty fields fall back to the configured defaults.
func (m Model) Open(req quiz.Request) tea.Cmd {
	if req.PhaseName == "" {
		req.PhaseName = m.defaultReq.PhaseName
		if len(req.Topics) == 0 {
			req.Topics = m.defaultReq.Topics
		}
	}
	if req.Role == "" {
		req.Role = m.defaultReq.Role
	}
	return m.session.Open(req)
}

// Loading reports whether a generation request is in flight.
func (m Model) Loading() bool {
	return m.session.Request().Phase == lifecycle.Pending
}

func (m Model) Update(msg tea.Msg) tea.Cmd {
	return m.session.Update(msg)
}

func (m Model) HandleKey(msg tea.KeyMsg) tea.Cmd {
	s := m.session
	switch {
	case key.Matches(msg, shared.Keys.Answer):
		i := int(msg.String()[0] - '1')
		cmd, _ := s.Select(i)
		return cmd

	case key.Matches(msg, shared.Keys.OpenQuiz):
		return m.Open(quiz.Request{})

	case key.Matches(msg, shared.Keys.Retry):
		switch s.Phase() {
		case quiz.Loading:
			return s.Retry()
		case quiz.Finished:
			return s.Open(s.LastRequest())
		}

	case key.Matches(msg, shared.Keys.Escape):
		s.Close()
		return func() tea.Msg { return shared.CloseQuizMsg{} }
	}
	return nil
}

func (m Model) View() string {
	s := m.session
	var b strings.Builder
	b.WriteString("\n")

	req := s.LastRequest()
	if s.Phase() == quiz.Idle {
		req = m.defaultReq
	}
	header := shared.TitleStyle.Render("  Quiz: " + req.PhaseName)
	if req.Role != "" {
		header += "  " + shared.RoleStyle.Render(req.Role)
	}
	b.WriteString(header + "\n")
	if len(req.Topics) > 0 {
		b.WriteString("  " + shared.SubtitleStyle.Render(strings.Join(req.Topics, " · ")) + "\n")
	}
	b.WriteString("\n")

	switch s.Phase() {
	case quiz.Idle:
		b.WriteString("  " + shared.DimStyle.Render("Press o to start a quiz.") + "\n")

	case quiz.Loading:
		st := s.Request()
		if st.Phase == lifecycle.Error {
			b.WriteString("  " + shared.ErrorStyle.Render(fmt.Sprintf("Could not generate a quiz: %v", st.Err)) + "\n\n")
			b.WriteString("  " + shared.HelpDescStyle.Render("r: retry  esc: cancel") + "\n")
			break
		}
		label := shared.OpQuiz.Label()
		if m.spinnerView != "" {
			label = m.spinnerView + " " + label
		}
		b.WriteString("  " + shared.HelpDescStyle.Render(label) + "\n")

	case quiz.Answering, quiz.Feedback:
		b.WriteString(m.renderQuestion())

	case quiz.Finished:
		b.WriteString("  " + shared.ScoreStyle.Render(fmt.Sprintf("You scored %d / %d", s.Score(), s.Total())) + "\n\n")
		b.WriteString("  " + shared.HelpDescStyle.Render("r: retake  o: new quiz  esc: close") + "\n")
	}

	return b.String()
}

func (m Model) renderQuestion() string {
	s := m.session
	q, ok := s.Current()
	if !ok {
		return ""
	}
	var b strings.Builder

	progress := fmt.Sprintf("  Question %d of %d  ·  Score %d", s.CurrentIndex()+1, s.Total(), s.Score())
	b.WriteString(shared.ScoreStyle.Render(progress))
	if s.UsedFallback() {
		b.WriteString("  " + shared.FallbackBadge.Render("sample questions"))
	}
	b.WriteString("\n\n")
	b.WriteString("  " + shared.QuestionStyle.Render(q.Question) + "\n\n")

	selected, answered := s.Selected()
	for i, opt := range q.Options {
		line := fmt.Sprintf("%s %s", shared.OptionKeyStyle.Render(fmt.Sprintf("%d.", i+1)), opt)
		if answered {
			switch {
			case i == q.CorrectAnswer:
				line = shared.CorrectStyle.Render(fmt.Sprintf("%d. %s ✓", i+1, opt))
			case i == selected:
				line = shared.IncorrectStyle.Render(fmt.Sprintf("%d. %s ✗", i+1, opt))
			default:
				line = shared.MutedStyle.Render(fmt.Sprintf("%d. %s", i+1, opt))
			}
		}
		b.WriteString("    " + line + "\n")
	}
	b.WriteString("\n")

	if s.Phase() == quiz.Feedback {
		style := shared.IncorrectStyle
		if selected == q.CorrectAnswer {
			style = shared.CorrectStyle
		}
		b.WriteString("  " + style.Render(s.Feedback()) + "\n")
		if m.showExplanations && q.Explanation != "" {
			b.WriteString("  " + shared.ExplanationStyle.Render(q.Explanation) + "\n")
		}
	} else {
		b.WriteString("  " + shared.HelpDescStyle.Render("1-4: answer  esc: close") + "\n")
	}
	return b.String()
}
