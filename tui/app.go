package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dylan/studydash/config"
	"github.com/dylan/studydash/lifecycle"
	"github.com/dylan/studydash/logger"
	"github.com/dylan/studydash/quiz"
	"github.com/dylan/studydash/snippet"
	"github.com/dylan/studydash/tui/help"
	"github.com/dylan/studydash/tui/quizview"
	"github.com/dylan/studydash/tui/shared"
	"github.com/dylan/studydash/tui/workflowview"
	"github.com/dylan/studydash/workflow"
)

type ActiveView int

const (
	QuizView ActiveView = iota
	WorkflowView
)

func (v ActiveView) String() string {
	if v == QuizView {
		return "Quiz"
	}
	return "Workflow"
}

type Options struct {
	Config   config.Config
	Quiz     *quiz.Session
	Workflow *workflow.Engine
	Logger   *logger.Logger
	// QuizRequest is the quiz opened with o. Empty fields use config.
	QuizRequest quiz.Request
	// StartQuiz opens QuizRequest as soon as the program starts.
	StartQuiz bool
}

type App struct {
	cfg        config.Config
	log        *logger.Logger
	activeView ActiveView
	showHelp   bool
	feedback   *shared.Feedback
	startQuiz  bool

	session *quiz.Session
	engine  *workflow.Engine

	quizView     quizview.Model
	workflowView workflowview.Model
	helpView     help.Model
	spinner      spinner.Model

	width  int
	height int
}

func NewApp(opts Options) App {
	cfg := opts.Config
	shared.InitStyles(cfg.ResolvedTheme())

	sp := spinner.New()
	sp.Spinner = shared.ResolveSpinnerType(cfg.ResolvedSpinnerType())
	sp.Style = shared.SpinnerStyle

	req := opts.QuizRequest
	if req.PhaseName == "" {
		req.PhaseName = cfg.ResolvedPhase()
		if len(req.Topics) == 0 {
			req.Topics = cfg.Quiz.Topics
		}
	}
	if req.Role == "" {
		req.Role = opts.Workflow.RoleLabel()
	}

	view := WorkflowView
	if opts.StartQuiz {
		view = QuizView
	}

	return App{
		cfg:          cfg,
		log:          logger.OrNop(opts.Logger),
		activeView:   view,
		startQuiz:    opts.StartQuiz,
		session:      opts.Quiz,
		engine:       opts.Workflow,
		quizView:     quizview.New(opts.Quiz, req, cfg.ResolvedShowExplanations()),
		workflowView: workflowview.New(opts.Workflow, cfg.Display.Editor),
		helpView:     help.New(),
		spinner:      sp,
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.spinner.Tick}
	if a.startQuiz {
		cmds = append(cmds, a.quizView.Open(quiz.Request{}))
	}
	return tea.Batch(cmds...)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		contentH := a.height - 1 // reserve 1 for status bar
		a.quizView.SetSize(msg.Width, contentH)
		a.workflowView.SetSize(msg.Width, contentH)
		a.helpView.SetSize(msg.Width, msg.Height)
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		frame := a.spinner.View()
		a.quizView.SetSpinnerView(frame)
		a.workflowView.SetSpinnerView(frame)
		return a, cmd

	case lifecycle.ResultMsg:
		if msg.Session == lifecycle.QuizGeneration {
			return a, a.applyQuizResult(msg)
		}
		return a.applyWorkflowResult(msg)

	case quiz.AdvanceMsg:
		return a, a.quizView.Update(msg)

	case shared.StartQuizMsg:
		a.activeView = QuizView
		return a, a.quizView.Open(quiz.Request{PhaseName: msg.PhaseName, Topics: msg.Topics})

	case shared.CloseQuizMsg:
		a.activeView = WorkflowView
		return a, nil

	case shared.FeedbackMsg:
		fb := msg.Feedback
		a.feedback = &fb
		if fb.Level >= shared.FeedbackWarning {
			a.log.Warn("user feedback", "op", fb.Op, "message", fb.Message, "detail", fb.Detail)
		}
		return a, shared.ExpireFeedback(fb)

	case shared.DismissFeedbackMsg:
		if a.feedback != nil && a.feedback.Timestamp.Equal(msg.Timestamp) {
			a.feedback = nil
		}
		return a, nil

	case snippet.CopiedMsg:
		if msg.Err != nil {
			return a, shared.Notify(shared.FeedbackError, shared.OpSnippet, "Copy failed", msg.Err)
		}
		return a, shared.Notify(shared.FeedbackSuccess, shared.OpSnippet, fmt.Sprintf("Snippet copied (%d bytes)", msg.Bytes), nil)

	case snippet.EditorFinishedMsg:
		if msg.Err != nil {
			return a, shared.Notify(shared.FeedbackError, shared.OpSnippet, "Editor failed", msg.Err)
		}
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Route remaining updates (cursor blink etc.) to the workflow input
	if a.activeView == WorkflowView {
		var cmd tea.Cmd
		a.workflowView, cmd = a.workflowView.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) applyQuizResult(msg lifecycle.ResultMsg) tea.Cmd {
	before := a.session.Request()
	cmd := a.quizView.Update(msg)
	after := a.session.Request()
	if before.Phase != lifecycle.Pending || after.Token != msg.Token {
		return cmd
	}
	switch {
	case after.Phase == lifecycle.Error:
		return tea.Batch(cmd, shared.Notify(shared.FeedbackError, shared.OpQuiz, "Quiz generation failed, press r to retry", after.Err))
	case a.session.UsedFallback():
		return tea.Batch(cmd, shared.Notify(shared.FeedbackWarning, shared.OpQuiz, "Generated quiz was unusable, showing sample questions", nil))
	}
	return cmd
}

func (a App) applyWorkflowResult(msg lifecycle.ResultMsg) (tea.Model, tea.Cmd) {
	regenPending := a.engine.RegenerateState().Phase == lifecycle.Pending
	var cmd tea.Cmd
	a.workflowView, cmd = a.workflowView.Update(msg)

	st := a.engine.RegenerateState()
	if msg.Session != lifecycle.WorkflowRegeneration || !regenPending || st.Token != msg.Token {
		return a, cmd
	}
	if err := a.engine.LastError(); err != nil {
		return a, tea.Batch(cmd, shared.Notify(shared.FeedbackError, shared.OpWorkflow, "Workflow regeneration failed, previous workflow kept", err))
	}
	a.quizView.SetRole(a.engine.RoleLabel())
	n := len(a.engine.Stages())
	return a, tea.Batch(cmd, shared.Notify(shared.FeedbackSuccess, shared.OpWorkflow, fmt.Sprintf("Workflow updated (%d stages)", n), nil))
}

func (a App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The customization input swallows every key it can
	if a.activeView == WorkflowView && a.workflowView.Editing() && msg.Type != tea.KeyCtrlC {
		var cmd tea.Cmd
		a.workflowView, cmd = a.workflowView.HandleKey(msg)
		return a, cmd
	}

	// Help toggle is global
	if key.Matches(msg, shared.Keys.Help) {
		a.showHelp = !a.showHelp
		return a, nil
	}

	// If help is shown, any key closes it
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch {
	case key.Matches(msg, shared.Keys.Quit):
		a.session.Close()
		a.engine.Reset()
		return a, tea.Quit

	case key.Matches(msg, shared.Keys.SwitchView):
		if a.activeView == QuizView {
			a.activeView = WorkflowView
		} else {
			a.activeView = QuizView
		}
		return a, nil
	}

	switch a.activeView {
	case QuizView:
		return a, a.quizView.HandleKey(msg)
	case WorkflowView:
		var cmd tea.Cmd
		a.workflowView, cmd = a.workflowView.HandleKey(msg)
		return a, cmd
	}

	return a, nil
}

func (a App) View() string {
	if a.showHelp {
		return a.helpView.View()
	}

	var view string
	switch a.activeView {
	case QuizView:
		view = a.quizView.View()
	case WorkflowView:
		view = a.workflowView.View()
	}

	return view + a.renderStatusBar()
}

func (a App) renderStatusBar() string {
	parts := []string{"StudyDash", a.activeView.String()}
	if role := a.engine.RoleLabel(); role != "" {
		parts = append(parts, role)
	}
	if id := a.session.Attempt(); a.activeView == QuizView && id != "" {
		parts = append(parts, "attempt "+shortID(id))
	}
	if a.quizView.Loading() || a.workflowView.Loading() {
		parts = append(parts, a.spinner.View())
	}

	status := strings.Join(parts, " │ ")
	if a.feedback != nil {
		status += " │ " + shared.FeedbackStyle(a.feedback.Level).Render(a.feedback.Message)
	}
	status += " │ ? for help"

	return "\n" + shared.StatusBarStyle.Width(a.width).Render(status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
