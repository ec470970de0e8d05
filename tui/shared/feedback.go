package shared

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FeedbackLevel controls styling and auto-clear duration.
type FeedbackLevel int

const (
	FeedbackInfo    FeedbackLevel = iota // transient, auto-clears 4s
	FeedbackSuccess                      // green styled, auto-clears 4s
	FeedbackWarning                      // yellow, auto-clears 8s
	FeedbackError                        // red, auto-clears 12s
)

// FeedbackTTL returns the auto-clear duration for a given level.
func FeedbackTTL(level FeedbackLevel) time.Duration {
	switch level {
	case FeedbackInfo, FeedbackSuccess:
		return 4 * time.Second
	case FeedbackWarning:
		return 8 * time.Second
	default:
		return 12 * time.Second
	}
}

// Feedback represents a user-facing feedback message.
type Feedback struct {
	Level     FeedbackLevel
	Message   string
	Detail    string // full error text, written to the log
	Timestamp time.Time
	Op        LoaderOp // which operation produced this
}

// FeedbackMsg delivers a feedback message to the app.
type FeedbackMsg struct {
	Feedback Feedback
}

// DismissFeedbackMsg clears the current feedback if it is still the one
// shown at Timestamp.
type DismissFeedbackMsg struct {
	Timestamp time.Time
}

// Notify returns a command that delivers feedback.
func Notify(level FeedbackLevel, op LoaderOp, message string, err error) tea.Cmd {
	fb := Feedback{Level: level, Message: message, Op: op, Timestamp: time.Now()}
	if err != nil {
		fb.Detail = err.Error()
	}
	return func() tea.Msg { return FeedbackMsg{Feedback: fb} }
}

// ExpireFeedback schedules the auto-clear for fb.
func ExpireFeedback(fb Feedback) tea.Cmd {
	ts := fb.Timestamp
	return tea.Tick(FeedbackTTL(fb.Level), func(time.Time) tea.Msg {
		return DismissFeedbackMsg{Timestamp: ts}
	})
}
