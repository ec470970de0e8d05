package shared

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/dylan/studydash/config"
)

var (
	// Headers
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	RoleStyle     lipgloss.Style

	// Lists
	ItemStyle   lipgloss.Style
	DimStyle    lipgloss.Style
	MutedStyle  lipgloss.Style
	BulletStyle lipgloss.Style

	// Quiz
	QuestionStyle    lipgloss.Style
	OptionKeyStyle   lipgloss.Style
	CorrectStyle     lipgloss.Style
	IncorrectStyle   lipgloss.Style
	ScoreStyle       lipgloss.Style
	ExplanationStyle lipgloss.Style
	FallbackBadge    lipgloss.Style

	// Workflow
	StageStyle       lipgloss.Style
	StageActiveStyle lipgloss.Style
	ToolBadge        lipgloss.Style
	SectionStyle     lipgloss.Style
	CodeStyle        lipgloss.Style
	DetailBoxStyle   lipgloss.Style

	// Status bar
	StatusBarStyle lipgloss.Style

	// Help styles
	HelpKeyStyle     lipgloss.Style
	HelpDescStyle    lipgloss.Style
	HelpOverlayStyle lipgloss.Style

	// Error
	ErrorStyle lipgloss.Style

	// Spinner
	SpinnerStyle lipgloss.Style

	// Feedback
	FeedbackSuccessStyle lipgloss.Style
	FeedbackWarningStyle lipgloss.Style
	FeedbackErrorStyle   lipgloss.Style
)

// InitStyles configures all styles from a resolved theme.
func InitStyles(theme config.ThemeConfig) {
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Dim))

	RoleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent2)).
		Bold(true)

	ItemStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FG))

	DimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Dim))

	MutedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted))

	BulletStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent))

	QuestionStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.FG))

	OptionKeyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent))

	CorrectStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Correct)).
		Bold(true)

	IncorrectStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Incorrect)).
		Bold(true)

	ScoreStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent2))

	ExplanationStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Dim)).
		Italic(true)

	FallbackBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FeedbackWarningFG)).
		Background(lipgloss.Color(theme.FeedbackWarningBG)).
		Padding(0, 1)

	StageStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FG))

	StageActiveStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent)).
		Background(lipgloss.Color(theme.CursorBG)).
		Bold(true)

	ToolBadge = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent2)).
		Background(lipgloss.Color(theme.CodeBG)).
		Padding(0, 1)

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Muted)).
		Bold(true)

	CodeStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FG)).
		Background(lipgloss.Color(theme.CodeBG)).
		Padding(0, 1)

	DetailBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color(theme.Muted)).
		PaddingLeft(1)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.StatusBarFG)).
		Background(lipgloss.Color(theme.StatusBarBG)).
		Padding(0, 1)

	HelpKeyStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent))

	HelpDescStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Dim))

	HelpOverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Muted)).
		Padding(1, 2)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Error))

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.SpinnerFG))

	FeedbackSuccessStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FeedbackSuccessFG)).
		Background(lipgloss.Color(theme.FeedbackSuccessBG)).
		Padding(0, 1)

	FeedbackWarningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FeedbackWarningFG)).
		Background(lipgloss.Color(theme.FeedbackWarningBG)).
		Padding(0, 1)

	FeedbackErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.FeedbackErrorFG)).
		Background(lipgloss.Color(theme.FeedbackErrorBG)).
		Padding(0, 1)
}

// FeedbackStyle returns the style for a feedback level.
func FeedbackStyle(level FeedbackLevel) lipgloss.Style {
	switch level {
	case FeedbackSuccess:
		return FeedbackSuccessStyle
	case FeedbackWarning:
		return FeedbackWarningStyle
	case FeedbackError:
		return FeedbackErrorStyle
	default:
		return StatusBarStyle
	}
}

// RenderBullets renders items as an indented bullet list, or a dim
// placeholder when there are none.
func RenderBullets(items []string, empty string) string {
	if len(items) == 0 {
		return "  " + DimStyle.Render(empty) + "\n"
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString("  " + BulletStyle.Render("•") + " " + ItemStyle.Render(it) + "\n")
	}
	return b.String()
}

// ResolveSpinnerType maps a config string to a bubbles spinner type.
func ResolveSpinnerType(name string) spinner.Spinner {
	switch strings.ToLower(name) {
	case "dot":
		return spinner.Dot
	case "line":
		return spinner.Line
	case "minidot":
		return spinner.MiniDot
	case "pulse":
		return spinner.Pulse
	case "points":
		return spinner.Points
	case "meter":
		return spinner.Meter
	case "ellipsis":
		return spinner.Ellipsis
	default:
		return spinner.MiniDot
	}
}

func init() {
	// Initialize with defaults so styles work even without explicit InitStyles call
	InitStyles(config.DefaultTheme())
}
