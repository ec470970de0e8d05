package shared

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	SwitchView key.Binding
	Answer     key.Binding
	OpenQuiz   key.Binding
	StageQuiz  key.Binding
	Retry      key.Binding
	Customize  key.Binding
	Select     key.Binding
	Copy       key.Binding
	Edit       key.Binding
	Help       key.Binding
	Quit       key.Binding
	Escape     key.Binding
}

var Keys = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	SwitchView: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "quiz/workflow"),
	),
	Answer: key.NewBinding(
		key.WithKeys("1", "2", "3", "4"),
		key.WithHelp("1-4", "answer"),
	),
	OpenQuiz: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "new quiz"),
	),
	StageQuiz: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "quiz on stage"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
	Customize: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "customize tools"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "stage detail"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy snippet"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "snippet in editor"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back/cancel"),
	),
}

// KeyGroup is a titled section of the help overlay.
type KeyGroup struct {
	Title    string
	Bindings []key.Binding
}

func (k KeyMap) Groups() []KeyGroup {
	return []KeyGroup{
		{"Navigation", []key.Binding{k.Up, k.Down, k.SwitchView}},
		{"Quiz", []key.Binding{k.OpenQuiz, k.Answer, k.Retry}},
		{"Workflow", []key.Binding{k.Customize, k.Select, k.StageQuiz, k.Copy, k.Edit}},
		{"General", []key.Binding{k.Help, k.Quit, k.Escape}},
	}
}
