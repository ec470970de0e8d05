package shared

// StartQuizMsg asks the app to open a quiz, e.g. for a workflow stage.
type StartQuizMsg struct {
	PhaseName string
	Topics    []string
}

type CloseQuizMsg struct{}
