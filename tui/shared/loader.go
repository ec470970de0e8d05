package shared

// LoaderOp identifies an async operation that can show a spinner.
type LoaderOp string

const (
	OpQuiz     LoaderOp = "quiz"
	OpWorkflow LoaderOp = "workflow"
	OpDetail   LoaderOp = "detail"
	OpSnippet  LoaderOp = "snippet"
)

// Label is the spinner text shown while op is pending.
func (op LoaderOp) Label() string {
	switch op {
	case OpQuiz:
		return "Generating quiz..."
	case OpWorkflow:
		return "Regenerating workflow..."
	case OpDetail:
		return "Loading stage detail..."
	default:
		return "Working..."
	}
}
