package quiz

import (
	"fmt"
	"strings"
)

// Request describes the quiz to generate.
type Request struct {
	PhaseName string
	Topics    []string
	Role      string
}

func BuildPrompt(req Request, count int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate %d multiple choice questions for the %q phase", count, req.PhaseName))
	if req.Role != "" {
		sb.WriteString(fmt.Sprintf(" aimed at a %s", req.Role))
	}
	sb.WriteString(".\n\n")

	if len(req.Topics) > 0 {
		sb.WriteString("Cover these topics:\n")
		for _, t := range req.Topics {
			sb.WriteString("- " + t + "\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Each question must have exactly 4 options\n")
	sb.WriteString("- correctAnswer is the 0-based index of the right option\n")
	sb.WriteString("- Include a one sentence explanation\n")
	sb.WriteString("- Reply with a ```json fenced array of objects with keys id, question, options, correctAnswer, explanation\n")

	return sb.String()
}
