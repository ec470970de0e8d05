package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dylan/studydash/backend"
	"github.com/dylan/studydash/extract"
)

var (
	// ErrGenerationFailed is returned when the backend answers success=false.
	ErrGenerationFailed = errors.New("workflow generation failed")
	// ErrMalformedWorkflow is returned when success=true carries unusable data.
	ErrMalformedWorkflow = errors.New("malformed workflow")
)

// Stage is one node of an ordered process workflow.
type Stage struct {
	Name        string   `json:"stage"`
	Description string   `json:"description"`
	ToolsUsed   []string `json:"tools_used"`
	Activities  []string `json:"activities"`
}

// CodeSnippet is an example attached to a stage detail. Backends sometimes
// send it as a bare string, which is taken as the code.
type CodeSnippet struct {
	Language string `json:"language"`
	Code     string `json:"code"`
}

func (c *CodeSnippet) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		*c = CodeSnippet{Code: code}
		return nil
	}
	type plain CodeSnippet
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CodeSnippet(p)
	return nil
}

// StageDetail is the on-demand explanation of a stage. Missing fields are
// empty.
type StageDetail struct {
	CodeSnippet   *CodeSnippet `json:"code_snippet,omitempty"`
	BestPractices []string     `json:"best_practices"`
	Checklist     []string     `json:"checklist"`
}

// HasSnippet reports whether there is code to copy or open.
func (d StageDetail) HasSnippet() bool {
	return d.CodeSnippet != nil && strings.TrimSpace(d.CodeSnippet.Code) != ""
}

// Detail is the detail shown for the selected stage. Available is false
// for the explicit "unavailable" fallback, which is not the same thing as
// an available detail with empty lists.
type Detail struct {
	Stage     string
	Detail    StageDetail
	Available bool
}

func unavailable(stage string) Detail {
	return Detail{Stage: stage}
}

// NormalizeTools trims tool names, drops blanks and duplicates, and keeps
// first-seen order.
func NormalizeTools(tools []string) []string {
	if len(tools) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tools))
	out := make([]string, 0, len(tools))
	for _, t := range tools {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// NormalizeStages returns a copy of stages with trimmed names and
// normalized tools.
func NormalizeStages(stages []Stage) []Stage {
	out := make([]Stage, len(stages))
	for i, s := range stages {
		out[i] = Stage{
			Name:        strings.TrimSpace(s.Name),
			Description: strings.TrimSpace(s.Description),
			ToolsUsed:   NormalizeTools(s.ToolsUsed),
			Activities:  append([]string(nil), s.Activities...),
		}
	}
	return out
}

type generated struct {
	Stages []Stage
	Role   string
}

type workflowData struct {
	Workflow *[]Stage `json:"workflow"`
	Role     string   `json:"role"`
}

func parseWorkflow(env backend.Envelope) (generated, error) {
	if !env.Success {
		if env.Error != "" {
			return generated{}, fmt.Errorf("%w: %s", ErrGenerationFailed, env.Error)
		}
		return generated{}, ErrGenerationFailed
	}

	data, ok := extract.Payload(env.Data)
	if !ok {
		return generated{}, fmt.Errorf("%w: data is not an object", ErrMalformedWorkflow)
	}
	var wd workflowData
	if err := json.Unmarshal(data, &wd); err != nil {
		return generated{}, fmt.Errorf("%w: %v", ErrMalformedWorkflow, err)
	}
	if wd.Workflow == nil {
		return generated{}, fmt.Errorf("%w: no workflow field", ErrMalformedWorkflow)
	}

	stages := NormalizeStages(*wd.Workflow)
	for i, s := range stages {
		if s.Name == "" {
			return generated{}, fmt.Errorf("%w: stage %d has no name", ErrMalformedWorkflow, i+1)
		}
	}
	return generated{Stages: stages, Role: strings.TrimSpace(wd.Role)}, nil
}

func parseDetail(stage string, env backend.Envelope) Detail {
	if !env.Success {
		return unavailable(stage)
	}
	data, ok := extract.Payload(env.Data)
	if !ok {
		return unavailable(stage)
	}
	var d StageDetail
	if err := json.Unmarshal(data, &d); err != nil {
		return unavailable(stage)
	}
	return Detail{Stage: stage, Detail: d, Available: true}
}
