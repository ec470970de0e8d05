package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Fake returns deterministic payloads for offline use. Its quiz replies
// wrap JSON in prose and a fence, the way real models tend to answer.
type Fake struct {
	Delay time.Duration
}

func NewFake(delay time.Duration) *Fake {
	return &Fake{Delay: delay}
}

func (f *Fake) wait(ctx context.Context) error {
	if f.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.Delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (f *Fake) GenerateContent(ctx context.Context, role, message, contextText string) (string, error) {
	if err := f.wait(ctx); err != nil {
		return "", err
	}
	topic := contextText
	if topic == "" {
		topic = "the topic"
	}
	questions := []map[string]any{
		{
			"id":            1,
			"question":      fmt.Sprintf("Which practice matters most for a %s working on %s?", role, topic),
			"options":       []string{"Clear interfaces", "Skipping reviews", "Ignoring errors", "Manual deploys"},
			"correctAnswer": 0,
			"explanation":   "Clear interfaces keep the work reviewable and testable.",
		},
		{
			"id":            2,
			"question":      fmt.Sprintf("What should you do first when %s work fails in production?", topic),
			"options":       []string{"Rewrite it", "Read the logs", "Blame the network", "Wait"},
			"correctAnswer": 1,
			"explanation":   "Logs tell you what actually happened.",
		},
	}
	b, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return "", err
	}
	return "Here is your quiz:\n```json\n" + string(b) + "\n```\nGood luck!", nil
}

func (f *Fake) GenerateWorkflow(ctx context.Context, role, customTools string) (Envelope, error) {
	if err := f.wait(ctx); err != nil {
		return Envelope{}, err
	}
	var tools []string
	for _, t := range strings.Split(customTools, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tools = append(tools, t)
		}
	}
	data := map[string]any{
		"role": role,
		"workflow": []map[string]any{
			{"stage": "Design", "description": "Shape the solution before building it.", "tools_used": tools, "activities": []string{"Write a proposal", "Review trade-offs"}},
			{"stage": "Implementation", "description": "Build in small, reviewed steps.", "tools_used": tools, "activities": []string{"Code", "Unit test"}},
			{"stage": "Release", "description": "Ship and watch.", "tools_used": tools, "activities": []string{"Deploy", "Monitor"}},
		},
	}
	b, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Success: true, Data: b}, nil
}

func (f *Fake) GetStageDetail(ctx context.Context, role, stage string, tools []string) (Envelope, error) {
	if err := f.wait(ctx); err != nil {
		return Envelope{}, err
	}
	lang := "bash"
	code := "echo " + strings.ToLower(stage)
	if len(tools) > 0 {
		code = fmt.Sprintf("%s --stage %q", strings.ToLower(tools[0]), stage)
	}
	data := map[string]any{
		"code_snippet":   map[string]string{"language": lang, "code": code},
		"best_practices": []string{fmt.Sprintf("Keep %s small and reviewable", strings.ToLower(stage))},
		"checklist":      []string{"Goals agreed", "Risks written down"},
	}
	b, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Success: true, Data: b}, nil
}
