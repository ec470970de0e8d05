package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dylan/studydash/extract"
)

// OptionCount is the number of choices every question carries.
const OptionCount = 4

// Question is a single multiple choice question.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // 0-based index into Options
	Explanation   string   `json:"explanation"`
}

// Validate enforces the shape every question must have before it reaches
// a Session.
func (q Question) Validate() error {
	if strings.TrimSpace(q.Question) == "" {
		return errors.New("question text is blank")
	}
	if len(q.Options) != OptionCount {
		return fmt.Errorf("question %d has %d options, want %d", q.ID, len(q.Options), OptionCount)
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("question %d option %d is blank", q.ID, i)
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return fmt.Errorf("question %d correct answer %d out of range", q.ID, q.CorrectAnswer)
	}
	return nil
}

// QuestionList decodes either a bare array of questions or an object
// holding one under "questions". Missing ids become 1-based positions.
type QuestionList []Question

type wireQuestion struct {
	ID            *int     `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *int     `json:"correctAnswer"`
	CorrectAlt    *int     `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

var errMissingAnswer = errors.New("question has no correct answer")

func (l *QuestionList) UnmarshalJSON(data []byte) error {
	var items []wireQuestion
	if err := json.Unmarshal(data, &items); err != nil {
		var wrapped struct {
			Questions []wireQuestion `json:"questions"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return err
		}
		items = wrapped.Questions
	}

	out := make(QuestionList, 0, len(items))
	for i, w := range items {
		answer := w.CorrectAnswer
		if answer == nil {
			answer = w.CorrectAlt
		}
		if answer == nil {
			return fmt.Errorf("question %d: %w", i+1, errMissingAnswer)
		}
		q := Question{
			ID:            i + 1,
			Question:      strings.TrimSpace(w.Question),
			Options:       w.Options,
			CorrectAnswer: *answer,
			Explanation:   strings.TrimSpace(w.Explanation),
		}
		if w.ID != nil {
			q.ID = *w.ID
		}
		out = append(out, q)
	}
	*l = out
	return nil
}

// Validate rejects empty lists and lists with any invalid question.
// There is no partial acceptance.
func (l QuestionList) Validate() error {
	if len(l) == 0 {
		return errors.New("no questions")
	}
	for _, q := range l {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ParseQuestions runs raw model output through the extractor.
func ParseQuestions(raw string) extract.Result[QuestionList] {
	return extract.Parse(raw, QuestionList.Validate)
}

// ExtractQuestions returns validated questions from raw, or the fallback
// quiz. The bool reports whether generated content was used.
func ExtractQuestions(raw string) ([]Question, bool) {
	res := ParseQuestions(raw)
	if !res.Parsed {
		return FallbackQuestions(), false
	}
	return res.Value, true
}

// FallbackQuestions is the placeholder quiz used when generated content
// cannot be validated. Each call returns a fresh copy.
func FallbackQuestions() []Question {
	return []Question{
		{
			ID:            1,
			Question:      "What is the best first step when learning a new technical topic?",
			Options:       []string{"Understand the core concepts", "Memorize every detail", "Skip the fundamentals", "Avoid hands-on practice"},
			CorrectAnswer: 0,
			Explanation:   "A solid grasp of the core concepts makes everything else easier to learn.",
		},
		{
			ID:            2,
			Question:      "Which habit helps knowledge stick over time?",
			Options:       []string{"Cramming once", "Regular practice and review", "Reading without applying", "Never asking questions"},
			CorrectAnswer: 1,
			Explanation:   "Spaced practice and review build lasting understanding.",
		},
	}
}
