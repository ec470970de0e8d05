// Package extract turns free-form model output into validated structured
// values. Every path ends in either a shape-valid value or the caller's
// fallback; nothing here returns an error to the caller or panics.
package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Strategy locates JSON candidates inside raw model output.
type Strategy struct {
	Name string
	Find func(raw string) []string
}

// Fences open and close at the start of a line. JSON strings cannot hold
// raw newlines, so backticks quoted inside a value never end a block.
var (
	jsonFence = regexp.MustCompile("(?ims)^[ \\t]{0,3}```json[^\\n]*\\n(.*?)\\n[ \\t]{0,3}```[ \\t]*\\r?$")
	anyFence  = regexp.MustCompile("(?ms)^[ \\t]{0,3}```[A-Za-z0-9_+.-]*[ \\t]*\\r?\\n(.*?)\\n[ \\t]{0,3}```[ \\t]*\\r?$")
)

var (
	// JSONFence matches ```json blocks.
	JSONFence = Strategy{Name: "json-fence", Find: fenced(jsonFence)}
	// AnyFence matches any fenced block, tagged or not.
	AnyFence = Strategy{Name: "fence", Find: fenced(anyFence)}
	// Whole treats the entire text as JSON.
	Whole = Strategy{Name: "whole", Find: func(raw string) []string {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
		return []string{raw}
	}}
)

// Default is the ordered strategy list used by Parse.
var Default = []Strategy{JSONFence, AnyFence, Whole}

// ErrNoCandidate is recorded when no strategy found anything to parse.
var ErrNoCandidate = errors.New("extract: no JSON candidate in response")

func fenced(re *regexp.Regexp) func(string) []string {
	return func(raw string) []string {
		matches := re.FindAllStringSubmatch(raw, -1)
		out := make([]string, 0, len(matches))
		for _, m := range matches {
			if body := strings.TrimSpace(m[1]); body != "" {
				out = append(out, body)
			}
		}
		return out
	}
}

// Result is the tagged outcome of a parse: either Parsed with a value,
// or not Parsed, in which case the caller substitutes its fallback.
type Result[T any] struct {
	Value    T
	Parsed   bool
	Strategy string
	Err      error // last failure, set only when !Parsed
}

// Or collapses the result to a value.
func (r Result[T]) Or(fallback T) T {
	if !r.Parsed {
		return fallback
	}
	return r.Value
}

// Parse runs the Default strategies in order. validate may be nil.
func Parse[T any](raw string, validate func(T) error) Result[T] {
	return ParseWith(Default, raw, validate)
}

// ParseWith is Parse over a caller-supplied strategy list. The first
// candidate that both decodes and validates wins.
func ParseWith[T any](strategies []Strategy, raw string, validate func(T) error) Result[T] {
	var lastErr error = ErrNoCandidate
	for _, s := range strategies {
		for _, candidate := range s.Find(raw) {
			v, err := decode(candidate, validate)
			if err != nil {
				lastErr = fmt.Errorf("%s: %w", s.Name, err)
				continue
			}
			return Result[T]{Value: v, Parsed: true, Strategy: s.Name}
		}
	}
	return Result[T]{Err: lastErr}
}

// Extract is Parse collapsed against fallback.
func Extract[T any](raw string, fallback T, validate func(T) error) T {
	return Parse(raw, validate).Or(fallback)
}

func decode[T any](candidate string, validate func(T) error) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero T
			v, err = zero, fmt.Errorf("validator panicked: %v", r)
		}
	}()
	if err := json.Unmarshal([]byte(candidate), &v); err != nil {
		var zero T
		return zero, err
	}
	if validate != nil {
		if err := validate(v); err != nil {
			var zero T
			return zero, err
		}
	}
	return v, nil
}
