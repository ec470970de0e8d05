package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func nonZero(p point) error {
	if p.X == 0 && p.Y == 0 {
		return errors.New("empty point")
	}
	return nil
}

var origin = point{X: -1, Y: -1}

func TestParseStrategies(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		want     point
		parsed   bool
		strategy string
	}{
		{
			name:     "json fence",
			raw:      "Sure! Here it is:\n```json\n{\"x\": 1, \"y\": 2}\n```\nEnjoy.",
			want:     point{1, 2},
			parsed:   true,
			strategy: "json-fence",
		},
		{
			name:     "uppercase tag",
			raw:      "```JSON\n{\"x\": 3}\n```",
			want:     point{X: 3},
			parsed:   true,
			strategy: "json-fence",
		},
		{
			name:     "untagged fence",
			raw:      "result:\n```\n{\"x\": 4, \"y\": 5}\n```",
			want:     point{4, 5},
			parsed:   true,
			strategy: "fence",
		},
		{
			name:     "malformed json fence falls through to later block",
			raw:      "```json\n{\"x\": oops}\n```\nretry:\n```\n{\"x\": 6}\n```",
			want:     point{X: 6},
			parsed:   true,
			strategy: "fence",
		},
		{
			name:     "backticks inside a json string",
			raw:      "```json\n{\"x\": 1, \"y\": 2, \"note\": \"wrap it in ```go fences\"}\n```",
			want:     point{1, 2},
			parsed:   true,
			strategy: "json-fence",
		},
		{
			name:     "inline backticks in prose before the block",
			raw:      "I wrapped the answer in ``` fences as asked:\n```\n{\"x\": 9}\n```",
			want:     point{X: 9},
			parsed:   true,
			strategy: "fence",
		},
		{
			name:     "indented fence with trailing spaces",
			raw:      "Result:\n  ```json  \n{\"x\": 2}\n  ```  \nDone.",
			want:     point{X: 2},
			parsed:   true,
			strategy: "json-fence",
		},
		{
			name:     "whole text",
			raw:      "  {\"x\": 7, \"y\": 8}\n",
			want:     point{7, 8},
			parsed:   true,
			strategy: "whole",
		},
		{
			name:   "empty string",
			raw:    "",
			want:   origin,
			parsed: false,
		},
		{
			name:   "plain prose",
			raw:    "I could not come up with anything useful today.",
			want:   origin,
			parsed: false,
		},
		{
			name:   "malformed json inside fence",
			raw:    "```json\n{\"x\": 1,,}\n```",
			want:   origin,
			parsed: false,
		},
		{
			name:   "valid json failing shape",
			raw:    "```json\n{\"x\": 0, \"y\": 0}\n```",
			want:   origin,
			parsed: false,
		},
		{
			name:   "trailing garbage after whole json",
			raw:    "{\"x\": 1} and more",
			want:   origin,
			parsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.raw, nonZero)
			assert.Equal(t, tt.parsed, res.Parsed)
			assert.Equal(t, tt.want, res.Or(origin))
			assert.Equal(t, tt.want, Extract(tt.raw, origin, nonZero))
			if tt.parsed {
				assert.Equal(t, tt.strategy, res.Strategy)
				assert.NoError(t, res.Err)
			} else {
				assert.Error(t, res.Err)
			}
		})
	}
}

func TestParseEmptyReportsNoCandidate(t *testing.T) {
	res := Parse[point]("   ", nil)
	require.False(t, res.Parsed)
	require.ErrorIs(t, res.Err, ErrNoCandidate)
}

func TestParseRecoversValidatorPanic(t *testing.T) {
	boom := func(point) error { panic("bad validator") }
	got := Extract(`{"x": 1}`, origin, boom)
	require.Equal(t, origin, got)
}

func TestParseWithCustomStrategies(t *testing.T) {
	res := ParseWith([]Strategy{Whole}, "```json\n{\"x\": 1}\n```", nonZero)
	require.False(t, res.Parsed)

	res = ParseWith([]Strategy{JSONFence}, "```json\n{\"x\": 1}\n```", nonZero)
	require.True(t, res.Parsed)
	require.Equal(t, point{X: 1}, res.Value)
}

func TestRecord(t *testing.T) {
	rec := Record("```json\n{\"best_practices\": [\"a\"]}\n```")
	require.True(t, rec.Parsed)
	require.Contains(t, rec.Value, "best_practices")

	for _, raw := range []string{"null", "[1,2]", "\"text\"", "nothing"} {
		assert.False(t, Record(raw).Parsed, raw)
	}
}

func TestPayload(t *testing.T) {
	obj, ok := Payload(json.RawMessage(`{"workflow": []}`))
	require.True(t, ok)
	require.JSONEq(t, `{"workflow": []}`, string(obj))

	wrapped, ok := Payload(json.RawMessage(`"Here:\n` + "```json" + `\n{\"role\": \"SRE\"}\n` + "```" + `"`))
	require.True(t, ok)
	require.JSONEq(t, `{"role": "SRE"}`, string(wrapped))

	for _, raw := range []string{``, `null`, `[1]`, `"no object"`, `42`} {
		_, ok := Payload(json.RawMessage(raw))
		assert.False(t, ok, raw)
	}
}
