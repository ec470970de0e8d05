package extract

import (
	"encoding/json"
	"errors"
)

// ErrNotObject rejects JSON values that are not objects.
var ErrNotObject = errors.New("extract: not a JSON object")

// Record extracts a free-form JSON object.
func Record(raw string) Result[map[string]any] {
	return Parse(raw, func(m map[string]any) error {
		if m == nil {
			return ErrNotObject
		}
		return nil
	})
}

// Payload normalizes a backend data field that may hold either an object
// or a JSON string wrapping one (optionally fenced). It returns the object
// bytes, or false when neither form yields an object.
func Payload(data json.RawMessage) (json.RawMessage, bool) {
	if len(data) == 0 {
		return nil, false
	}
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		rec := Record(text)
		if !rec.Parsed {
			return nil, false
		}
		b, err := json.Marshal(rec.Value)
		if err != nil {
			return nil, false
		}
		return b, true
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
		return nil, false
	}
	return data, true
}
