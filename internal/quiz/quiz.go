package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var nullJSON = []byte("null")

// Data is a quiz document kept as compact JSON. The zero value is the JSON null.
type Data struct {
	raw json.RawMessage
}

func Parse(input []byte) (Data, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, bytes.TrimSpace(input)); err != nil {
		return Data{}, fmt.Errorf("parse quiz: %w", err)
	}
	if buf.Len() == 0 {
		return Data{}, fmt.Errorf("parse quiz: empty document")
	}
	if bytes.Equal(buf.Bytes(), nullJSON) {
		return Data{}, nil
	}

	return Data{raw: buf.Bytes()}, nil
}

func (d Data) IsNull() bool {
	return len(d.raw) == 0
}

func (d Data) Raw() json.RawMessage {
	if d.IsNull() {
		return json.RawMessage(nullJSON)
	}
	return d.raw
}

func (d Data) String() string {
	return string(d.Raw())
}

func (d Data) MarshalJSON() ([]byte, error) {
	return d.Raw(), nil
}

// QuestionCount looks for a question list under the keys quiz files use in practice.
// Anything else reports zero.
func (d Data) QuestionCount() int {
	if d.IsNull() {
		return 0
	}

	var list []json.RawMessage
	if err := json.Unmarshal(d.raw, &list); err == nil {
		return len(list)
	}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(d.raw, &object); err != nil {
		return 0
	}
	for _, key := range []string{"questions", "q"} {
		entry, ok := object[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(entry, &list); err == nil {
			return len(list)
		}
	}

	return 0
}
