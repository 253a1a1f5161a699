package collection

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Scalar is a free-form field that may arrive as a JSON string or number.
// It is written back in the form it was read, so existing documents keep
// their shape.
type Scalar struct {
	text    string
	numeric bool
}

func Text(s string) Scalar {
	return Scalar{text: s}
}

func Number(n json.Number) Scalar {
	return Scalar{text: n.String(), numeric: true}
}

func (s Scalar) String() string {
	return s.text
}

func (s Scalar) IsZero() bool {
	return s.text == ""
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if s.numeric {
		return []byte(s.text), nil
	}
	return json.Marshal(s.text)
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = Scalar{}
		return nil
	case data[0] == '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*s = Text(text)
		return nil
	}

	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = Number(n)
	return nil
}
