package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Truthy is a boolean flag decoded leniently from JSON or form text.
// false, 0, "", null and an absent field decode to false; any other
// JSON value decodes to true. Form text also treats "false", "0",
// "off" and "no" as false.
type Truthy bool

// UnmarshalJSON implements json.Unmarshaler.
func (t *Truthy) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")), bytes.Equal(data, []byte("false")):
		*t = false
	case bytes.Equal(data, []byte("true")):
		*t = true
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = s != ""
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*t = f != 0
	default:
		// objects and arrays
		*t = true
	}
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler for form decoding.
func (t *Truthy) UnmarshalText(text []byte) error {
	*t = Truthy(ParseTruthy(string(text)))
	return nil
}

// ParseTruthy reports whether a form value counts as set.
func ParseTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "false", "0", "off", "no":
		return false
	default:
		return true
	}
}
