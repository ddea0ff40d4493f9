package platforms

import (
	"bytes"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// FlexNumber decodes a JSON number, a numeric string, or null. Upstream
// payloads mix all three: Polymarket ships volume as a string, Kalshi ships
// prices as nullable integers.
type FlexNumber struct {
	Value float64
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	n.Value = 0
	n.Valid = false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil // tolerate non-numeric strings
		}
		n.Value = v
		n.Valid = true
		return nil
	}

	var v float64
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	n.Value = v
	n.Valid = true
	return nil
}

// Or returns the decoded value, or fallback when the field was null/absent.
func (n FlexNumber) Or(fallback float64) float64 {
	if n.Valid {
		return n.Value
	}
	return fallback
}

// Ptr returns the value as an optional, nil when null/absent.
func (n FlexNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}

// FlexTime decodes an ISO 8601 string with timezone or a millisecond-epoch
// integer into a UTC instant.
type FlexTime struct {
	Time  time.Time
	Valid bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexTime) UnmarshalJSON(data []byte) error {
	t.Time = time.Time{}
	t.Valid = false

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}
		if s == "" {
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil // tolerate unparseable timestamps
		}
		t.Time = parsed.UTC()
		t.Valid = true
		return nil
	}

	var ms int64
	err := json.Unmarshal(data, &ms)
	if err != nil {
		return err
	}
	t.Time = time.UnixMilli(ms).UTC()
	t.Valid = true
	return nil
}

// Ptr returns the instant as an optional, nil when null/absent.
func (t FlexTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// epochMillis converts a millisecond epoch to a UTC instant.
func epochMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// stringList decodes a JSON array of strings, or a JSON string that itself
// contains an encoded array (Polymarket ships outcomes both ways).
type stringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *stringList) UnmarshalJSON(data []byte) error {
	*l = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var inner string
		err := json.Unmarshal(data, &inner)
		if err != nil {
			return err
		}
		if inner == "" {
			return nil
		}
		data = []byte(inner)
	}

	var items []string
	err := json.Unmarshal(data, &items)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

// floatList decodes a JSON array of numbers or numeric strings, or a JSON
// string containing an encoded array of either.
type floatList []float64

// UnmarshalJSON implements json.Unmarshaler.
func (l *floatList) UnmarshalJSON(data []byte) error {
	*l = nil

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var inner string
		err := json.Unmarshal(data, &inner)
		if err != nil {
			return err
		}
		if inner == "" {
			return nil
		}
		data = []byte(inner)
	}

	var items []FlexNumber
	err := json.Unmarshal(data, &items)
	if err != nil {
		return err
	}

	values := make([]float64, 0, len(items))
	for _, item := range items {
		values = append(values, item.Or(0))
	}
	*l = values
	return nil
}

// rawToString stringifies a JSON value of unknown type. Metaculus's
// resolution field arrives as a number, a string, or null; all forms keep
// their observed text. Returns nil for null/absent.
func rawToString(raw json.RawMessage) *string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil
		}
		return &s
	}

	s := string(raw)
	return &s
}
