package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Kind discriminates the variants of a field Value.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindNumber
	KindString
	KindBool
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	default:
		return "absent"
	}
}

// Value is a tagged union over the types a logbook field can hold.
// The zero Value is Absent.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	t    time.Time
}

// Absent returns the "no value" variant. It stands in for empty inputs,
// cleared fields and formula results that could not be computed.
func Absent() Value { return Value{} }

// Number wraps a float64.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Time wraps a time.Time.
func Time(t time.Time) Value { return Value{kind: KindTime, t: t} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v holds no value. A string of only whitespace
// counts as absent: operators clear numeric cells by blanking them.
func (v Value) IsAbsent() bool {
	if v.kind == KindAbsent {
		return true
	}
	return v.kind == KindString && strings.TrimSpace(v.str) == ""
}

// AsNumber returns the numeric reading of v. String values are parsed
// strictly; anything else reports false.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsString returns a textual reading of v. Absent reports false.
func (v Value) AsString() (string, bool) {
	switch v.kind {
	case KindString:
		return v.str, true
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64), true
	case KindBool:
		return strconv.FormatBool(v.b), true
	case KindTime:
		return v.t.Format(time.RFC3339), true
	default:
		return "", false
	}
}

// AsBool returns the boolean reading of v, false if v is not a bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// AsTime returns the time reading of v. String values are parsed against
// the layouts a form host is allowed to submit.
func (v Value) AsTime() (time.Time, bool) {
	switch v.kind {
	case KindTime:
		return v.t, true
	case KindString:
		s := strings.TrimSpace(v.str)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Equal reports whether two values hold the same variant and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num
	case KindString:
		return v.str == o.str
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

func (v Value) String() string {
	s, ok := v.AsString()
	if !ok {
		return ""
	}
	return s
}

// MarshalJSON renders Absent as null so a value map round-trips losslessly.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindBool:
		return json.Marshal(v.b)
	case KindTime:
		return json.Marshal(v.t.Format(time.RFC3339))
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the JSON scalar forms a persisted value map can
// contain. Dates arrive as strings; the validator re-parses them on demand.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Absent()
	case float64:
		*v = Number(x)
	case string:
		*v = String(x)
	case bool:
		*v = Bool(x)
	default:
		return fmt.Errorf("schema: value must be a JSON scalar, got %T", raw)
	}
	return nil
}

// ValueMap is the live state of one form session, keyed by field id.
// It is explicitly owned by the caller; nothing in this package keeps a
// process-wide copy.
type ValueMap map[string]Value

// Get returns the value for id, Absent when the key is missing.
func (m ValueMap) Get(id string) Value {
	return m[id]
}

// Set writes v under id.
func (m ValueMap) Set(id string, v Value) {
	m[id] = v
}

// Clone returns a shallow copy of the map.
func (m ValueMap) Clone() ValueMap {
	out := make(ValueMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
