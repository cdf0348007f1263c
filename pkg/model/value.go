package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ValueKind tags the variant stored in a Value.
type ValueKind uint8

const (
	// ValueNone is the zero Value: nothing entered yet.
	ValueNone ValueKind = iota
	ValueText
	ValueBool
	// ValueList is accepted for array-shaped payloads; no field kind produces
	// one today.
	ValueList
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueBool:
		return "bool"
	case ValueList:
		return "list"
	default:
		return "none"
	}
}

// Value is the user input for one field. Construct it with Text, Bool or List;
// the zero Value represents an absent entry.
type Value struct {
	kind  ValueKind
	text  string
	flag  bool
	items []string
}

// Text wraps a textual input (text, textarea, date, email, tel, dropdown, radio).
func Text(s string) Value {
	return Value{kind: ValueText, text: s}
}

// Bool wraps a checkbox state.
func Bool(b bool) Value {
	return Value{kind: ValueBool, flag: b}
}

// List wraps an array-shaped input.
func List(items ...string) Value {
	return Value{kind: ValueList, items: append([]string(nil), items...)}
}

// Kind reports the variant held by v.
func (v Value) Kind() ValueKind {
	return v.kind
}

// Text returns the textual payload and whether v is a text value.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == ValueText
}

// Bool returns the checkbox payload and whether v is a boolean value.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == ValueBool
}

// Items returns a copy of the list payload and whether v is a list value.
func (v Value) Items() ([]string, bool) {
	if v.kind != ValueList {
		return nil, false
	}
	return append([]string(nil), v.items...), true
}

// IsEmpty reports whether v counts as "not provided": absent, an empty string
// or an empty list. A false checkbox is a provided value.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case ValueText:
		return v.text == ""
	case ValueList:
		return len(v.items) == 0
	case ValueBool:
		return false
	default:
		return true
	}
}

// String renders v for display.
func (v Value) String() string {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueBool:
		return fmt.Sprint(v.flag)
	case ValueList:
		return fmt.Sprint(v.items)
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value (string, bool, []string or
// nil), which is what templates and JSON encoders expect.
func (v Value) Interface() any {
	switch v.kind {
	case ValueText:
		return v.text
	case ValueBool:
		return v.flag
	case ValueList:
		return append([]string(nil), v.items...)
	default:
		return nil
	}
}

// Equal compares kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind || v.text != other.text || v.flag != other.flag {
		return false
	}
	if len(v.items) != len(other.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the payload as a JSON string, boolean, array or null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

var errUnsupportedValue = errors.New("model: value must be a string, boolean or array of strings")

// UnmarshalJSON accepts a JSON string, boolean, array of strings or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decoded, err := ValueOf(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

// ValueOf converts a decoded JSON/YAML scalar into a Value.
func ValueOf(raw any) (Value, error) {
	switch typed := raw.(type) {
	case nil:
		return Value{}, nil
	case Value:
		return typed, nil
	case string:
		return Text(typed), nil
	case bool:
		return Bool(typed), nil
	case []string:
		return List(typed...), nil
	case []any:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			s, ok := item.(string)
			if !ok {
				return Value{}, errUnsupportedValue
			}
			items = append(items, s)
		}
		return List(items...), nil
	default:
		return Value{}, errUnsupportedValue
	}
}

// Values holds the current input keyed by field id.
type Values map[string]Value

// Clone returns a shallow copy; Value payloads are immutable.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Get returns the value for id; absent ids yield the zero Value.
func (v Values) Get(id string) Value {
	if v == nil {
		return Value{}
	}
	return v[id]
}

// Plain converts the map into map[string]any for serialisation and templates.
func (v Values) Plain() map[string]any {
	out := make(map[string]any, len(v))
	for k, val := range v {
		out[k] = val.Interface()
	}
	return out
}
