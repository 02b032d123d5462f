package unwrap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Kind identifies the concrete type stored in a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindObject
	KindArray
)

// Value represents an arbitrary JSON value without using empty interfaces.
type Value struct {
	Kind   Kind
	String string
	Number float64
	Bool   bool
	Object map[string]Value
	Array  []Value
}

// Parse decodes text into a Value, rejecting empty or trailing input.
func Parse(text string) (Value, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Value{}, fmt.Errorf("empty value")
	}
	var v Value
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		return Value{}, err
	}
	return v, nil
}

// UnmarshalJSON decodes a JSON value into the typed Value representation.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty json value")
	}
	switch trimmed[0] {
	case '{':
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		v.Kind = KindObject
		v.Object = make(map[string]Value, len(raw))
		for key, value := range raw {
			var child Value
			if err := json.Unmarshal(value, &child); err != nil {
				return err
			}
			v.Object[key] = child
		}
		return nil
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return err
		}
		v.Kind = KindArray
		v.Array = make([]Value, 0, len(raw))
		for _, value := range raw {
			var child Value
			if err := json.Unmarshal(value, &child); err != nil {
				return err
			}
			v.Array = append(v.Array, child)
		}
		return nil
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		v.Kind = KindString
		v.String = value
		return nil
	case 't', 'f':
		var value bool
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		v.Kind = KindBool
		v.Bool = value
		return nil
	case 'n':
		if string(trimmed) != "null" {
			return fmt.Errorf("invalid json literal")
		}
		v.Kind = KindNull
		return nil
	default:
		var value float64
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		v.Kind = KindNumber
		v.Number = value
		return nil
	}
}

// ObjectValue returns the object map when the value is an object.
func (v Value) ObjectValue() (map[string]Value, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.Object, true
}

// ArrayValue returns the array slice when the value is an array.
func (v Value) ArrayValue() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.Array, true
}

// StringValue returns the string when the value is a string.
func (v Value) StringValue() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.String, true
}

// NumberValue returns the number when the value is numeric.
func (v Value) NumberValue() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Number, true
}

// BoolValue returns the boolean when the value is a bool.
func (v Value) BoolValue() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

// ToInterface converts the Value into standard Go JSON types.
func (v Value) ToInterface() interface{} {
	switch v.Kind {
	case KindObject:
		out := make(map[string]interface{}, len(v.Object))
		for key, value := range v.Object {
			out[key] = value.ToInterface()
		}
		return out
	case KindArray:
		out := make([]interface{}, 0, len(v.Array))
		for _, value := range v.Array {
			out = append(out, value.ToInterface())
		}
		return out
	case KindString:
		return v.String
	case KindNumber:
		return v.Number
	case KindBool:
		return v.Bool
	case KindNull:
		return nil
	default:
		return nil
	}
}

// JSON renders the value as compact JSON with sorted object keys.
func (v Value) JSON() string {
	data, err := json.Marshal(v.ToInterface())
	if err != nil {
		return ""
	}
	return string(data)
}
