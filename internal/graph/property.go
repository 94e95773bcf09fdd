package graph

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Property holds a single typed attribute value.
type Property struct {
	value any
}

// NewProperty wraps v in a Property.
func NewProperty(v any) Property {
	return Property{value: v}
}

// Get returns the wrapped value.
func (p Property) Get() any {
	return p.value
}

// Set replaces the wrapped value.
func (p *Property) Set(v any) {
	p.value = v
}

// Equal reports whether other is a Property (or *Property) wrapping an equal value.
// Numbers compare by numeric value so that 90 matches 90.0; two integers
// compare exactly. Values of different types are never equal; slices and maps
// compare deeply.
func (p Property) Equal(other any) bool {
	var o Property
	switch v := other.(type) {
	case Property:
		o = v
	case *Property:
		if v == nil {
			return false
		}
		o = *v
	default:
		return false
	}
	return valuesEqual(p.value, o.value)
}

func (p Property) String() string {
	return fmt.Sprint(p.value)
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if ia, ok := toInt(a); ok {
		if ib, ok := toInt(b); ok {
			return ia == ib
		}
	}
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func toInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Properties is a node attribute dictionary. Absence of a key means "no such property".
type Properties map[string]Property

// PropertiesOf builds a Properties dictionary from plain values. Decoded
// json.Number values become int64 when integral, float64 otherwise.
func PropertiesOf(values map[string]any) Properties {
	props := make(Properties, len(values))
	for k, v := range values {
		props[k] = NewProperty(plainValue(v))
	}
	return props
}

func plainValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = plainValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = plainValue(e)
		}
		return out
	}
	return v
}

// Clone returns a shallow copy; a nil receiver yields an empty dictionary.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// IsSubsetOf reports whether every key of p exists in other with an equal value.
func (p Properties) IsSubsetOf(other Properties) bool {
	for k, v := range p {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Values unwraps the dictionary into plain values, as written to documents.
func (p Properties) Values() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v.value
	}
	return out
}

// ParseValue converts command-line text into a bool, a number or a string.
func ParseValue(s string) any {
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// ParseFloat also accepts "nan" and "inf", which are names here.
	if strings.ContainsAny(s, "0123456789") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return s
}

// ParseProperties parses "key:value" arguments. Values are split on the first colon.
func ParseProperties(args []string) (Properties, error) {
	props := make(Properties, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, ":")
		if !ok || key == "" {
			return nil, fmt.Errorf("bad property argument %q, expected key:value", arg)
		}
		props[key] = NewProperty(ParseValue(value))
	}
	return props, nil
}
