package canvas

import (
	"fmt"
	"math"
)

// Properties is the open style/behaviour map carried by each component.
// Known keys for a type are checked by ValidateProperties; anything else is
// passed through untouched.
type Properties map[string]any

// PropertyKind is the value shape expected for a known property key.
type PropertyKind int

const (
	KindString PropertyKind = iota
	KindNumber
	KindBool
	KindStringList
)

func (k PropertyKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindStringList:
		return "string list"
	}
	return "unknown"
}

var commonProperties = map[string]PropertyKind{
	"color":           KindString,
	"backgroundColor": KindString,
	"borderColor":     KindString,
	"borderWidth":     KindNumber,
	"borderRadius":    KindNumber,
	"fontSize":        KindNumber,
	"fontWeight":      KindString,
	"fontFamily":      KindString,
	"opacity":         KindNumber,
}

var typedProperties = map[ComponentType]map[string]PropertyKind{
	TypeCheckbox:  {"checked": KindBool, "label": KindString},
	TypeRadio:     {"checked": KindBool, "label": KindString, "group": KindString},
	TypeSelect:    {"options": KindStringList, "value": KindString},
	TypeInput:     {"placeholder": KindString, "inputType": KindString},
	TypeImage:     {"src": KindString, "alt": KindString},
	TypeTable:     {"rows": KindNumber, "columns": KindNumber, "headers": KindStringList},
	TypeFlowShape: {"shape": KindString},
	TypeHeading:   {"level": KindNumber},
	TypeDivider:   {"orientation": KindString},
}

// KnownProperty returns the expected kind of key for component type t.
func KnownProperty(t ComponentType, key string) (PropertyKind, bool) {
	if k, ok := typedProperties[t][key]; ok {
		return k, true
	}
	k, ok := commonProperties[key]
	return k, ok
}

// PropertyError describes a known key holding a value of the wrong kind.
type PropertyError struct {
	Key  string
	Want PropertyKind
	Got  any
}

func (e PropertyError) Error() string {
	return fmt.Sprintf("property %q: want %s, got %T", e.Key, e.Want, e.Got)
}

// ValidateProperties checks the known keys of props for type t. Unknown keys
// are never reported.
func ValidateProperties(t ComponentType, props Properties) []PropertyError {
	var errs []PropertyError
	for key, v := range props {
		kind, ok := KnownProperty(t, key)
		if !ok {
			continue
		}
		if !kindMatches(kind, v) {
			errs = append(errs, PropertyError{Key: key, Want: kind, Got: v})
		}
	}
	return errs
}

func kindMatches(kind PropertyKind, v any) bool {
	switch kind {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindNumber:
		f, ok := toFloat(v)
		return ok && !math.IsNaN(f) && !math.IsInf(f, 0)
	case KindStringList:
		switch list := v.(type) {
		case []string:
			return true
		case []any:
			for _, item := range list {
				if _, ok := item.(string); !ok {
					return false
				}
			}
			return true
		}
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
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
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// Clone returns a deep copy of the map. Lists and nested maps are copied so
// the clone shares no mutable storage with p. Nil stays nil.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch v := v.(type) {
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = cloneValue(e)
		}
		return out
	case Properties:
		return v.Clone()
	}
	return v
}

// Merge returns a new map holding p overlaid with patch.
func (p Properties) Merge(patch Properties) Properties {
	out := make(Properties, len(p)+len(patch))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

// Text returns the string value of key, or "".
func (p Properties) Text(key string) string {
	s, _ := p[key].(string)
	return s
}

// Number returns the numeric value of key.
func (p Properties) Number(key string) (float64, bool) {
	return toFloat(p[key])
}

// Bool returns the boolean value of key, or false.
func (p Properties) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

// Strings returns the string list stored at key.
func (p Properties) Strings(key string) []string {
	switch list := p[key].(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
