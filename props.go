package glubsite

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lemmi/glubsite/backend"
)

// Props is the untyped field bag of a section. Every accessor tolerates
// missing keys, nil values and mismatched types.
type Props map[string]any

func asProps(v any) (Props, bool) {
	switch m := v.(type) {
	case Props:
		return m, m != nil
	case map[string]any:
		return Props(m), m != nil
	case backend.Document:
		return Props(m), m != nil
	}
	return nil, false
}

// Clone returns a shallow copy.
func (p Props) Clone() Props {
	c := make(Props, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Has reports whether key is present and non-nil.
func (p Props) Has(key string) bool {
	v, ok := p[key]
	return ok && v != nil
}

// String returns the string at key. Numbers are formatted, anything else
// yields "".
func (p Props) String(key string) string {
	switch v := p[key].(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	}
	return ""
}

// Enum returns the string at key if it is one of allowed, def otherwise.
func (p Props) Enum(key, def string, allowed ...string) string {
	s := strings.TrimSpace(p.String(key))
	for _, a := range allowed {
		if s == a {
			return s
		}
	}
	return def
}

// Bool returns the bool at key or def.
func (p Props) Bool(key string, def bool) bool {
	if b, ok := p[key].(bool); ok {
		return b
	}
	return def
}

// Float returns the number at key or def.
func (p Props) Float(key string, def float64) float64 {
	switch v := p[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return def
}

// Map returns the nested object at key, or nil.
func (p Props) Map(key string) Props {
	m, _ := asProps(p[key])
	return m
}

// List returns the nested objects at key. Non-object entries are skipped.
func (p Props) List(key string) []Props {
	var out []Props
	switch l := p[key].(type) {
	case []any:
		for _, v := range l {
			if m, ok := asProps(v); ok {
				out = append(out, m)
			}
		}
	case []map[string]any:
		for _, v := range l {
			if v != nil {
				out = append(out, Props(v))
			}
		}
	case []Props:
		for _, v := range l {
			if v != nil {
				out = append(out, v)
			}
		}
	}
	return out
}
