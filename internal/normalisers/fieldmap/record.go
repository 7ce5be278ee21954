package fieldmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Issues collects validation problems across the mapper families so a
// normalisation pass can report everything wrong at once.
type Issues struct {
	list []string
}

// Addf records one formatted issue.
func (i *Issues) Addf(format string, args ...any) {
	i.list = append(i.list, fmt.Sprintf(format, args...))
}

// Empty reports whether anything was collected.
func (i *Issues) Empty() bool { return len(i.list) == 0 }

// List returns the collected issues in insertion order.
func (i *Issues) List() []string { return i.list }

// StringValue coerces a raw record value to a trimmed string. Maps
// resolve through their "#text" entry. The boolean is false for missing
// values, empty strings, and values with no sensible string form.
func StringValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	case map[string]any:
		if text, ok := t["#text"]; ok {
			return StringValue(text)
		}
		return "", false
	default:
		return "", false
	}
}

// stringList coerces a value into a list of strings: native lists element
// by element, a single string by splitting on commas. Blank elements are
// dropped.
func stringList(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := StringValue(item); ok {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	case string:
		parts := strings.Split(t, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		if s, ok := StringValue(v); ok {
			return []string{s}
		}
		return nil
	}
}

// entryList flattens the single-versus-repeated shape difference: lists
// pass through, anything else becomes a one-element list.
func entryList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{v}
	}
}
