package validator

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

// asString returns the value when it is a string (or a named string type).
// Nothing is coerced: rules that are string-only must reject numbers.
func asString(value any) (string, bool) {
	if s, ok := value.(string); ok {
		return s, true
	}
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

// asText returns the textual form a pattern is tested against.
// Strings pass through and numbers are rendered in decimal notation;
// every other type has no textual form.
func asText(value any) (string, bool) {
	if s, ok := asString(value); ok {
		return s, true
	}
	if n, ok := value.(json.Number); ok {
		return n.String(), true
	}
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

// asNumber reports the numeric magnitude of a Go number or json.Number.
// Numeric strings are not numbers.
func asNumber(value any) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		return f, err == nil
	}
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// isIntegral reports whether value is a number with no fractional part.
func isIntegral(value any) bool {
	if n, ok := value.(json.Number); ok {
		if _, err := n.Int64(); err == nil {
			return true
		}
	}
	if value != nil {
		switch reflect.ValueOf(value).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
			return true
		}
	}
	f, ok := asNumber(value)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return false
	}
	return f == math.Trunc(f)
}

// asBound reads a rule parameter used as a numeric limit. Unlike values
// under test, limits read from rule files may arrive as numeric strings.
func asBound(param any) (float64, bool) {
	if f, ok := asNumber(param); ok {
		return f, !math.IsNaN(f)
	}
	if s, ok := asString(param); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return 0, false
}

// asList unwraps a parameter holding a list of any element type.
func asList(param any) ([]any, bool) {
	switch v := param.(type) {
	case []any:
		return v, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(param)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// charCount counts characters, not bytes.
func charCount(s string) int {
	return utf8.RuneCountInString(s)
}
