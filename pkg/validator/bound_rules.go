package validator

import (
	"math"
	"reflect"
)

func minLength(value any, params any) (bool, error) {
	limit, ok := asBound(params)
	if !ok {
		return false, ErrInvalidParams
	}
	s, ok := asString(value)
	return ok && float64(charCount(s)) >= limit, nil
}

func maxLength(value any, params any) (bool, error) {
	limit, ok := asBound(params)
	if !ok {
		return false, ErrInvalidParams
	}
	s, ok := asString(value)
	return ok && float64(charCount(s)) <= limit, nil
}

func minValue(value any, params any) (bool, error) {
	limit, ok := asBound(params)
	if !ok {
		return false, ErrInvalidParams
	}
	n, ok := asNumber(value)
	return ok && n >= limit, nil
}

func maxValue(value any, params any) (bool, error) {
	limit, ok := asBound(params)
	if !ok {
		return false, ErrInvalidParams
	}
	n, ok := asNumber(value)
	return ok && n <= limit, nil
}

// between requires params shaped as [min, max], both inclusive.
func between(value any, params any) (bool, error) {
	lo, hi, ok := boundPair(params)
	if !ok {
		return false, ErrInvalidParams
	}
	n, ok := asNumber(value)
	return ok && n >= lo && n <= hi, nil
}

func boundPair(params any) (float64, float64, bool) {
	items, ok := asList(params)
	if !ok || len(items) != 2 {
		return 0, 0, false
	}
	lo, ok := asBound(items[0])
	if !ok {
		return 0, 0, false
	}
	hi, ok := asBound(items[1])
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// sameAs is strict equality: no string/number coercion. Numbers of different
// Go types compare by value; everything else compares structurally.
func sameAs(value any, other any) bool {
	if a, ok := asNumber(value); ok {
		b, ok := asNumber(other)
		return ok && a == b && !math.IsNaN(a)
	}
	return reflect.DeepEqual(value, other)
}
