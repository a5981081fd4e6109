package validator

import (
	"errors"
	"math"
	"regexp"
	"strconv"
)

var (
	alphaRegex        = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	// leadingFloatRegex matches the longest numeric prefix a lenient float
	// parser would consume, e.g. "3.5" out of "3.5kg".
	leadingFloatRegex = regexp.MustCompile(`^[+-]?(?:Infinity|(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)`)
)

func isAlpha(value any) bool {
	s, ok := asString(value)
	return ok && alphaRegex.MatchString(s)
}

func isAlphaNum(value any) bool {
	s, ok := asString(value)
	return ok && alphanumericRegex.MatchString(s)
}

// isNumeric is a type check: numeric strings are not numbers.
func isNumeric(value any) bool {
	_, ok := asNumber(value)
	return ok
}

func isInteger(value any) bool {
	return isIntegral(value)
}

// isDecimal accepts numbers other than NaN, and text whose leading portion
// reads as a number ("3.5kg" passes, "kg3" does not).
func isDecimal(value any) bool {
	if f, ok := asNumber(value); ok {
		return !math.IsNaN(f)
	}
	s, ok := asString(value)
	if !ok {
		return false
	}
	prefix := leadingFloatRegex.FindString(trimLeftSpace(s))
	if prefix == "" {
		return false
	}
	switch prefix {
	case "Infinity", "+Infinity", "-Infinity":
		return true
	}
	_, err := strconv.ParseFloat(prefix, 64)
	return err == nil || isRangeError(err)
}

func isPresent(value any) bool {
	s, ok := asString(value)
	return ok && s != ""
}

func trimLeftSpace(s string) string {
	for i, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f', '\u00a0', '\ufeff':
			continue
		}
		return s[i:]
	}
	return ""
}

// isRangeError reports overflow, which still denotes a number (±Inf).
func isRangeError(err error) bool {
	return errors.Is(err, strconv.ErrRange)
}
