package validator

import (
	"regexp"
	"strings"
	"time"
)

var (
	isoDateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	time24Regex  = regexp.MustCompile(`^(?:[01][0-9]|2[0-3]):[0-5][0-9](?::[0-5][0-9])?$`)
	time12Regex  = regexp.MustCompile(`(?i)^(?:0?[1-9]|1[0-2]):[0-5][0-9](?::[0-5][0-9])? ?[AP]M$`)
)

// dateWindowYears is the span of accepted birth/event years ending at the
// current year.
const dateWindowYears = 100

// isDateWithin accepts a YYYY-MM-DD calendar date whose year lies in
// (now.Year()-100, now.Year()]. Impossible dates such as 2023-02-30 fail.
func isDateWithin(value any, now time.Time) bool {
	s, ok := asString(value)
	if !ok || !isoDateRegex.MatchString(s) {
		return false
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return false
	}
	year := now.Year()
	return t.Year() > year-dateWindowYears && t.Year() <= year
}

// isTime24 accepts HH:MM or HH:MM:SS on a 24-hour clock.
func isTime24(value any) bool {
	s, ok := asString(value)
	return ok && time24Regex.MatchString(strings.TrimSpace(s))
}

// isTime12 accepts h:MM or hh:MM[:SS] followed by AM or PM.
func isTime12(value any) bool {
	s, ok := asString(value)
	return ok && time12Regex.MatchString(strings.TrimSpace(s))
}
