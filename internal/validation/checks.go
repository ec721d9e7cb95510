package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9\-]+(\.[A-Za-z0-9\-]+)*\.[A-Za-z]{2,}$`)

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// Required fails when the field is absent or blank.
func Required(value string, present bool) bool {
	return present && strings.TrimSpace(value) != ""
}

// NotEmpty fails when the field is blank. Wrap it in Optional for patch
// routes so that an absent field passes.
func NotEmpty(value string, _ bool) bool {
	return strings.TrimSpace(value) != ""
}

// Optional passes when the field is absent and otherwise defers to c.
func Optional(c Check) Check {
	return func(value string, present bool) bool {
		if !present {
			return true
		}
		return c(value, present)
	}
}

// Email fails when the value is not an email address.
func Email(value string, _ bool) bool {
	return IsEmail(value)
}

// Numeric fails when the value is not a finite number.
func Numeric(value string, _ bool) bool {
	_, err := ParseNumber(value)
	return err == nil
}

// NonNegative fails when the value is not a number >= 0.
func NonNegative(value string, _ bool) bool {
	n, err := ParseNumber(value)
	return err == nil && n >= 0
}

// ISODate fails when the value is not an ISO-8601 date or date-time.
func ISODate(value string, _ bool) bool {
	_, err := ParseDate(value)
	return err == nil
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int) Check {
	return func(value string, _ bool) bool {
		return utf8.RuneCountInString(value) >= n
	}
}

// IsEmail reports whether s looks like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ParseNumber parses a finite decimal number.
func ParseNumber(s string) (float64, error) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return n, nil
}

// ParseDate parses an ISO-8601 date or date-time and truncates it to the
// calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			t = t.UTC()
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %q", s)
}
