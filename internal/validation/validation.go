// Package validation evaluates ordered per-field rules and reports failures
// in declaration order. Callers surface the first failure only.
package validation

import "strings"

// Fields holds the submitted request fields. A missing key means the field
// was not submitted at all.
type Fields map[string]string

// Get returns the value of the field and whether it was submitted.
func (f Fields) Get(name string) (string, bool) {
	v, ok := f[name]
	return v, ok
}

// Has reports whether the field was submitted.
func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

// Check reports whether a field value satisfies a rule.
type Check func(value string, present bool) bool

// Rule ties a check to the field it applies to and the message reported
// when the check fails.
type Rule struct {
	Field   string
	Check   Check
	Message string
}

// Sanitizer rewrites a submitted field before rules run.
type Sanitizer struct {
	Field string
	Apply func(string) string
}

// Set is a route's sanitizers and ordered rules.
type Set struct {
	Sanitizers []Sanitizer
	Rules      []Rule
}

// Run sanitizes fields in place and validates them against the rules.
func (s Set) Run(fields Fields) error {
	for _, sn := range s.Sanitizers {
		if v, ok := fields[sn.Field]; ok {
			fields[sn.Field] = sn.Apply(v)
		}
	}
	return Validate(fields, s.Rules)
}

// Validate evaluates every rule in order. Once a field has failed, its
// remaining rules are skipped. It returns nil or an *Error.
func Validate(fields Fields, rules []Rule) error {
	var verr Error
	failed := make(map[string]bool)

	for _, r := range rules {
		if failed[r.Field] {
			continue
		}
		v, ok := fields.Get(r.Field)
		if !r.Check(v, ok) {
			failed[r.Field] = true
			verr.Add(r.Field, r.Message)
		}
	}

	if !verr.HasErrors() {
		return nil
	}
	return &verr
}

// FieldError is a single failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Error collects failed rules in declaration order.
type Error struct {
	Failures []FieldError
}

// Error implements the error interface with the first failure message.
func (e *Error) Error() string {
	return e.First()
}

// First returns the message of the first failure.
func (e *Error) First() string {
	if e == nil || len(e.Failures) == 0 {
		return "validation failed"
	}
	return e.Failures[0].Message
}

// HasErrors reports whether any rule failed.
func (e *Error) HasErrors() bool {
	return e != nil && len(e.Failures) > 0
}

// Add records a failure for field.
func (e *Error) Add(field, message string) {
	e.Failures = append(e.Failures, FieldError{Field: field, Message: message})
}

// Trim removes leading and trailing white space.
func Trim(s string) string {
	return strings.TrimSpace(s)
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
