// Package validator accumulates validation failures in the order they are found.
package validator

import (
	"regexp"

	"github.com/dtroode/library-server/internal/model"
)

// EmailRX is a compiled regular expression for basic email validation.
var EmailRX = regexp.MustCompile(`^[a-zA-Z0-9.!#$%&'*+/=?^_{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$`)

// Validator holds field keys and their messages. A Validator without
// entries is considered valid.
type Validator struct {
	keys     map[string]bool
	messages []string
}

// New creates and returns a fresh, empty Validator.
func New() *Validator {
	return &Validator{keys: make(map[string]bool)}
}

// Valid returns true if no failure was recorded.
func (v *Validator) Valid() bool {
	return len(v.messages) == 0
}

// AddError records message for key. Only the first failure for a key is
// kept, except for the "base" key which collects every record-level failure.
func (v *Validator) AddError(key, message string) {
	if key != "base" && v.keys[key] {
		return
	}
	v.keys[key] = true
	v.messages = append(v.messages, message)
}

// Check adds an error for key with message only when ok is false.
//
//	v.Check(len(title) > 0, "title", "Title can't be blank")
func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Messages returns the recorded messages in insertion order.
func (v *Validator) Messages() []string {
	return v.messages
}

// Err returns a *model.ValidationError, or nil when valid.
func (v *Validator) Err() error {
	if v.Valid() {
		return nil
	}
	return model.NewValidationError(v.messages...)
}

// In returns true if value is present in the list slice.
func In(value string, list ...string) bool {
	for _, item := range list {
		if value == item {
			return true
		}
	}
	return false
}

// Matches returns true if value matches the provided compiled regexp.
func Matches(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}
