// Package validation maps a field definition and a candidate value to the
// ordered list of human-readable failures, and aggregates those lists into a
// form-level verdict. Every function here is pure.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-formkit/pkg/model"
)

// Default messages used when a rule carries no errorMessage.
const (
	MsgRequired      = "This field is required"
	MsgOnlyNumbers   = "Only numbers are allowed"
	MsgMinLength     = "Minimum length is %s"
	MsgMaxLength     = "Maximum length is %s"
	MsgInvalidEmail  = "Invalid email address"
	MsgPasswordRules = "Password must be at least 8 characters, include uppercase, lowercase, number, and special character"
)

// PasswordSymbols is the punctuation set that satisfies the symbol class of
// the passwordRule.
const PasswordSymbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

const passwordMinLength = 8

var (
	digitsPattern = regexp.MustCompile(`^\d+$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)
)

// Errors maps field ids to their ordered failure messages. Only fields with at
// least one failure have an entry.
type Errors map[string][]string

// Clone returns a deep copy.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for id, messages := range e {
		out[id] = append([]string(nil), messages...)
	}
	return out
}

// Validate runs every applicable rule of field against value and returns all
// failures in rule order: presence, numeric shape, minLength, maxLength,
// email, passwordRule. Rules never short-circuit each other.
func Validate(field model.Field, value model.Value) []string {
	var failures []string
	for _, check := range checks {
		if message, failed := check(field, value); failed {
			failures = append(failures, message)
		}
	}
	return failures
}

type ruleCheck func(field model.Field, value model.Value) (string, bool)

var checks = []ruleCheck{
	checkPresence,
	checkNumeric,
	checkMinLength,
	checkMaxLength,
	checkEmail,
	checkPassword,
}

func checkPresence(field model.Field, value model.Value) (string, bool) {
	if !field.MustBeFilled() || !value.IsEmpty() {
		return "", false
	}
	if rule := field.Validations.NotEmpty; rule != nil {
		return rule.Message(MsgRequired), true
	}
	return MsgRequired, true
}

func checkNumeric(field model.Field, value model.Value) (string, bool) {
	if field.Type != model.FieldTypeNumber || value.IsEmpty() {
		return "", false
	}
	if IsDigits(value) {
		return "", false
	}
	return MsgOnlyNumbers, true
}

func checkMinLength(field model.Field, value model.Value) (string, bool) {
	rule := field.Validations.MinLength
	if rule == nil {
		return "", false
	}
	limit, ok := rule.Int()
	if !ok {
		return "", false
	}
	length, ok := value.Len()
	if !ok || length >= limit {
		return "", false
	}
	return rule.Message(fmt.Sprintf(MsgMinLength, rule.Value)), true
}

func checkMaxLength(field model.Field, value model.Value) (string, bool) {
	rule := field.Validations.MaxLength
	if rule == nil {
		return "", false
	}
	limit, ok := rule.Int()
	if !ok {
		return "", false
	}
	length, ok := value.Len()
	if !ok || length <= limit {
		return "", false
	}
	return rule.Message(fmt.Sprintf(MsgMaxLength, rule.Value)), true
}

func checkEmail(field model.Field, value model.Value) (string, bool) {
	rule := field.Validations.Email
	if rule == nil || value.IsEmpty() {
		return "", false
	}
	if emailPattern.MatchString(value.String()) {
		return "", false
	}
	return rule.Message(MsgInvalidEmail), true
}

func checkPassword(field model.Field, value model.Value) (string, bool) {
	rule := field.Validations.PasswordRule
	if rule == nil || value.IsEmpty() {
		return "", false
	}
	if StrongPassword(value.String()) {
		return "", false
	}
	return rule.Message(MsgPasswordRules), true
}

// IsDigits reports whether the value's text form is a non-empty run of ASCII
// digits. Signs and decimal points are rejected.
func IsDigits(value model.Value) bool {
	return digitsPattern.MatchString(value.String())
}

// StrongPassword reports whether s has at least eight characters including a
// lowercase letter, an uppercase letter, a digit and one of PasswordSymbols.
func StrongPassword(s string) bool {
	if utf8.RuneCountInString(s) < passwordMinLength {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case unicode.IsDigit(r) && r < utf8.RuneSelf:
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}
