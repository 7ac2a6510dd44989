// Package validate implements input validation for the authentication
// endpoints, including the password-strength policy applied at
// registration.
package validate

import (
	"errors"
	"strings"
	"unicode"
)

// minPasswordLength mirrors the upstream policy of eight characters.
const minPasswordLength = 8

// commonPasswords is a short deny-list of passwords seen constantly in
// credential dumps. A real deployment would load a larger list; these
// cover the worst offenders.
var commonPasswords = map[string]struct{}{
	"password":  {},
	"password1": {},
	"12345678":  {},
	"123456789": {},
	"qwerty123": {},
	"iloveyou":  {},
	"letmein12": {},
	"admin123":  {},
}

// PasswordStrength checks a plaintext password against the strength
// policy and returns the list of reasons it fails. An empty slice
// means the password is acceptable.
func PasswordStrength(pw string) []string {
	var reasons []string
	if len(pw) < minPasswordLength {
		reasons = append(reasons, "password must be at least 8 characters long")
	}
	if pw != "" && isEntirelyNumeric(pw) {
		reasons = append(reasons, "password cannot be entirely numeric")
	}
	if _, ok := commonPasswords[strings.ToLower(pw)]; ok {
		reasons = append(reasons, "password is too common")
	}
	return reasons
}

// StrongPassword adapts PasswordStrength to ozzo-validation's
// validation.By signature. All failure reasons are joined into a
// single field error.
func StrongPassword(value interface{}) error {
	pw, _ := value.(string)
	if reasons := PasswordStrength(pw); len(reasons) > 0 {
		return errors.New(strings.Join(reasons, "; "))
	}
	return nil
}

// StringEquals returns an ozzo-validation rule asserting the value
// equals want. Used to match password and password_confirmation.
func StringEquals(want, msg string) func(interface{}) error {
	return func(value interface{}) error {
		got, _ := value.(string)
		if got != want {
			return errors.New(msg)
		}
		return nil
	}
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
