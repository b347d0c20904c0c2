package service

import (
	"errors"
	"unicode"
)

const minPasswordLength = 8

var (
	ErrPasswordTooShort = errors.New("auth: password must be at least 8 characters")
	ErrPasswordNoUpper  = errors.New("auth: password needs an uppercase letter")
	ErrPasswordNoLower  = errors.New("auth: password needs a lowercase letter")
	ErrPasswordNoDigit  = errors.New("auth: password needs a number")
	ErrPasswordMismatch = errors.New("auth: passwords do not match")
)

// PasswordRule is one requirement shown on the registration form.
type PasswordRule struct {
	Text string `json:"text"`
	Met  bool   `json:"met"`
}

// PasswordChecklist evaluates every rule so the form can show progress.
func PasswordChecklist(password string) []PasswordRule {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return []PasswordRule{
		{Text: "At least 8 characters", Met: len([]rune(password)) >= minPasswordLength},
		{Text: "One uppercase letter", Met: upper},
		{Text: "One lowercase letter", Met: lower},
		{Text: "One number", Met: digit},
	}
}

// ValidatePassword returns the first unmet rule, then checks the confirmation.
func ValidatePassword(password, confirm string) error {
	errs := []error{ErrPasswordTooShort, ErrPasswordNoUpper, ErrPasswordNoLower, ErrPasswordNoDigit}
	for i, rule := range PasswordChecklist(password) {
		if !rule.Met {
			return errs[i]
		}
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
