package service

import (
	"errors"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		confirm  string
		want     error
	}{
		{"Ab1", "Ab1", ErrPasswordTooShort},
		{"abcdefg1", "abcdefg1", ErrPasswordNoUpper},
		{"ABCDEFG1", "ABCDEFG1", ErrPasswordNoLower},
		{"Abcdefgh", "Abcdefgh", ErrPasswordNoDigit},
		{"Abcdefg1", "Abcdefg2", ErrPasswordMismatch},
		{"Abcdefg1", "Abcdefg1", nil},
	}
	for _, tc := range cases {
		if err := ValidatePassword(tc.password, tc.confirm); !errors.Is(err, tc.want) {
			t.Fatalf("ValidatePassword(%q, %q) = %v, want %v", tc.password, tc.confirm, err, tc.want)
		}
	}
}

func TestPasswordChecklist(t *testing.T) {
	rules := PasswordChecklist("abc1")
	if len(rules) != 4 {
		t.Fatalf("expected 4 rules, got %d", len(rules))
	}
	met := []bool{false, false, true, true}
	for i, r := range rules {
		if r.Met != met[i] {
			t.Fatalf("rule %q met=%v, want %v", r.Text, r.Met, met[i])
		}
	}
}
