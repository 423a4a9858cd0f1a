package server

import "testing"

func TestNormalizePhoneNumber(t *testing.T) {
	cases := map[string]string{
		"0912345670":       "+218912345670",
		"091 234 5670":     "+218912345670",
		"+218912345670":    "+218912345670",
		"218912345670":     "+218912345670",
		"00218912345670":   "+218912345670",
		"+20 100 123 4567": "+201001234567",
	}
	for raw, want := range cases {
		if got := NormalizePhoneNumber(raw); got != want {
			t.Errorf("NormalizePhoneNumber(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestIsValidPhoneNumber(t *testing.T) {
	valid := []string{"0912345670", "+218912345670", "+966501234567"}
	for _, phone := range valid {
		if !IsValidPhoneNumber(phone) {
			t.Errorf("IsValidPhoneNumber(%q) = false, want true", phone)
		}
	}

	invalid := []string{"", "123", "+7 912 345 6789", "+218912345678"}
	for _, phone := range invalid {
		if IsValidPhoneNumber(phone) {
			t.Errorf("IsValidPhoneNumber(%q) = true, want false", phone)
		}
	}
}

func TestFormatPhoneNumber(t *testing.T) {
	if got := FormatPhoneNumber("+218912345670"); got != "+218 91 234-5670" {
		t.Errorf("FormatPhoneNumber = %q", got)
	}
	if got := FormatPhoneNumber("+11234567890"); got != "+11234567890" {
		t.Errorf("Unknown formats pass through, got %q", got)
	}
}
