package server

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePhoneNumber strips formatting and puts Libyan numbers into
// the +218XXXXXXXXX form the booking table stores.
func NormalizePhoneNumber(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)

	// Local mobile numbers: 09X XXXXXXX
	if strings.HasPrefix(cleaned, "09") && len(cleaned) == 10 {
		return "+218" + cleaned[1:]
	}
	if strings.HasPrefix(cleaned, "218") && len(cleaned) == 12 {
		return "+" + cleaned
	}
	if strings.HasPrefix(cleaned, "00218") && len(cleaned) == 14 {
		return "+" + cleaned[2:]
	}

	if strings.HasPrefix(phone, "+") {
		return "+" + cleaned
	}

	return cleaned
}

func IsValidPhoneNumber(phone string) bool {
	phone = NormalizePhoneNumber(phone)

	badNumbers := map[string]bool{
		"+218900000000": true,
		"+218911111111": true,
		"+218912345678": true,
	}
	if badNumbers[phone] {
		return false
	}

	validPrefixes := []string{"+218", "+20", "+216", "+971", "+966"}
	for _, prefix := range validPrefixes {
		if strings.HasPrefix(phone, prefix) {
			digits := strings.TrimPrefix(phone, "+")
			return len(digits) >= 10 && len(digits) <= 15
		}
	}

	return false
}

// FormatPhoneNumber renders +218 numbers as +218 XX XXX-XXXX for the
// booking notifications.
func FormatPhoneNumber(phone string) string {
	if strings.HasPrefix(phone, "+218") && len(phone) == 13 {
		return fmt.Sprintf("%s %s %s-%s",
			phone[:4],
			phone[4:6],
			phone[6:9],
			phone[9:13])
	}
	return phone
}
