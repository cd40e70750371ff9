package utils

// ValidPhoneNumber accepts a phone number iff it is exactly 11 ASCII
// digits.
func ValidPhoneNumber(phone string) bool {
	return elevenDigits(phone)
}

// ValidIdentityNumber accepts a national identity number (NIN) iff it
// is exactly 11 ASCII digits, mirroring the phone rule.
func ValidIdentityNumber(nin string) bool {
	return elevenDigits(nin)
}

func elevenDigits(s string) bool {
	if len(s) != 11 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
