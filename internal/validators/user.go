package validators

import (
	"strings"
	"unicode"
)

// IsUsernameValid accepts letters, digits and @.+-_ up to 150 characters.
func IsUsernameValid(username string) bool {
	if username == "" || len(username) > 150 {
		return false
	}
	for _, r := range username {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		if !strings.ContainsRune("@.+-_", r) {
			return false
		}
	}
	return true
}

func IsPhoneValid(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-':
		default:
			return false
		}
	}
	return digits >= 8 && digits <= 15
}
