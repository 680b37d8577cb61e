package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/geocoder89/taskhub/internal/apperr"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateRegistration checks the sign-up fields in a fixed order and reports the first failure.
func ValidateRegistration(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return apperr.Validation("Missing name, email or password")
	}

	if strings.TrimSpace(name) == "" {
		return apperr.Validation("Name must be a non-empty string")
	}

	if !IsValidEmail(email) {
		return apperr.Validation("Invalid email format")
	}

	if len(password) < MinPasswordLength {
		return apperr.Validation(fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	return nil
}

// ValidateLogin has no minimum password length, only presence.
func ValidateLogin(email, password string) error {
	if email == "" || password == "" {
		return apperr.Validation("Missing email or password")
	}

	if !IsValidEmail(email) {
		return apperr.Validation("Invalid email format")
	}

	return nil
}
