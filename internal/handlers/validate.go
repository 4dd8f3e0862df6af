package handlers

import (
	"regexp"
	"strings"

	"github.com/quizdeck-dev/quizdeck/internal/apperrors"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Minimum-strength rule: at least 8 non-whitespace characters.
	passwordPattern = regexp.MustCompile(`^\S{8,}$`)
)

func isValidString(s string) bool {
	return strings.TrimSpace(s) != ""
}

func validateName(name string) error {
	if !isValidString(name) {
		return apperrors.ErrInvalidName
	}
	return nil
}

func validateEmail(email string) error {
	if !isValidString(email) || !emailPattern.MatchString(email) {
		return apperrors.ErrInvalidEmail
	}
	return nil
}

func validatePassword(password string) error {
	if !isValidString(password) || !passwordPattern.MatchString(password) {
		return apperrors.ErrInvalidPassword
	}
	return nil
}
