package service

import (
	"errors"
	"fmt"
	"regexp"

	"mobypark/internal/models"
)

// ErrValidation marks client-caused input errors; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_'.]{7,9}$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe    = regexp.MustCompile(`^[+]?[0-9 ()-]{7,20}$`)
	lowerRe    = regexp.MustCompile(`[a-z]`)
	upperRe    = regexp.MustCompile(`[A-Z]`)
	digitRe    = regexp.MustCompile(`[0-9]`)
	specialRe  = regexp.MustCompile(`[^A-Za-z0-9]`)
	plateRe    = regexp.MustCompile(`^[A-Za-z0-9-]{4,12}$`)
)

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func validateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return validationErr("username must be 8-10 characters, start with a letter or underscore, and contain only letters, numbers, underscores, apostrophes, or periods")
	}
	return nil
}

func validatePassword(pw string) error {
	if len(pw) < 12 || len(pw) > 30 ||
		!lowerRe.MatchString(pw) || !upperRe.MatchString(pw) ||
		!digitRe.MatchString(pw) || !specialRe.MatchString(pw) {
		return validationErr("password must be 12-30 characters with at least one lowercase letter, one uppercase letter, one digit, and one special character")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return validationErr("invalid email format")
	}
	return nil
}

func validatePhone(phone string) error {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 || digits > 15 || !phoneRe.MatchString(phone) {
		return validationErr("phone must be 7-15 digits with optional separators")
	}
	return nil
}

func validateRole(role string) error {
	if role != models.RoleUser && role != models.RoleAdmin {
		return validationErr("role must be USER or ADMIN")
	}
	return nil
}

func validatePlate(plate string) error {
	if !plateRe.MatchString(plate) {
		return validationErr("invalid license plate")
	}
	return nil
}
