package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Compiled regular expressions for validation
var (
	// Country and zone names: letters, spaces, hyphens, apostrophes
	validNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z '\-]*$`)

	// Usernames: alphanumeric plus underscore, hyphen, dot
	validUsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	// Loose email shape, enough to reject obvious garbage
	validEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateName validates a country or zone name.
func ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}
	if len(name) > 80 {
		return errors.New("name too long (max 80 characters)")
	}
	if !validNamePattern.MatchString(name) {
		return errors.New("name contains invalid characters")
	}
	return nil
}

// ValidateUsername validates a login name.
func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username cannot be empty")
	}
	if len(username) > 60 {
		return errors.New("username too long (max 60 characters)")
	}
	if !validUsernamePattern.MatchString(username) {
		return errors.New("username contains invalid characters")
	}
	return nil
}

// ValidateEmail validates an email address. Empty is allowed.
func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	if len(email) > 120 {
		return errors.New("email too long (max 120 characters)")
	}
	if !validEmailPattern.MatchString(email) {
		return errors.New("email is not valid")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if len(password) > 72 {
		// bcrypt truncates beyond 72 bytes
		return errors.New("password too long (max 72 characters)")
	}
	return nil
}

// ParseYear parses a year query parameter. Empty means unset (0).
func ParseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil || y < 1900 || y > 2200 {
		return 0, errors.New("must be a four-digit year")
	}
	return y, nil
}

// SplitList splits a comma-separated query parameter, trimming whitespace
// and dropping empty entries.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
