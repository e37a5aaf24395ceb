package validation

import (
	"errors"
	"strings"
)

// maxPasswordBytes is where bcrypt stops reading input.
const maxPasswordBytes = 72

var (
	errPasswordBlank   = errors.New("password cannot be blank")
	errPasswordTooLong = errors.New("password must not exceed 72 bytes")
)

// ValidatePassword accepts any password that is not blank and fits in bcrypt's input.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return errPasswordBlank
	}
	if len(password) > maxPasswordBytes {
		return errPasswordTooLong
	}
	return nil
}
