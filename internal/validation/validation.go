package validation

import (
	"regexp"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Password length bounds. bcrypt only hashes the first 72 bytes, so longer
// passwords are refused instead of silently truncated.
const (
	MinPasswordLength = 8
	MaxPasswordBytes  = 72
)

// MaxEmailLength matches the size of the users.email column.
const MaxEmailLength = 254

// emailPattern mirrors what the signup form accepts: something@something.tld without spaces.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the process-wide validator with the custom rules registered.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
			return IsStrongPassword(fl.Field().String())
		})
		_ = v.RegisterValidation("loginemail", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		instance = v
	})
	return instance
}

// IsValidEmail reports whether email looks like a deliverable address.
func IsValidEmail(email string) bool {
	return len(email) <= MaxEmailLength && emailPattern.MatchString(email)
}

// IsPasswordTooLong reports whether pw exceeds what bcrypt can hash.
func IsPasswordTooLong(pw string) bool {
	return len(pw) > MaxPasswordBytes
}

// IsStrongPassword requires at least MinPasswordLength characters with a letter,
// a digit and a symbol.
func IsStrongPassword(pw string) bool {
	if len([]rune(pw)) < MinPasswordLength {
		return false
	}
	var letter, digit, symbol bool
	for _, r := range pw {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
			letter = true
		case r < unicode.MaxASCII && unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return letter && digit && symbol
}
