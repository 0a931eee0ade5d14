package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates the national part is not 8 or 9 digits
	ErrInvalidLength = errors.New("phone number must have 8 or 9 digits after +64")

	// ErrInvalidFormat indicates the phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and spaces")

	// ErrEmptyPhone indicates the phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

// phoneRegex matches the canonical stored form: +64 followed by 8-9 digits
var phoneRegex = regexp.MustCompile(`^\+64\d{8,9}$`)

// digitsAndSpaces matches what the phone input widget lets through
var digitsAndSpaces = regexp.MustCompile(`^[0-9 ]*$`)

// PhoneValidator handles New Zealand phone number validation.
// Numbers are stored canonically as +64 followed by the national digits;
// clients show the national part only and re-add the prefix on submit.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a canonical phone number (+64 followed by 8-9 digits)
func (v *PhoneValidator) Validate(phone string) error {
	if phone == "" {
		return ErrEmptyPhone
	}

	if phoneRegex.MatchString(phone) {
		return nil
	}

	national := strings.TrimPrefix(phone, "+64")
	if !digitsAndSpaces.MatchString(national) {
		return ErrInvalidFormat
	}
	return ErrInvalidLength
}

// ValidateOptional validates a canonical phone value that may be unset.
// Empty means unset and is accepted.
func (v *PhoneValidator) ValidateOptional(phone string) error {
	if phone == "" {
		return nil
	}
	return v.Validate(phone)
}

// Format converts user input (digits and spaces, with or without a +64
// prefix) into the canonical +64-prefixed form. An empty cleaned value
// maps to an empty string, meaning unset rather than malformed.
func (v *PhoneValidator) Format(input string) (string, error) {
	input = strings.TrimPrefix(input, "+64")

	if !digitsAndSpaces.MatchString(input) {
		return "", ErrInvalidFormat
	}

	digits := strings.ReplaceAll(input, " ", "")
	if digits == "" {
		return "", nil
	}

	return "+64" + digits, nil
}

// Strip removes the +64 prefix for display
func (v *PhoneValidator) Strip(phone string) string {
	return strings.TrimPrefix(phone, "+64")
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	return v.Validate(phone) == nil
}
