// Package validation provides custom validation rules for the application.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

var (
	emailRegex          = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	expirationDateRegex = regexp.MustCompile(`^\d{2}/\d{2}$`)
	digitsRegex         = regexp.MustCompile(`^\d+$`)
	imageDataURIRegex   = regexp.MustCompile(`^data:image/(png|jpeg);base64,[A-Za-z0-9+/]+=*$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", apperrors.ErrInvalidInput, err.Error())
}

// Email validates the local@domain.tld shape.
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// CardNumber validates a card number once spaces are stripped: digits only, 13 to 19 of them.
var CardNumber = validation.NewStringRuleWithError(
	func(s string) bool {
		digits := strings.ReplaceAll(s, " ", "")
		return digitsRegex.MatchString(digits) && len(digits) >= 13 && len(digits) <= 19
	},
	validation.NewError("validation_card_number", "must contain between 13 and 19 digits"),
)

// ExpirationDate validates the MM/YY shape. The month range is checked as well.
var ExpirationDate = validation.NewStringRuleWithError(
	func(s string) bool {
		if !expirationDateRegex.MatchString(s) {
			return false
		}
		month := s[:2]
		return month >= "01" && month <= "12"
	},
	validation.NewError("validation_expiration_date", "must be in MM/YY format"),
)

// CVV validates a 3 or 4 digit security code.
var CVV = validation.NewStringRuleWithError(
	func(s string) bool {
		return digitsRegex.MatchString(s) && len(s) >= 3 && len(s) <= 4
	},
	validation.NewError("validation_cvv", "must be 3 or 4 digits"),
)

// ImageDataURI validates a base64 PNG or JPEG data URI.
var ImageDataURI = validation.NewStringRuleWithError(
	func(s string) bool {
		return imageDataURIRegex.MatchString(s)
	},
	validation.NewError("validation_image_data_uri", "must be a base64 image data URI"),
)
