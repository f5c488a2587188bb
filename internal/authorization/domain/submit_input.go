package domain

import (
	"strings"
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/cardauth/internal/validation"
)

// SubmitInput carries a form submission exactly as received.
type SubmitInput struct {
	AuthorizationName string
	CompanyName       string
	BillingAddress    string
	CityState         string
	PostalCode        string
	Phone             string
	Email             string
	AccountType       string
	CardholderName    string
	AccountNumber     string
	ExpirationDate    string
	CVV               string
	SignatureData     string
	SignatureType     string
	SignatureDate     *time.Time
	IPAddress         string
}

// requiredFields returns the mandatory fields in payload order with their wire names.
func (s *SubmitInput) requiredFields() []struct {
	name  string
	value string
} {
	return []struct {
		name  string
		value string
	}{
		{"authorizationName", s.AuthorizationName},
		{"billingAddress", s.BillingAddress},
		{"cityState", s.CityState},
		{"postalCode", s.PostalCode},
		{"phone", s.Phone},
		{"email", s.Email},
		{"accountType", s.AccountType},
		{"cardholderName", s.CardholderName},
		{"accountNumber", s.AccountNumber},
		{"expirationDate", s.ExpirationDate},
		{"cvv", s.CVV},
		{"signatureData", s.SignatureData},
		{"signatureType", s.SignatureType},
	}
}

// Validate reports the first missing field by name, then checks each field's shape.
func (s *SubmitInput) Validate() error {
	for _, field := range s.requiredFields() {
		if strings.TrimSpace(field.value) == "" {
			return &MissingFieldError{Field: field.name}
		}
	}

	accountTypes := make([]any, len(AccountTypes))
	for i, t := range AccountTypes {
		accountTypes[i] = string(t)
	}

	err := validation.Errors{
		"email":          validation.Validate(s.Email, customValidation.Email),
		"accountType":    validation.Validate(s.AccountType, validation.In(accountTypes...)),
		"accountNumber":  validation.Validate(s.AccountNumber, customValidation.CardNumber),
		"expirationDate": validation.Validate(s.ExpirationDate, customValidation.ExpirationDate),
		"cvv":            validation.Validate(s.CVV, customValidation.CVV),
		"signatureData":  validation.Validate(s.SignatureData, customValidation.ImageDataURI),
		"signatureType": validation.Validate(s.SignatureType,
			validation.In(string(SignatureTypeDrawn), string(SignatureTypeTyped))),
		"authorizationName": validation.Validate(s.AuthorizationName, validation.Length(1, 200)),
		"companyName":       validation.Validate(s.CompanyName, validation.Length(0, 200)),
		"cardholderName":    validation.Validate(s.CardholderName, validation.Length(1, 200)),
	}.Filter()
	if err != nil {
		return customValidation.WrapValidationError(err)
	}

	return nil
}
