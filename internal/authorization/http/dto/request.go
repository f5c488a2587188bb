// Package dto provides request and response types for the authorization endpoints.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

// SubmitRequest is the body of POST /v1/authorizations. Field checks happen in the use case
// so that missing fields are reported in payload order.
type SubmitRequest struct {
	AuthorizationName string     `json:"authorizationName"`
	CompanyName       string     `json:"companyName"`
	BillingAddress    string     `json:"billingAddress"`
	CityState         string     `json:"cityState"`
	PostalCode        string     `json:"postalCode"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	AccountType       string     `json:"accountType"`
	CardholderName    string     `json:"cardholderName"`
	AccountNumber     string     `json:"accountNumber"`
	ExpirationDate    string     `json:"expirationDate"`
	CVV               string     `json:"cvv"`
	SignatureData     string     `json:"signatureData"`
	SignatureType     string     `json:"signatureType"`
	SignatureDate     *time.Time `json:"signatureDate,omitempty"`
}

// ToDomain converts the request, attaching the submitter's address.
func (r *SubmitRequest) ToDomain(ipAddress string) *authorizationDomain.SubmitInput {
	return &authorizationDomain.SubmitInput{
		AuthorizationName: r.AuthorizationName,
		CompanyName:       r.CompanyName,
		BillingAddress:    r.BillingAddress,
		CityState:         r.CityState,
		PostalCode:        r.PostalCode,
		Phone:             r.Phone,
		Email:             r.Email,
		AccountType:       r.AccountType,
		CardholderName:    r.CardholderName,
		AccountNumber:     r.AccountNumber,
		ExpirationDate:    r.ExpirationDate,
		CVV:               r.CVV,
		SignatureData:     r.SignatureData,
		SignatureType:     r.SignatureType,
		SignatureDate:     r.SignatureDate,
		IPAddress:         ipAddress,
	}
}

// DecryptRequest is the body of POST /v1/admin/authorizations/decrypt.
type DecryptRequest struct {
	AuthorizationID     string `json:"authorizationId"`
	EncryptedCardNumber string `json:"encryptedCardNumber"`
	EncryptedCVV        string `json:"encryptedCVV"`
}

// Validate checks that all three fields are present.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AuthorizationID, validation.Required, customValidation.NotBlank),
		validation.Field(&r.EncryptedCardNumber, validation.Required, customValidation.NotBlank),
		validation.Field(&r.EncryptedCVV, validation.Required, customValidation.NotBlank),
	)
}
