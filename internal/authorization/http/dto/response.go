package dto

import (
	"time"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
)

// SubmitResponse is returned after a successful submission.
type SubmitResponse struct {
	Success            bool   `json:"success"`
	ConfirmationNumber string `json:"confirmationNumber"`
}

// AuthorizationResponse is a stored authorization as seen by admins. Card data stays encrypted.
type AuthorizationResponse struct {
	ID                     string     `json:"id"`
	ConfirmationNumber     string     `json:"confirmationNumber"`
	AuthorizationName      string     `json:"authorizationName"`
	CompanyName            string     `json:"companyName"`
	BillingAddress         string     `json:"billingAddress"`
	CityState              string     `json:"cityState"`
	PostalCode             string     `json:"postalCode"`
	Phone                  string     `json:"phone"`
	Email                  string     `json:"email"`
	AccountType            string     `json:"accountType"`
	CardholderName         string     `json:"cardholderName"`
	AccountNumberEncrypted string     `json:"accountNumberEncrypted"`
	AccountNumberLast4     string     `json:"accountNumberLast4"`
	ExpirationDate         string     `json:"expirationDate"`
	CVVEncrypted           string     `json:"cvvEncrypted"`
	SignatureData          string     `json:"signatureData"`
	SignatureType          string     `json:"signatureType"`
	SignatureDate          time.Time  `json:"signatureDate"`
	IPAddress              string     `json:"ipAddress"`
	EmailSent              bool       `json:"emailSent"`
	EmailSentAt            *time.Time `json:"emailSentAt,omitempty"`
	CreatedAt              time.Time  `json:"createdAt"`
}

// ListAuthorizationsResponse wraps a page of authorizations.
type ListAuthorizationsResponse struct {
	Data []AuthorizationResponse `json:"data"`
}

// DecryptResponse carries the revealed card data.
type DecryptResponse struct {
	CardNumber string `json:"cardNumber"`
	CVV        string `json:"cvv"`
}

// MapAuthorizationToResponse converts a domain authorization.
func MapAuthorizationToResponse(a *authorizationDomain.Authorization) AuthorizationResponse {
	return AuthorizationResponse{
		ID:                     a.ID.String(),
		ConfirmationNumber:     a.ConfirmationNumber,
		AuthorizationName:      a.AuthorizationName,
		CompanyName:            a.CompanyName,
		BillingAddress:         a.BillingAddress,
		CityState:              a.CityState,
		PostalCode:             a.PostalCode,
		Phone:                  a.Phone,
		Email:                  a.Email,
		AccountType:            string(a.AccountType),
		CardholderName:         a.CardholderName,
		AccountNumberEncrypted: a.AccountNumberEncrypted,
		AccountNumberLast4:     a.AccountNumberLast4,
		ExpirationDate:         a.ExpirationDate,
		CVVEncrypted:           a.CVVEncrypted,
		SignatureData:          a.SignatureData,
		SignatureType:          string(a.SignatureType),
		SignatureDate:          a.SignatureDate,
		IPAddress:              a.IPAddress,
		EmailSent:              a.EmailSent,
		EmailSentAt:            a.EmailSentAt,
		CreatedAt:              a.CreatedAt,
	}
}

// MapAuthorizationsToListResponse converts a page of authorizations.
func MapAuthorizationsToListResponse(authorizations []*authorizationDomain.Authorization) ListAuthorizationsResponse {
	data := make([]AuthorizationResponse, 0, len(authorizations))
	for _, a := range authorizations {
		data = append(data, MapAuthorizationToResponse(a))
	}
	return ListAuthorizationsResponse{Data: data}
}
