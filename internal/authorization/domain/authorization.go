// Package domain models a captured credit card authorization. Card number and CVV are held
// only as ciphertexts; the last four digits are kept in clear for display.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// AccountType is the card brand.
type AccountType string

const (
	AccountTypeVisa       AccountType = "Visa"
	AccountTypeMasterCard AccountType = "MasterCard"
	AccountTypeAMEX       AccountType = "AMEX"
	AccountTypeDiscover   AccountType = "Discover"
)

// AccountTypes lists the accepted brands.
var AccountTypes = []AccountType{
	AccountTypeVisa,
	AccountTypeMasterCard,
	AccountTypeAMEX,
	AccountTypeDiscover,
}

// SignatureType records how the signature was produced.
type SignatureType string

const (
	SignatureTypeDrawn SignatureType = "drawn"
	SignatureTypeTyped SignatureType = "typed"
)

// Authorization is one submitted form. ConfirmationNumber is assigned once at creation.
type Authorization struct {
	ID                     uuid.UUID
	ConfirmationNumber     string
	AuthorizationName      string
	CompanyName            string
	BillingAddress         string
	CityState              string
	PostalCode             string
	Phone                  string
	Email                  string
	AccountType            AccountType
	CardholderName         string
	AccountNumberEncrypted string
	AccountNumberLast4     string
	ExpirationDate         string
	CVVEncrypted           string
	SignatureData          string
	SignatureType          SignatureType
	SignatureDate          time.Time
	IPAddress              string
	EmailSent              bool
	EmailSentAt            *time.Time
	CreatedAt              time.Time
}

// NormalizeCardNumber removes the display spaces from a card number.
func NormalizeCardNumber(cardNumber string) string {
	return strings.ReplaceAll(strings.TrimSpace(cardNumber), " ", "")
}

// Last4 returns the final four characters of a normalized card number.
func Last4(cardNumber string) string {
	if len(cardNumber) <= 4 {
		return cardNumber
	}
	return cardNumber[len(cardNumber)-4:]
}

// Viewer identifies the admin reading stored authorizations, for the access log.
type Viewer struct {
	UserID    uuid.UUID
	UserEmail string
	IPAddress string
}

// DecryptInput asks for the card data of one authorization.
type DecryptInput struct {
	AuthorizationID     uuid.UUID
	EncryptedCardNumber string
	EncryptedCVV        string
	Viewer              Viewer
}

// RevealedCard is decrypted card data. It must never be logged or persisted.
type RevealedCard struct {
	CardNumber string
	CVV        string
}
