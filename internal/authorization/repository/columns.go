// Package repository persists authorizations in PostgreSQL and MySQL.
package repository

import (
	"database/sql"

	authorizationDomain "github.com/allisson/cardauth/internal/authorization/domain"
)

const selectColumns = `id, confirmation_number, authorization_name, company_name, billing_address,
			  city_state, postal_code, phone, email, account_type, cardholder_name,
			  account_number_encrypted, account_number_last4, expiration_date, cvv_encrypted,
			  signature_data, signature_type, signature_date, ip_address, email_sent, email_sent_at,
			  created_at`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanAuthorization reads one row in selectColumns order. id receives the driver's
// representation of the primary key so each dialect can decode it.
func scanAuthorization(row scanner, id any) (*authorizationDomain.Authorization, error) {
	var authorization authorizationDomain.Authorization
	var accountType, signatureType string
	var emailSentAt sql.NullTime

	err := row.Scan(
		id,
		&authorization.ConfirmationNumber,
		&authorization.AuthorizationName,
		&authorization.CompanyName,
		&authorization.BillingAddress,
		&authorization.CityState,
		&authorization.PostalCode,
		&authorization.Phone,
		&authorization.Email,
		&accountType,
		&authorization.CardholderName,
		&authorization.AccountNumberEncrypted,
		&authorization.AccountNumberLast4,
		&authorization.ExpirationDate,
		&authorization.CVVEncrypted,
		&authorization.SignatureData,
		&signatureType,
		&authorization.SignatureDate,
		&authorization.IPAddress,
		&authorization.EmailSent,
		&emailSentAt,
		&authorization.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	authorization.AccountType = authorizationDomain.AccountType(accountType)
	authorization.SignatureType = authorizationDomain.SignatureType(signatureType)
	authorization.SignatureDate = authorization.SignatureDate.UTC()
	authorization.CreatedAt = authorization.CreatedAt.UTC()
	if emailSentAt.Valid {
		sentAt := emailSentAt.Time.UTC()
		authorization.EmailSentAt = &sentAt
	}
	return &authorization, nil
}

// insertArgs returns the insert arguments after the id, in selectColumns order.
func insertArgs(authorization *authorizationDomain.Authorization) []any {
	var emailSentAt sql.NullTime
	if authorization.EmailSentAt != nil {
		emailSentAt = sql.NullTime{Time: *authorization.EmailSentAt, Valid: true}
	}

	return []any{
		authorization.ConfirmationNumber,
		authorization.AuthorizationName,
		authorization.CompanyName,
		authorization.BillingAddress,
		authorization.CityState,
		authorization.PostalCode,
		authorization.Phone,
		authorization.Email,
		string(authorization.AccountType),
		authorization.CardholderName,
		authorization.AccountNumberEncrypted,
		authorization.AccountNumberLast4,
		authorization.ExpirationDate,
		authorization.CVVEncrypted,
		authorization.SignatureData,
		string(authorization.SignatureType),
		authorization.SignatureDate,
		authorization.IPAddress,
		authorization.EmailSent,
		emailSentAt,
		authorization.CreatedAt,
	}
}
