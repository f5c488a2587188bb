package authform

import (
	"context"
	"regexp"
	"strings"
	"sync"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/cardauth/internal/errors"
	"github.com/allisson/cardauth/internal/signature"
	customValidation "github.com/allisson/cardauth/internal/validation"
)

var expirationShape = regexp.MustCompile(`^\d{2}/\d{2}$`)

// MessageSubmissionFailed is shown when the submission could not be completed.
const MessageSubmissionFailed = "We could not submit your authorization. Please try again."

var (
	// ErrSignatureRequired blocks submission until a signature is confirmed.
	ErrSignatureRequired = apperrors.Wrap(apperrors.ErrInvalidInput, "a confirmed signature is required")

	// ErrSubmissionFailed is the retryable failure surfaced for transport or server errors.
	ErrSubmissionFailed = apperrors.New("submission failed, please retry")

	// ErrAlreadySubmitted is returned after a successful submission.
	ErrAlreadySubmitted = apperrors.Wrap(apperrors.ErrConflict, "form already submitted")
)

// ValidationError lists field errors keyed by payload field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "form has invalid fields"
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// State is the form lifecycle position.
type State string

const (
	StateEditing    State = "editing"
	StateSubmitting State = "submitting"
	StateSubmitted  State = "submitted"
)

// Fields are the free-text inputs. Card number and expiration date go through setters
// so they are always formatted.
type Fields struct {
	AuthorizationName string
	CompanyName       string
	BillingAddress    string
	CityState         string
	PostalCode        string
	Phone             string
	Email             string
	AccountType       string
	CardholderName    string
	CVV               string
}

// Form holds the entered values, the signature pad and the submission outcome.
type Form struct {
	mu        sync.Mutex
	fields    Fields
	card      string
	expires   string
	pad       *signature.Pad
	prompter  signature.Prompter
	submitter Submitter

	state              State
	confirmationNumber string
}

// NewForm returns an empty form in the Editing state.
func NewForm(pad *signature.Pad, prompter signature.Prompter, submitter Submitter) *Form {
	return &Form{
		pad:       pad,
		prompter:  prompter,
		submitter: submitter,
		state:     StateEditing,
	}
}

// SetFields replaces the free-text inputs.
func (f *Form) SetFields(fields Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields = fields
}

// SetCardNumber stores the card number in display format.
func (f *Form) SetCardNumber(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.card = FormatCardNumber(input)
}

// CardNumber returns the display value, grouped by four.
func (f *Form) CardNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.card
}

// SetExpirationDate stores the expiration date as MM/YY.
func (f *Form) SetExpirationDate(input string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expires = FormatExpirationDate(input)
}

// ExpirationDate returns the formatted expiration date.
func (f *Form) ExpirationDate() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.expires
}

// Pad returns the signature pad bound to the form.
func (f *Form) Pad() *signature.Pad {
	return f.pad
}

// State returns the lifecycle state.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ConfirmationNumber returns the number issued on success.
func (f *Form) ConfirmationNumber() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.confirmationNumber
}

// Validate returns one message per invalid field. An empty map means the fields are valid.
// The signature is checked separately by Submit.
func (f *Form) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() map[string]string {
	required := []validation.Rule{validation.Required, customValidation.NotBlank}
	with := func(rules ...validation.Rule) []validation.Rule {
		return append(append([]validation.Rule{}, required...), rules...)
	}

	err := validation.Errors{
		"authorizationName": validation.Validate(f.fields.AuthorizationName, required...),
		"billingAddress":    validation.Validate(f.fields.BillingAddress, required...),
		"cityState":         validation.Validate(f.fields.CityState, required...),
		"postalCode":        validation.Validate(f.fields.PostalCode, required...),
		"phone":             validation.Validate(f.fields.Phone, required...),
		"email":             validation.Validate(f.fields.Email, with(customValidation.Email)...),
		"accountType":       validation.Validate(f.fields.AccountType, required...),
		"cardholderName":    validation.Validate(f.fields.CardholderName, required...),
		"accountNumber":     validation.Validate(f.card, with(customValidation.CardNumber)...),
		"expirationDate": validation.Validate(f.expires, with(
			validation.Match(expirationShape).Error("must be in MM/YY format"),
		)...),
		"cvv": validation.Validate(f.fields.CVV, with(
			validation.RuneLength(3, 0).Error("must be at least 3 characters"),
		)...),
	}.Filter()

	fieldErrors := make(map[string]string)
	if errs, ok := err.(validation.Errors); ok {
		for field, fieldErr := range errs {
			fieldErrors[field] = fieldErr.Error()
		}
	}
	return fieldErrors
}

// Submit validates the form, requires a confirmed signature and sends the payload.
// On failure the entered data is kept so the signer can retry.
func (f *Form) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	if f.state != StateEditing {
		f.mu.Unlock()
		return "", ErrAlreadySubmitted
	}

	if fieldErrors := f.validateLocked(); len(fieldErrors) > 0 {
		f.mu.Unlock()
		return "", &ValidationError{Fields: fieldErrors}
	}

	result := f.pad.Result()
	if result == nil {
		f.mu.Unlock()
		f.prompter.Alert(signature.MessageProvideSignature)
		return "", ErrSignatureRequired
	}

	payload := f.payloadLocked(result)
	f.state = StateSubmitting
	f.mu.Unlock()

	confirmationNumber, err := f.submitter.Submit(ctx, payload)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.state = StateEditing
		return "", apperrors.Wrapf(ErrSubmissionFailed, "%v", err)
	}

	f.state = StateSubmitted
	f.confirmationNumber = confirmationNumber
	return confirmationNumber, nil
}

func (f *Form) payloadLocked(result *signature.Result) *Payload {
	signedAt := result.SignedAt
	return &Payload{
		AuthorizationName: f.fields.AuthorizationName,
		CompanyName:       f.fields.CompanyName,
		BillingAddress:    f.fields.BillingAddress,
		CityState:         f.fields.CityState,
		PostalCode:        f.fields.PostalCode,
		Phone:             f.fields.Phone,
		Email:             f.fields.Email,
		AccountType:       f.fields.AccountType,
		CardholderName:    f.fields.CardholderName,
		AccountNumber:     strings.ReplaceAll(f.card, " ", ""),
		ExpirationDate:    f.expires,
		CVV:               f.fields.CVV,
		SignatureData:     result.ImageData,
		SignatureType:     string(result.Type),
		SignatureDate:     &signedAt,
	}
}
