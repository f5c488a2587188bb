package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/allisson/cardauth/internal/authform"
	"github.com/allisson/cardauth/internal/signature"
)

// AuthorizationFile is the JSON document read by submit-authorization. Signature is the
// typed signature text.
type AuthorizationFile struct {
	AuthorizationName string `json:"authorizationName"`
	CompanyName       string `json:"companyName"`
	BillingAddress    string `json:"billingAddress"`
	CityState         string `json:"cityState"`
	PostalCode        string `json:"postalCode"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	AccountType       string `json:"accountType"`
	CardholderName    string `json:"cardholderName"`
	AccountNumber     string `json:"accountNumber"`
	ExpirationDate    string `json:"expirationDate"`
	CVV               string `json:"cvv"`
	Signature         string `json:"signature"`
}

// cliPrompter answers every destructive-action prompt with yes and prints alerts.
type cliPrompter struct {
	writer io.Writer
}

func (p cliPrompter) Confirm(string) bool {
	return true
}

func (p cliPrompter) Alert(message string) {
	_, _ = fmt.Fprintf(p.writer, "! %s\n", message)
}

// RunSubmitAuthorization fills the authorization form from path, signs it in typed mode
// and submits it to the server at serverURL.
func RunSubmitAuthorization(
	ctx context.Context,
	logger *slog.Logger,
	path, serverURL string,
	timeout time.Duration,
	format string,
	writer io.Writer,
) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read authorization file: %w", err)
	}

	var file AuthorizationFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse authorization file: %w", err)
	}

	submitter := authform.NewHTTPSubmitter(&http.Client{Timeout: timeout}, serverURL)
	return SubmitAuthorization(ctx, logger, &file, submitter, format, writer)
}

// SubmitAuthorization drives the form with file and submitter.
func SubmitAuthorization(
	ctx context.Context,
	logger *slog.Logger,
	file *AuthorizationFile,
	submitter authform.Submitter,
	format string,
	writer io.Writer,
) error {
	prompter := cliPrompter{writer: writer}

	pad := signature.NewPad(prompter, signature.DefaultConfig())
	if err := pad.SetMode(signature.ModeType); err != nil {
		return err
	}
	if err := pad.SetText(file.Signature); err != nil {
		return err
	}
	if strings.TrimSpace(file.Signature) != "" {
		if _, err := pad.Confirm(); err != nil {
			return fmt.Errorf("failed to sign: %w", err)
		}
	}

	form := authform.NewForm(pad, prompter, submitter)
	form.SetFields(authform.Fields{
		AuthorizationName: file.AuthorizationName,
		CompanyName:       file.CompanyName,
		BillingAddress:    file.BillingAddress,
		CityState:         file.CityState,
		PostalCode:        file.PostalCode,
		Phone:             file.Phone,
		Email:             file.Email,
		AccountType:       file.AccountType,
		CardholderName:    file.CardholderName,
		CVV:               file.CVV,
	})
	form.SetCardNumber(file.AccountNumber)
	form.SetExpirationDate(file.ExpirationDate)

	confirmationNumber, err := form.Submit(ctx)
	if err != nil {
		var validationErr *authform.ValidationError
		if errors.As(err, &validationErr) {
			outputFieldErrors(writer, validationErr.Fields)
		}
		if errors.Is(err, authform.ErrSubmissionFailed) {
			_, _ = fmt.Fprintln(writer, authform.MessageSubmissionFailed)
		}
		return err
	}

	if format == "json" {
		if err := writeJSON(writer, map[string]any{
			"success":            true,
			"confirmationNumber": confirmationNumber,
		}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(writer, "Authorization submitted. Confirmation number: %s\n", confirmationNumber)
	}

	logger.Info("authorization submitted", slog.String("confirmation_number", confirmationNumber))
	return nil
}

func outputFieldErrors(writer io.Writer, fields map[string]string) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	slices.Sort(names)

	_, _ = fmt.Fprintln(writer, "Please correct the following fields:")
	for _, name := range names {
		_, _ = fmt.Fprintf(writer, "  - %s: %s\n", name, fields[name])
	}
}
