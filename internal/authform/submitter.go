package authform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const submitPath = "/v1/authorizations"

// Payload is the JSON body accepted by the submission endpoint.
type Payload struct {
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

// Submitter delivers a payload and returns the confirmation number.
type Submitter interface {
	Submit(ctx context.Context, payload *Payload) (string, error)
}

// HTTPSubmitter posts payloads to a running server.
type HTTPSubmitter struct {
	client  *http.Client
	baseURL string
}

// NewHTTPSubmitter creates an HTTPSubmitter for the server at baseURL.
func NewHTTPSubmitter(client *http.Client, baseURL string) *HTTPSubmitter {
	return &HTTPSubmitter{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

type submitResponse struct {
	Success            bool   `json:"success"`
	ConfirmationNumber string `json:"confirmationNumber"`
	Error              string `json:"error"`
}

// Submit posts the payload as JSON. Any non-200 answer is an error carrying the server message.
func (h *HTTPSubmitter) Submit(ctx context.Context, payload *Payload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+submitPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var decoded submitResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("unexpected response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode != http.StatusOK || !decoded.Success {
		return "", fmt.Errorf("submission rejected (status %d): %s", resp.StatusCode, decoded.Error)
	}

	return decoded.ConfirmationNumber, nil
}
