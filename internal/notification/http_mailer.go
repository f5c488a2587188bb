package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/allisson/cardauth/internal/errors"
)

// ErrCredentialUnavailable indicates the mail provider credential could not be loaded.
var ErrCredentialUnavailable = apperrors.New("mail credential unavailable")

// CredentialSource returns the provider credential stored under name.
type CredentialSource interface {
	Get(ctx context.Context, name string) (string, error)
}

// HTTPMailerConfig configures an HTTPMailer.
type HTTPMailerConfig struct {
	APIURL         string
	From           string
	To             string
	CredentialName string
}

// HTTPMailer posts rendered summaries to a JSON mail API authenticated with a bearer credential.
type HTTPMailer struct {
	client      *http.Client
	config      HTTPMailerConfig
	credentials CredentialSource
}

// NewHTTPMailer creates an HTTPMailer. The client's timeout is left to the caller's context.
func NewHTTPMailer(client *http.Client, config HTTPMailerConfig, credentials CredentialSource) *HTTPMailer {
	return &HTTPMailer{
		client:      client,
		config:      config,
		credentials: credentials,
	}
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send renders summary and posts it to the provider.
func (m *HTTPMailer) Send(ctx context.Context, summary *Summary) error {
	if m.config.APIURL == "" || m.config.To == "" {
		return fmt.Errorf("%w: mail api url or recipient not configured", ErrCredentialUnavailable)
	}

	credential, err := m.credentials.Get(ctx, m.config.CredentialName)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCredentialUnavailable, err)
	}
	if credential == "" {
		return fmt.Errorf("%w: empty credential", ErrCredentialUnavailable)
	}

	html, err := renderHTML(summary)
	if err != nil {
		return err
	}

	body, err := json.Marshal(sendRequest{
		From:    m.config.From,
		To:      []string{m.config.To},
		Subject: subject(summary),
		HTML:    html,
	})
	if err != nil {
		return apperrors.Wrap(err, "failed to encode mail request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.config.APIURL, bytes.NewReader(body))
	if err != nil {
		return apperrors.Wrap(err, "failed to build mail request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential)

	resp, err := m.client.Do(req)
	if err != nil {
		return apperrors.Wrap(err, "mail provider request failed")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}

	return nil
}
