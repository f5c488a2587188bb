package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

var summaryTemplate = template.Must(template.New("summary").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>New credit card authorization</h2>
  <p>Confirmation number: <strong>{{.ConfirmationNumber}}</strong></p>
  <table cellpadding="4">
    <tr><td>Authorized by</td><td>{{.AuthorizationName}}</td></tr>
    {{- if .CompanyName}}
    <tr><td>Company</td><td>{{.CompanyName}}</td></tr>
    {{- end}}
    <tr><td>Email</td><td>{{.Email}}</td></tr>
    <tr><td>Phone</td><td>{{.Phone}}</td></tr>
    <tr><td>City / State</td><td>{{.CityState}}</td></tr>
    <tr><td>Card</td><td>{{.AccountType}} ending in {{.AccountNumberLast4}}</td></tr>
    <tr><td>Cardholder</td><td>{{.CardholderName}}</td></tr>
    <tr><td>Signature</td><td>{{.SignatureType}}</td></tr>
    <tr><td>Submitted</td><td>{{.CreatedAt.Format "2006-01-02 15:04:05 MST"}} from {{.IPAddress}}</td></tr>
  </table>
  <p>Full card details are available only in the admin viewer.</p>
</body>
</html>
`))

// subject returns the email subject line for summary.
func subject(summary *Summary) string {
	return fmt.Sprintf("New card authorization %s: %s", summary.ConfirmationNumber, summary.AuthorizationName)
}

// renderHTML renders the email body. Values are HTML-escaped.
func renderHTML(summary *Summary) (string, error) {
	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, summary); err != nil {
		return "", fmt.Errorf("failed to render notification: %w", err)
	}
	return buf.String(), nil
}
