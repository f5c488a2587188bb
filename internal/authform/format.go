// Package authform drives an authorization form: input formatting, client-side validation,
// the signature pad and the hand-off to the submission endpoint.
package authform

import "strings"

const (
	maxCardDigits       = 16
	maxExpirationDigits = 4
)

func digitsOnly(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatCardNumber keeps up to 16 digits and groups them by four for display.
func FormatCardNumber(input string) string {
	digits := digitsOnly(input, maxCardDigits)

	var b strings.Builder
	for i := 0; i < len(digits); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(digits[i:min(i+4, len(digits))])
	}
	return b.String()
}

// FormatExpirationDate keeps up to four digits and inserts a slash once the month is complete.
// Formatting an already formatted value returns it unchanged.
func FormatExpirationDate(input string) string {
	digits := digitsOnly(input, maxExpirationDigits)
	if len(digits) < 2 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}
