package domain

import (
	"crypto/rand"
	"io"
	"strconv"
	"strings"
	"time"
)

const (
	confirmationPrefix     = "CC-"
	confirmationRandomLen  = 8
	confirmationAlphabet   = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	confirmationRejectFrom = 256 - 256%len(confirmationAlphabet)
)

// NewConfirmationNumber builds CC-<base36 unix millis>-<8 random base36 chars>, upper case.
// Uniqueness is probabilistic; storage enforces it with a unique constraint.
func NewConfirmationNumber(now time.Time) (string, error) {
	return newConfirmationNumber(now, rand.Reader)
}

func newConfirmationNumber(now time.Time, random io.Reader) (string, error) {
	var b strings.Builder
	b.WriteString(confirmationPrefix)
	b.WriteString(strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36)))
	b.WriteByte('-')

	buf := make([]byte, 1)
	for n := 0; n < confirmationRandomLen; {
		if _, err := io.ReadFull(random, buf); err != nil {
			return "", err
		}
		// Rejection sampling keeps every character equally likely.
		if int(buf[0]) >= confirmationRejectFrom {
			continue
		}
		b.WriteByte(confirmationAlphabet[int(buf[0])%len(confirmationAlphabet)])
		n++
	}

	return b.String(), nil
}
