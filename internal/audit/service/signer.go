// Package service signs access log entries so tampering with stored rows can be detected.
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"

	auditDomain "github.com/allisson/cardauth/internal/audit/domain"
)

// Signer computes and checks access log signatures.
type Signer interface {
	// Enabled reports whether a signing key is configured.
	Enabled() bool
	Sign(log *auditDomain.AccessLog) []byte
	Verify(log *auditDomain.AccessLog) error
}

type hmacSigner struct {
	key []byte
}

// NewSigner derives an HMAC-SHA256 key from keyMaterial with HKDF. Empty key material
// yields a signer that signs nothing.
func NewSigner(keyMaterial string) (Signer, error) {
	if keyMaterial == "" {
		return &hmacSigner{}, nil
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(keyMaterial), nil, []byte("access-log-signing-v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}

	return &hmacSigner{key: key}, nil
}

func (s *hmacSigner) Enabled() bool {
	return len(s.key) > 0
}

// Sign returns the entry's HMAC, or nil when signing is disabled.
func (s *hmacSigner) Sign(log *auditDomain.AccessLog) []byte {
	if !s.Enabled() {
		return nil
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write(canonicalize(log))
	return mac.Sum(nil)
}

// Verify recomputes the signature and compares it in constant time.
func (s *hmacSigner) Verify(log *auditDomain.AccessLog) error {
	if !s.Enabled() || !hmac.Equal(log.Signature, s.Sign(log)) {
		return auditDomain.ErrSignatureInvalid
	}
	return nil
}

// canonicalize encodes every signed field in a fixed order. Variable-length fields are
// length-prefixed so adjacent fields cannot be shifted into each other.
func canonicalize(log *auditDomain.AccessLog) []byte {
	buf := make([]byte, 0, 256)

	buf = append(buf, log.ID[:]...)
	if log.AuthorizationID != nil {
		buf = append(buf, 1)
		buf = append(buf, log.AuthorizationID[:]...)
	} else {
		buf = append(buf, 0)
	}
	buf = append(buf, log.UserID[:]...)
	buf = appendLengthPrefixed(buf, []byte(log.UserEmail))
	buf = appendLengthPrefixed(buf, []byte(log.Action))
	buf = appendLengthPrefixed(buf, []byte(log.IPAddress))
	buf = binary.BigEndian.AppendUint64(buf, uint64(log.CreatedAt.UTC().UnixMicro()))

	return buf
}

func appendLengthPrefixed(buf, data []byte) []byte {
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(data)))
	return append(buf, data...)
}
