// Package domain defines the field encryption algorithms and their errors.
package domain

import "strings"

// Algorithm names a field cipher.
type Algorithm string

const (
	// XOR is the legacy cyclic-key XOR transform. It is reversible and deterministic
	// but provides obfuscation only: no integrity check and no semantic security.
	XOR Algorithm = "xor"

	// AESGCM is AES-256-GCM with a random 12-byte nonce per value.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305 with a random 12-byte nonce per value.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm maps a configuration value to an Algorithm. Empty selects XOR.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch alg := Algorithm(strings.ToLower(strings.TrimSpace(s))); alg {
	case "":
		return XOR, nil
	case XOR, AESGCM, ChaCha20:
		return alg, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}

// Authenticated reports whether ciphertexts under alg carry an integrity tag.
func (a Algorithm) Authenticated() bool {
	return a == AESGCM || a == ChaCha20
}
