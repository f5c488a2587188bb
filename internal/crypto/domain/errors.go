package domain

import (
	"fmt"

	"github.com/allisson/cardauth/internal/errors"
)

// Field encryption errors. All of them wrap ErrInvalidInput.
var (
	// ErrUnsupportedAlgorithm indicates the configured cipher name is unknown.
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported algorithm", errors.ErrInvalidInput)

	// ErrInvalidKeySize indicates a derived or supplied key has the wrong length.
	ErrInvalidKeySize = fmt.Errorf("%w: invalid key size", errors.ErrInvalidInput)

	// ErrEmptyKey indicates an empty encryption key.
	ErrEmptyKey = fmt.Errorf("%w: encryption key must not be empty", errors.ErrInvalidInput)

	// ErrInvalidCiphertext indicates the stored value is not valid base64 or is too short.
	ErrInvalidCiphertext = fmt.Errorf("%w: malformed ciphertext", errors.ErrInvalidInput)

	// ErrDecryptionFailed indicates an authenticated cipher rejected the value.
	// The cause (wrong key or tampering) is not disclosed.
	ErrDecryptionFailed = fmt.Errorf("%w: decryption failed", errors.ErrInvalidInput)
)
