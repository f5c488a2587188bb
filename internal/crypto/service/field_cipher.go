// Package service implements the field ciphers that protect card numbers and CVVs at rest.
package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/cardauth/internal/crypto/domain"
)

// hkdfInfo binds derived field keys to this purpose.
const hkdfInfo = "cardauth-field-encryption-v1"

// FieldCipher encrypts and decrypts single text fields into a text-safe encoding.
// Decrypt(Encrypt(x)) == x for every string x under the same key.
type FieldCipher interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// NewFieldCipher builds the cipher selected by alg over the shared key.
func NewFieldCipher(alg cryptoDomain.Algorithm, key string) (FieldCipher, error) {
	switch alg {
	case cryptoDomain.XOR:
		return NewXORCipher(key)
	case cryptoDomain.AESGCM, cryptoDomain.ChaCha20:
		return NewAEADFieldCipher(alg, key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}

// XORCipher XORs each byte against the key repeated cyclically and encodes the result
// with standard base64. It is deterministic and has no integrity check, so decrypting
// under the wrong key yields garbage without an error.
type XORCipher struct {
	key []byte
}

// NewXORCipher returns an XORCipher. The key must not be empty.
func NewXORCipher(key string) (*XORCipher, error) {
	if key == "" {
		return nil, cryptoDomain.ErrEmptyKey
	}
	return &XORCipher{key: []byte(key)}, nil
}

func (x *XORCipher) xor(in []byte) []byte {
	out := make([]byte, len(in))
	for i, b := range in {
		out[i] = b ^ x.key[i%len(x.key)]
	}
	return out
}

// Encrypt returns base64(plaintext XOR key).
func (x *XORCipher) Encrypt(plaintext string) (string, error) {
	return base64.StdEncoding.EncodeToString(x.xor([]byte(plaintext))), nil
}

// Decrypt reverses Encrypt. Input that is not valid base64 returns ErrInvalidCiphertext.
func (x *XORCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrInvalidCiphertext
	}
	return string(x.xor(raw)), nil
}

// AEADFieldCipher wraps AES-256-GCM or ChaCha20-Poly1305. The 32-byte key is derived from the
// configured secret with HKDF-SHA256 and every value gets a fresh random nonce. The encoding is
// base64(nonce || ciphertext || tag).
type AEADFieldCipher struct {
	alg  cryptoDomain.Algorithm
	aead cipher.AEAD
}

// NewAEADFieldCipher derives a key from secret and builds the AEAD named by alg.
func NewAEADFieldCipher(alg cryptoDomain.Algorithm, secret string) (*AEADFieldCipher, error) {
	if secret == "" {
		return nil, cryptoDomain.ErrEmptyKey
	}

	key := make([]byte, 32)
	defer cryptoDomain.Zero(key)

	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive field key: %w", err)
	}

	aead, err := newAEAD(alg, key)
	if err != nil {
		return nil, err
	}

	return &AEADFieldCipher{alg: alg, aead: aead}, nil
}

func newAEAD(alg cryptoDomain.Algorithm, key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create AES cipher: %w", err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, fmt.Errorf("failed to create GCM: %w", err)
		}
		return aead, nil
	case cryptoDomain.ChaCha20:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, fmt.Errorf("failed to create ChaCha20-Poly1305 cipher: %w", err)
		}
		return aead, nil
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}

// Algorithm returns the cipher in use.
func (a *AEADFieldCipher) Algorithm() cryptoDomain.Algorithm {
	return a.alg
}

// Encrypt seals plaintext under a fresh nonce.
func (a *AEADFieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := a.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a value produced by Encrypt.
func (a *AEADFieldCipher) Decrypt(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", cryptoDomain.ErrInvalidCiphertext
	}

	nonceSize := a.aead.NonceSize()
	if len(raw) < nonceSize+a.aead.Overhead() {
		return "", cryptoDomain.ErrInvalidCiphertext
	}

	plaintext, err := a.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	return string(plaintext), nil
}
