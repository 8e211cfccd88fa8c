// Package crypto implements the at-rest field cipher. Sensitive string
// attributes (phone, address, special requests, payment method) are stored
// as ciphertext and handled as plaintext in memory. Repositories call
// EncryptFields right before persisting and DecryptFields right after
// scanning, so the transformation stays explicit and testable.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const keySize = 32

var (
	// ErrNoKey is returned by encrypt/decrypt when no cipher key was
	// configured. The read path treats this as "leave value as stored";
	// the write path must surface it to the caller.
	ErrNoKey = errors.New("field cipher key not configured")

	errMalformed = errors.New("malformed ciphertext")
)

// FieldCipher encrypts individual string attributes with AES-256-GCM.
// Ciphertext is base64(nonce || sealed). A zero-value FieldCipher is a
// disabled cipher: every operation fails with ErrNoKey.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a cipher from a base64-encoded 32-byte key.
// An empty key yields a disabled cipher so the application can still
// start and serve legacy plaintext rows.
func NewFieldCipher(encodedKey string) (*FieldCipher, error) {
	if encodedKey == "" {
		return &FieldCipher{}, nil
	}

	key, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode cipher key: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("cipher key must be %d bytes, got %d", keySize, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Enabled reports whether a key was configured.
func (c *FieldCipher) Enabled() bool {
	return c.aead != nil
}

// EncryptValue encrypts a single plaintext value.
func (c *FieldCipher) EncryptValue(plain string) (string, error) {
	if c.aead == nil {
		return "", ErrNoKey
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptValue decrypts a single stored value. It fails on anything that
// is not valid ciphertext under the configured key, including legacy
// plaintext rows.
func (c *FieldCipher) DecryptValue(value string) (string, error) {
	if c.aead == nil {
		return "", ErrNoKey
	}

	raw, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", errMalformed
	}
	if len(raw) <= c.aead.NonceSize() {
		return "", errMalformed
	}

	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", errMalformed
	}

	return string(plain), nil
}

// IsEncrypted reports whether a value is valid ciphertext under the
// configured key. Used to skip re-encryption of already-encrypted values
// and to recognize legacy plaintext rows.
func (c *FieldCipher) IsEncrypted(value string) bool {
	if value == "" {
		return false
	}
	_, err := c.DecryptValue(value)
	return err == nil
}

// EncryptFields encrypts every non-empty field in place, skipping values
// that are already ciphertext. Writing a non-empty sensitive value with
// no key configured fails with ErrNoKey rather than letting it reach
// storage in the clear.
func (c *FieldCipher) EncryptFields(fields ...*string) error {
	for _, field := range fields {
		if field == nil || *field == "" {
			continue
		}
		if !c.Enabled() {
			return ErrNoKey
		}
		if c.IsEncrypted(*field) {
			continue
		}

		encrypted, err := c.EncryptValue(*field)
		if err != nil {
			return err
		}
		*field = encrypted
	}
	return nil
}

// DecryptFields decrypts every non-empty field in place. Values that do
// not decrypt (legacy plaintext, corrupted ciphertext, missing key) are
// left exactly as stored.
func (c *FieldCipher) DecryptFields(fields ...*string) {
	for _, field := range fields {
		if field == nil || *field == "" {
			continue
		}

		plain, err := c.DecryptValue(*field)
		if err != nil {
			continue
		}
		*field = plain
	}
}
