// Package crypt provides AES-GCM authenticated encryption for data the
// client persists locally, in particular the session file, which holds a
// bearer token.
//
// All ciphertext is base64url-encoded and includes the random nonce prefix,
// so a single string can be stored as-is.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/shashiranjanraj/foodrun/config"
)

// ErrDecrypt is returned when decryption or authentication fails.
var ErrDecrypt = errors.New("crypt: decryption failed")

// ErrNoKey is returned when APP_KEY is not configured.
var ErrNoKey = errors.New("crypt: APP_KEY not configured")

// Enabled reports whether an encryption key is configured.
func Enabled() bool {
	return config.AppKey() != ""
}

// key derives a 32-byte AES-256 key from the APP_KEY config value.
func key() ([]byte, error) {
	secret := config.AppKey()
	if secret == "" {
		return nil, ErrNoKey
	}
	h := sha256.Sum256([]byte(secret))
	return h[:], nil
}

// EncryptBytes encrypts raw bytes and returns a base64url string.
// The output format is: base64url(nonce || ciphertext || tag)
func EncryptBytes(data []byte) (string, error) {
	k, err := key()
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", fmt.Errorf("crypt: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("crypt: new GCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}

	// Seal appends ciphertext+tag after nonce.
	ciphertext := gcm.Seal(nonce, nonce, data, nil)
	return base64.URLEncoding.EncodeToString(ciphertext), nil
}

// DecryptBytes decrypts a base64url string produced by EncryptBytes.
func DecryptBytes(encoded string) ([]byte, error) {
	k, err := key()
	if err != nil {
		return nil, err
	}

	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecrypt
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, ErrDecrypt
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}
