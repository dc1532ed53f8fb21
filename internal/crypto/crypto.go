// Package crypto implements the at-rest envelope protecting the ledger:
// PBKDF2-SHA256 key stretching and an AES-256-GCM seal framed as
// base64(salt || nonce || ciphertext+tag).
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 16
	nonceSize  = 12
	keySize    = 32
	iterations = 100_000
)

// ErrDecryptionFailed covers every way an envelope can fail to open: wrong
// password, tampered ciphertext, truncated or unparseable input. The cases
// are indistinguishable on purpose.
var ErrDecryptionFailed = errors.New("decryption failed: wrong password or corrupted data")

// DeriveKey stretches a password into a 256-bit key. Deterministic for a
// given password and salt; different salts yield unlinkable keys.
func DeriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, keySize, sha256.New)
}

// Encrypt seals the plaintext under the password with a fresh random salt
// and nonce, so repeated calls with identical inputs never produce the same
// envelope.
func Encrypt(plaintext []byte, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	aead, err := newAEAD(DeriveKey(password, salt))
	if err != nil {
		return "", err
	}

	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	envelope := make([]byte, 0, saltSize+nonceSize+len(ciphertext))
	envelope = append(envelope, salt...)
	envelope = append(envelope, nonce...)
	envelope = append(envelope, ciphertext...)

	return base64.StdEncoding.EncodeToString(envelope), nil
}

// Decrypt opens an envelope produced by Encrypt. Any failure is reported as
// ErrDecryptionFailed with no further detail.
func Decrypt(envelope string, password string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	if len(data) < saltSize+nonceSize {
		return nil, ErrDecryptionFailed
	}

	salt := data[:saltSize]
	nonce := data[saltSize : saltSize+nonceSize]
	ciphertext := data[saltSize+nonceSize:]

	aead, err := newAEAD(DeriveKey(password, salt))
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return aead, nil
}
