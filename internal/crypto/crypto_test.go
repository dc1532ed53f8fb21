package crypto_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/crypto"
)

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	tests := []struct {
		name      string
		plaintext string
		password  string
	}{
		{"Simple", `{"accounts":[]}`, "hunter22"},
		{"Empty", "", "hunter22"},
		{"Unicode", "备注 with ünïcode €", "päss wörd"},
		{"Long", string(make([]byte, 64*1024)), "p"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			envelope, err := crypto.Encrypt([]byte(tt.plaintext), tt.password)
			require.NoError(t, err)

			plaintext, err := crypto.Decrypt(envelope, tt.password)
			require.NoError(t, err)
			assert.Equal(t, tt.plaintext, string(plaintext))
		})
	}
}

func TestDecrypt_WrongPassword(t *testing.T) {
	envelope, err := crypto.Encrypt([]byte("secret ledger"), "correct")
	require.NoError(t, err)

	_, err = crypto.Decrypt(envelope, "incorrect")
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestEncrypt_FreshSaltAndNonce(t *testing.T) {
	// Same plaintext and password must still never produce the same bytes.
	first, err := crypto.Encrypt([]byte("same input"), "same password")
	require.NoError(t, err)

	second, err := crypto.Encrypt([]byte("same input"), "same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecrypt_Tampered(t *testing.T) {
	envelope, err := crypto.Encrypt([]byte("secret ledger"), "pw")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	// Flip one ciphertext bit; the tag check must fail.
	raw[len(raw)-1] ^= 0x01

	_, err = crypto.Decrypt(base64.StdEncoding.EncodeToString(raw), "pw")
	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}

func TestDecrypt_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		envelope string
	}{
		{"NotBase64", "!!! not base64 !!!"},
		{"Empty", ""},
		{"TooShort", base64.StdEncoding.EncodeToString([]byte("short"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := crypto.Decrypt(tt.envelope, "pw")
			assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
		})
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	assert.Equal(t, crypto.DeriveKey("pw", salt), crypto.DeriveKey("pw", salt))
	assert.NotEqual(t, crypto.DeriveKey("pw", salt), crypto.DeriveKey("pw2", salt))
	assert.NotEqual(t, crypto.DeriveKey("pw", salt), crypto.DeriveKey("pw", []byte("fedcba9876543210")))
	assert.Len(t, crypto.DeriveKey("pw", salt), 32)
}
