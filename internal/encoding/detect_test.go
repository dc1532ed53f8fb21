package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cofferapp/coffer/internal/encoding"
)

func decodeAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Date,Note,Amount\n2024-03-15,Café au lait,-4.50\n2024-03-16,午餐,-32.00\n"
	assert.Equal(t, input, decodeAll(t, []byte(input)))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	content := "Date,Note,Amount\n"
	input := append([]byte{0xEF, 0xBB, 0xBF}, content...)

	assert.Equal(t, content, decodeAll(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// "Date\n" as UTF-16LE with BOM.
	input := []byte{
		0xFF, 0xFE,
		'D', 0x00, 'a', 0x00, 't', 0x00, 'e', 0x00, '\n', 0x00,
	}

	assert.Equal(t, "Date\n", decodeAll(t, input))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// "Caf<0xE9> cr<0xE8>me\n" in Windows-1252.
	input := []byte{'C', 'a', 'f', 0xE9, ' ', 'c', 'r', 0xE8, 'm', 'e', '\n'}

	assert.Equal(t, "Café crème\n", decodeAll(t, input))
}
