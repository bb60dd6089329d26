package contactcsv

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

func TestDecodeUTF8_Passthrough(t *testing.T) {
	input := "Name,Email\nJosé García,jose@example.com\n"

	r, err := decodeUTF8(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestDecodeUTF8_Latin1(t *testing.T) {
	// Windows-1252 encoded "José\n": é = 0xE9.
	latin1Bytes := []byte{'J', 'o', 's', 0xE9, '\n'}

	r, err := decodeUTF8(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "José\n", string(got))
}

func TestDecodeUTF8_UTF8BOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte("Name,Email\n")
	input := append(bom, content...)

	r, err := decodeUTF8(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\n", string(got))
}

func TestDecodeUTF8_UTF16LE(t *testing.T) {
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	utf16Bytes, err := encoder.Bytes([]byte("Name,Email\n"))
	require.NoError(t, err)

	r, err := decodeUTF8(bytes.NewReader(utf16Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\n", string(got))
}
