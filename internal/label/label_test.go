package label

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestVerifyURL(t *testing.T) {
	link, err := VerifyURL("https://verify.example.com/", "ab12", "3045+/=")
	require.NoError(t, err)
	assert.Equal(t, "https://verify.example.com/verify?signature=3045%2B%2F%3D&tx=ab12", link)

	link, err = VerifyURL("http://localhost:8080/api", "ab12", "3045")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api/verify?signature=3045&tx=ab12", link)
}

func TestVerifyURL_Invalid(t *testing.T) {
	for _, base := range []string{"", "verify.example.com", "://nope"} {
		_, err := VerifyURL(base, "ab12", "3045")
		assert.Error(t, err, base)
	}
}

func TestPNG(t *testing.T) {
	png, err := PNG("https://verify.example.com/verify?tx=ab12&signature=3045", DefaultSize)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic))
}

func TestPNG_Invalid(t *testing.T) {
	_, err := PNG("https://verify.example.com", MinSize-1)
	assert.Error(t, err)

	_, err = PNG("https://verify.example.com", MaxSize+1)
	assert.Error(t, err)

	_, err = PNG("", DefaultSize)
	assert.Error(t, err)
}

func TestBase64PNG(t *testing.T) {
	encoded, err := Base64PNG("https://verify.example.com", DefaultSize)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, pngMagic))
}
