package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tokenPattern = regexp.MustCompile(`^[0-9A-F]{16}$`)

func TestGenerateVerificationToken_FixedClock(t *testing.T) {
	tests := []struct {
		millis int64
		want   string
	}{
		{1700000000007, "3906EE4775E68474"},
		{1700000000000, "1B1823B032C87FF4"},
	}

	for _, tt := range tests {
		token, err := GenerateVerificationToken(testSeed, time.UnixMilli(tt.millis))
		require.NoError(t, err)
		assert.Equal(t, tt.want, token)
	}
}

func TestGenerateVerificationToken_Shape(t *testing.T) {
	start := time.UnixMilli(1600000000000)
	for i := 0; i < 200; i++ {
		token, err := GenerateVerificationToken(testSeed, start.Add(time.Duration(i)*time.Millisecond))
		require.NoError(t, err)
		assert.Len(t, token, TokenLength)
		assert.Regexp(t, tokenPattern, token)
		assert.True(t, IsVerificationToken(token))
	}
}

func TestGenerateVerificationToken_OffsetIsLastDigit(t *testing.T) {
	at := time.UnixMilli(1650000000009)
	token, err := GenerateVerificationToken(testSeed, at)
	require.NoError(t, err)

	mac := hmac.New(sha256.New, []byte(testPublicKey))
	mac.Write([]byte(strconv.FormatInt(at.UnixMilli(), 10)))
	digest := hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, strings.ToUpper(digest[9:25]), token)
}

func TestGenerateVerificationToken_InvalidSeed(t *testing.T) {
	_, err := GenerateVerificationToken("", time.Now())
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestWindow_WrapsAround(t *testing.T) {
	s := "0123456789"
	assert.Equal(t, "2345", window(s, 2, 4))
	assert.Equal(t, "8901", window(s, 8, 4))
	assert.Equal(t, "90123456789012", window(s, 9, 14))
}

func TestIsVerificationToken(t *testing.T) {
	assert.True(t, IsVerificationToken("0D4076FFC3087EA8"))
	assert.False(t, IsVerificationToken("0d4076ffc3087ea8"))
	assert.False(t, IsVerificationToken("0D4076FFC3087EA"))
	assert.False(t, IsVerificationToken("marcs1970"))
}
