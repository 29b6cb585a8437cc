package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"
)

// TokenLength is the length of a verification token in characters
const TokenLength = 16

// GenerateVerificationToken derives a 16 character uppercase hex token from a
// passphrase and a point in time.
//
// The token is a window of HMAC-SHA256(key = public key hex, message = unix
// millis as decimal). The window starts at the last decimal digit of the millis
// and is read circularly over the 64 character digest.
func GenerateVerificationToken(seed string, at time.Time) (string, error) {
	publicKey, err := DerivePublicKey(seed)
	if err != nil {
		return "", err
	}

	now := strconv.FormatInt(at.UnixMilli(), 10)

	mac := hmac.New(sha256.New, []byte(publicKey))
	mac.Write([]byte(now))
	digest := hex.EncodeToString(mac.Sum(nil))

	offset := int(now[len(now)-1] - '0')
	return strings.ToUpper(window(digest, offset, TokenLength)), nil
}

// window returns n characters of s starting at offset, wrapping around the end of s
func window(s string, offset, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(s[(offset+i)%len(s)])
	}
	return b.String()
}

// IsVerificationToken reports whether s has the shape of a generated token
func IsVerificationToken(s string) bool {
	if len(s) != TokenLength {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
