package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSignature = "304402201ce8b1d3a3185c2b3a5b4a438afc53886c327bc92d960feb47be175f905f8ae2022058bd754cc9df6f4826d89496ec9437b17b7fdbeb4c847eae9427f8f89f0abc15"

func TestSign_KnownVector(t *testing.T) {
	sig, err := Sign("ArkAuthenticityKey", testSeed)
	require.NoError(t, err)
	assert.Equal(t, testSignature, sig)

	ok, err := Verify("ArkAuthenticityKey", sig, testPublicKey)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSign_InvalidSeed(t *testing.T) {
	_, err := Sign("message", "")

	var signErr *SigningError
	require.True(t, errors.As(err, &signErr))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestSignVerify_RoundTrip(t *testing.T) {
	seeds := []string{testSeed, "second passphrase", "x"}
	messages := []string{"0D4076FFC3087EA8", "ArkAuthenticityKey", "", "marcs1970"}

	for _, seed := range seeds {
		publicKey, err := DerivePublicKey(seed)
		require.NoError(t, err)

		for _, msg := range messages {
			sig, err := Sign(msg, seed)
			require.NoError(t, err)

			ok, err := Verify(msg, sig, publicKey)
			require.NoError(t, err)
			assert.True(t, ok, fmt.Sprintf("seed=%q msg=%q", seed, msg))
		}
	}
}

func TestVerify_WrongMessageOrKey(t *testing.T) {
	ok, err := Verify("ArkAuthenticityKeY", testSignature, testPublicKey)
	require.NoError(t, err)
	assert.False(t, ok)

	otherKey, err := DerivePublicKey("another wallet")
	require.NoError(t, err)
	ok, err = Verify("ArkAuthenticityKey", testSignature, otherKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_FlippedCharacterNeverVerifies(t *testing.T) {
	for i := range testSignature {
		flipped := []byte(testSignature)
		if flipped[i] == '0' {
			flipped[i] = '1'
		} else {
			flipped[i] = '0'
		}

		ok, _ := Verify("ArkAuthenticityKey", string(flipped), testPublicKey)
		assert.False(t, ok, "position %d", i)
	}
}

func TestVerify_MalformedInput(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		publicKey string
		field     string
	}{
		{"non hex signature", "BAD5zz", testPublicKey, "signature"},
		{"bad DER header", "BAD5022100fc7e30b895cc97bd00895d8e0751e800dae36922a03f46168ff1d9588b66e38e02200a2214497abb119de2a8031465f33e02714c990fb39782c24c7f0676598616c6", testPublicKey, "signature"},
		{"empty signature", "", testPublicKey, "signature"},
		{"short public key", testSignature, "03e734", "publicKey"},
		{"x beyond field prime", testSignature, "02" + strings.Repeat("ff", 32), "publicKey"},
		{"unknown prefix", testSignature, "05" + testPublicKey[2:], "publicKey"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := Verify("ArkAuthenticityKey", tt.signature, tt.publicKey)
			assert.False(t, ok)

			var verr *VerificationError
			require.True(t, errors.As(err, &verr), "expected VerificationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestVerifyDigest(t *testing.T) {
	digest := sha256.Sum256([]byte("ArkAuthenticityKey"))

	ok, err := VerifyDigest(digest[:], testSignature, testPublicKey)
	require.NoError(t, err)
	assert.True(t, ok)

	other := sha256.Sum256([]byte("ArkAuthenticityKey!"))
	ok, err = VerifyDigest(other[:], testSignature, testPublicKey)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyDigest(digest[:], "BAD5zz", testPublicKey)
	var verr *VerificationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "signature", verr.Field)
}
