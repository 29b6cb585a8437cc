package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

// SigningError is returned when a message cannot be signed with a passphrase
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("failed to sign message: %v", e.Err)
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// VerificationError is returned when a signature or public key is malformed.
// A well formed signature that does not match is not an error.
type VerificationError struct {
	Field string // "signature" or "publicKey"
	Err   error
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Field, e.Err)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

// Sign signs SHA256(message) with the passphrase private key.
// Nonces are deterministic (RFC6979), the signature is DER encoded hex.
func Sign(message, seed string) (string, error) {
	privKey, _, err := keysFromSeed(seed)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	defer privKey.Zero()

	return SignWithKey(message, privKey), nil
}

// SignWithKey signs SHA256(message) with an already derived private key
func SignWithKey(message string, privKey *btcec.PrivateKey) string {
	digest := sha256.Sum256([]byte(message))
	return hex.EncodeToString(SignDigest(digest[:], privKey))
}

// SignDigest signs a 32 byte digest and returns the DER signature
func SignDigest(digest []byte, privKey *btcec.PrivateKey) []byte {
	return ecdsa.Sign(privKey, digest).Serialize()
}

// Verify checks a hex DER signature of SHA256(message) against a hex compressed public key.
// Returns (false, nil) for a valid encoding that does not verify and
// (false, *VerificationError) when the signature or public key cannot be parsed.
func Verify(message, signatureHex, publicKeyHex string) (bool, error) {
	digest := sha256.Sum256([]byte(message))
	return VerifyDigest(digest[:], signatureHex, publicKeyHex)
}

// VerifyDigest is Verify for an already hashed 32 byte digest
func VerifyDigest(digest []byte, signatureHex, publicKeyHex string) (bool, error) {
	pubKey, err := ParsePublicKey(publicKeyHex)
	if err != nil {
		return false, &VerificationError{Field: "publicKey", Err: err}
	}

	rawSig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return false, &VerificationError{Field: "signature", Err: err}
	}

	sig, err := ecdsa.ParseDERSignature(rawSig)
	if err != nil {
		return false, &VerificationError{Field: "signature", Err: err}
	}

	return sig.Verify(digest, pubKey), nil
}
