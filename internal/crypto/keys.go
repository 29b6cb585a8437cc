package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/ripemd160"
)

const (
	// Network version bytes used as the Base58Check prefix of ARK addresses
	MainnetVersion byte = 0x17 // 23, addresses start with "A"
	DevnetVersion  byte = 0x1e // 30, addresses start with "D"

	publicKeyLen = 33 // compressed secp256k1 point
)

// NetworkVersion returns the address version byte of a named network
func NetworkVersion(network string) (byte, bool) {
	switch network {
	case "mainnet":
		return MainnetVersion, true
	case "devnet":
		return DevnetVersion, true
	}
	return 0, false
}

var (
	ErrInvalidSeed      = errors.New("seed cannot produce a valid key")
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidAddress   = errors.New("invalid address")
)

// KeyPair is the wallet key material derived from a passphrase
type KeyPair struct {
	PublicKey  string // hex encoded compressed point
	PrivateKey *btcec.PrivateKey
	Address    string
}

// DeriveKeyPair derives the key pair of a passphrase for the given network version.
// The private key is SHA256 of the passphrase bytes.
func DeriveKeyPair(seed string, version byte) (*KeyPair, error) {
	privKey, pubKey, err := keysFromSeed(seed)
	if err != nil {
		return nil, err
	}

	compressed := pubKey.SerializeCompressed()
	return &KeyPair{
		PublicKey:  hex.EncodeToString(compressed),
		PrivateKey: privKey,
		Address:    addressFromPublicKey(compressed, version),
	}, nil
}

// DeriveAddress returns the address of a passphrase for the given network version
func DeriveAddress(seed string, version byte) (string, error) {
	keys, err := DeriveKeyPair(seed, version)
	if err != nil {
		return "", err
	}
	return keys.Address, nil
}

// DerivePublicKey returns the hex compressed public key of a passphrase.
// The public key does not depend on the network version.
func DerivePublicKey(seed string) (string, error) {
	_, pubKey, err := keysFromSeed(seed)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(pubKey.SerializeCompressed()), nil
}

// AddressFromPublicKey converts a hex compressed public key to an address
func AddressFromPublicKey(publicKeyHex string, version byte) (string, error) {
	pubKey, err := ParsePublicKey(publicKeyHex)
	if err != nil {
		return "", err
	}
	return addressFromPublicKey(pubKey.SerializeCompressed(), version), nil
}

// ParsePublicKey decodes a hex compressed public key
func ParsePublicKey(publicKeyHex string) (*btcec.PublicKey, error) {
	raw, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	if len(raw) != publicKeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPublicKey, publicKeyLen, len(raw))
	}

	pubKey, err := btcec.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pubKey, nil
}

// DecodeAddress returns the 21 byte payload (version + RIPEMD160) of an address
// after checking its checksum and network version.
func DecodeAddress(address string, version byte) ([]byte, error) {
	payload, got, err := base58.CheckDecode(address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if got != version {
		return nil, fmt.Errorf("%w: network version %d, expected %d", ErrInvalidAddress, got, version)
	}
	if len(payload) != ripemd160.Size {
		return nil, fmt.Errorf("%w: payload length %d", ErrInvalidAddress, len(payload))
	}

	return append([]byte{version}, payload...), nil
}

// ValidateAddress checks that address is a well formed address of the given network
func ValidateAddress(address string, version byte) bool {
	_, err := DecodeAddress(address, version)
	return err == nil
}

func keysFromSeed(seed string) (*btcec.PrivateKey, *btcec.PublicKey, error) {
	if seed == "" {
		return nil, nil, ErrInvalidSeed
	}

	digest := sha256.Sum256([]byte(seed))
	defer clear(digest[:])

	// Reject digests outside [1, N-1]
	var scalar btcec.ModNScalar
	if overflow := scalar.SetByteSlice(digest[:]); overflow || scalar.IsZero() {
		return nil, nil, ErrInvalidSeed
	}

	privKey, pubKey := btcec.PrivKeyFromBytes(digest[:])
	return privKey, pubKey, nil
}

func addressFromPublicKey(compressed []byte, version byte) string {
	hasher := ripemd160.New()
	hasher.Write(compressed)
	return base58.CheckEncode(hasher.Sum(nil), version)
}
