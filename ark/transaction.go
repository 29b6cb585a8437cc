package ark

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/AlexZinkM/authenticity-key/internal/common"
	"github.com/AlexZinkM/authenticity-key/internal/crypto"
	"github.com/AlexZinkM/authenticity-key/internal/model"
)

const (
	RegistrationAmount int64 = 1        // 0.00000001 ARK
	TransferFee        int64 = 10000000 // 0.1 ARK
)

// BuildError is returned when a registration transaction cannot be built
type BuildError struct {
	Err error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("failed to build transaction: %v", e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// BuildRegistrationTransaction builds a self addressed transfer of the minimal
// amount carrying token in its vendor field.
// secondSecret is optional, when set the transaction gets a second signature.
func BuildRegistrationTransaction(seed, secondSecret, token string, version byte, at time.Time) (*model.Transaction, error) {
	keys, err := crypto.DeriveKeyPair(seed, version)
	if err != nil {
		return nil, &BuildError{Err: fmt.Errorf("failed to derive address: %w", err)}
	}
	defer keys.PrivateKey.Zero()

	tx := &model.Transaction{
		Type:            model.TransactionTypeTransfer,
		Amount:          RegistrationAmount,
		Fee:             TransferFee,
		RecipientID:     keys.Address,
		Timestamp:       common.ArkTimestamp(at),
		Asset:           map[string]any{},
		VendorField:     token,
		SenderPublicKey: keys.PublicKey,
	}

	// Sign with the first passphrase
	unsigned, err := serialize(tx, version, false, false)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	digest := sha256.Sum256(unsigned)
	tx.Signature = hex.EncodeToString(crypto.SignDigest(digest[:], keys.PrivateKey))

	// Second signature covers the first one
	if secondSecret != "" {
		secondKeys, err := crypto.DeriveKeyPair(secondSecret, version)
		if err != nil {
			return nil, &BuildError{Err: fmt.Errorf("invalid second secret: %w", err)}
		}
		defer secondKeys.PrivateKey.Zero()

		signed, err := serialize(tx, version, true, false)
		if err != nil {
			return nil, &BuildError{Err: err}
		}
		digest := sha256.Sum256(signed)
		tx.SignSignature = hex.EncodeToString(crypto.SignDigest(digest[:], secondKeys.PrivateKey))
	}

	id, err := ID(tx, version)
	if err != nil {
		return nil, &BuildError{Err: err}
	}
	tx.ID = id

	return tx, nil
}

// ID computes the hash of a fully signed transaction
func ID(tx *model.Transaction, version byte) (string, error) {
	full, err := serialize(tx, version, true, true)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(full)
	return hex.EncodeToString(sum[:]), nil
}

// VerifyTransaction checks the sender signature of tx.
// When secondPublicKey is set the second signature is checked as well.
func VerifyTransaction(tx *model.Transaction, version byte, secondPublicKey string) (bool, error) {
	unsigned, err := serialize(tx, version, false, false)
	if err != nil {
		return false, err
	}
	if ok, err := verifyDigest(unsigned, tx.Signature, tx.SenderPublicKey); err != nil || !ok {
		return false, err
	}

	if secondPublicKey == "" {
		return true, nil
	}

	signed, err := serialize(tx, version, true, false)
	if err != nil {
		return false, err
	}
	return verifyDigest(signed, tx.SignSignature, secondPublicKey)
}

func verifyDigest(data []byte, signatureHex, publicKeyHex string) (bool, error) {
	digest := sha256.Sum256(data)
	return crypto.VerifyDigest(digest[:], signatureHex, publicKeyHex)
}
