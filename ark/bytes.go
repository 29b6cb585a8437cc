package ark

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/AlexZinkM/authenticity-key/internal/crypto"
	"github.com/AlexZinkM/authenticity-key/internal/model"
)

const (
	recipientLen   = 21
	vendorFieldLen = 64
)

// serialize writes the ARK v1 byte representation of tx.
// Signatures are appended only when the matching include flag is set.
func serialize(tx *model.Transaction, version byte, withSignature, withSignSignature bool) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte(byte(tx.Type))
	_ = binary.Write(&buf, binary.LittleEndian, tx.Timestamp)

	senderPublicKey, err := hex.DecodeString(tx.SenderPublicKey)
	if err != nil || len(senderPublicKey) != 33 {
		return nil, fmt.Errorf("invalid sender public key %q", tx.SenderPublicKey)
	}
	buf.Write(senderPublicKey)

	recipient := make([]byte, recipientLen)
	if tx.RecipientID != "" {
		payload, err := crypto.DecodeAddress(tx.RecipientID, version)
		if err != nil {
			return nil, fmt.Errorf("invalid recipient: %w", err)
		}
		copy(recipient, payload)
	}
	buf.Write(recipient)

	if len(tx.VendorField) > vendorFieldLen {
		return nil, fmt.Errorf("vendor field is %d bytes, max %d", len(tx.VendorField), vendorFieldLen)
	}
	vendorField := make([]byte, vendorFieldLen)
	copy(vendorField, tx.VendorField)
	buf.Write(vendorField)

	_ = binary.Write(&buf, binary.LittleEndian, tx.Amount)
	_ = binary.Write(&buf, binary.LittleEndian, tx.Fee)

	if withSignature && tx.Signature != "" {
		sig, err := hex.DecodeString(tx.Signature)
		if err != nil {
			return nil, fmt.Errorf("invalid signature: %w", err)
		}
		buf.Write(sig)
	}

	if withSignSignature && tx.SignSignature != "" {
		sig, err := hex.DecodeString(tx.SignSignature)
		if err != nil {
			return nil, fmt.Errorf("invalid second signature: %w", err)
		}
		buf.Write(sig)
	}

	return buf.Bytes(), nil
}
