package model

import (
	"encoding/json"
	"fmt"
)

// ClientStatus tells whether the signer of a registration is a trusted issuer.
// It marshals to true, false or "unknown".
type ClientStatus int

const (
	ClientNotVerified ClientStatus = iota
	ClientVerified
	ClientUnknown
)

func (s ClientStatus) String() string {
	switch s {
	case ClientVerified:
		return "true"
	case ClientNotVerified:
		return "false"
	default:
		return "unknown"
	}
}

func (s ClientStatus) MarshalJSON() ([]byte, error) {
	switch s {
	case ClientVerified:
		return []byte("true"), nil
	case ClientNotVerified:
		return []byte("false"), nil
	default:
		return []byte(`"unknown"`), nil
	}
}

func (s *ClientStatus) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		if b {
			*s = ClientVerified
		} else {
			*s = ClientNotVerified
		}
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil || str != "unknown" {
		return fmt.Errorf("invalid client status %s", string(data))
	}
	*s = ClientUnknown
	return nil
}

// Registration is the result of adding a verification key to the chain
type Registration struct {
	TransactionID   string `json:"transactionId"`
	Signature       string `json:"signature"`
	VerificationKey string `json:"verificationKey"`
}

// VerificationResult is the verdict on a (transaction, signature) pair
type VerificationResult struct {
	Authentic       bool         `json:"authentic"`
	VerifiedClient  ClientStatus `json:"verifiedClient"`
	VerificationKey string       `json:"verificationKey"`
	TransactionID   string       `json:"transactionId"`
	Signature       string       `json:"signature"`
	PublicKey       string       `json:"publicKey"`
}

// AddKeyRequest represents request for POST /add
type AddKeyRequest struct {
	Seed         string `json:"seed" validate:"required"`
	SecondSecret string `json:"secondSecret,omitempty"`
}

// VerifyRequest represents request parameters for GET /verify
type VerifyRequest struct {
	TransactionID string `form:"tx" validate:"txid"`
	Signature     string `form:"signature" validate:"required"`
}

// LabelResponse represents response for GET /label?format=base64
type LabelResponse struct {
	URL string `json:"url"`
	QR  string `json:"qr"` // base64 PNG
}
