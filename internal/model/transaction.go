package model

// TransactionType is the ARK v1 transaction type
type TransactionType uint8

const (
	TransactionTypeTransfer TransactionType = 0
)

// Transaction represents a signed ARK v1 transaction as posted to a node
type Transaction struct {
	Type            TransactionType `json:"type"`
	Amount          int64           `json:"amount"` // arktoshi
	Fee             int64           `json:"fee"`    // arktoshi
	RecipientID     string          `json:"recipientId"`
	Timestamp       int32           `json:"timestamp"` // seconds since the ARK epoch
	Asset           map[string]any  `json:"asset"`
	VendorField     string          `json:"vendorField,omitempty"`
	SenderPublicKey string          `json:"senderPublicKey"`
	Signature       string          `json:"signature"`
	SignSignature   string          `json:"signSignature,omitempty"`
	ID              string          `json:"id"` // local hash, the node id is authoritative
}

// TransactionRef is the part of a confirmed transaction needed to check a registration
type TransactionRef struct {
	ID              string `json:"id"`
	SenderPublicKey string `json:"senderPublicKey"`
	VendorField     string `json:"vendorField"`
}
