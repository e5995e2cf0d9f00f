// Package api defines the JSON wire contract between the SplitVault client
// and server. Every encrypted value travels as base64(nonce ‖ ciphertext ‖
// tag) text; the server stores and forwards these strings without being
// able to open them.
package api

import "github.com/google/uuid"

// Group is a group as served to one member: the group key arrives wrapped
// under that member's user key.
type Group struct {
	ID           uuid.UUID     `json:"id"`
	GroupKey     string        `json:"groupKey"`
	Name         string        `json:"name"`
	Members      []Member      `json:"members"`
	Transactions []Transaction `json:"transactions"`
}

// Member carries an encrypted username. UserID and Rights are plaintext:
// the server needs them for routing and authorization.
type Member struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Rights   string `json:"rights"`
}

// Transaction is a ledger entry with every field AEAD-sealed under the
// group key, each independently verifiable.
type Transaction struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	Name       string    `json:"name"`
	Amount     string    `json:"amount"`
	FromUserID string    `json:"fromUserId"`
	ToUsers    []Share   `json:"toUsers"`
	Date       string    `json:"date"`
	ReceiptKey string    `json:"receiptKey,omitempty"`
}

// Share is one (recipient, weight) pair, both encrypted. Element count and
// order are visible to the server, an accepted leak.
type Share struct {
	ID    string `json:"id"`
	Share string `json:"share"`
}
