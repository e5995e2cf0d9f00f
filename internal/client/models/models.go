// Package models defines the decrypted ledger types. These exist only in
// client memory; their wire counterparts (package api) stay encrypted all
// the way to the server and back.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Rights is a member's role within a group. Roles are not encrypted; the
// server needs them to authorize writes.
type Rights string

const (
	RightsAdmin  Rights = "admin"
	RightsMember Rights = "member"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionTypeExpense   TransactionType = "expense"
	TransactionTypeRepayment TransactionType = "repayment"
)

// ParseTransactionType validates a decrypted type value against the known
// set. The second return is false for values outside the set; callers
// substitute TransactionTypeExpense and flag the record.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(s) {
	case TransactionTypeExpense, TransactionTypeRepayment:
		return TransactionType(s), true
	default:
		return TransactionTypeExpense, false
	}
}

// Group is the decrypted form of a group and its ledger.
type Group struct {
	ID           uuid.UUID
	Name         string
	Members      []Member
	Transactions []Transaction
}

type Member struct {
	UserID   int64
	Username string
	Rights   Rights
}

// Transaction is a decrypted ledger entry. AmountCents is the total paid
// by FromUserID; ToUsers carries arbitrary positive split weights, not
// necessarily equal.
type Transaction struct {
	ID          uuid.UUID
	Type        TransactionType
	Name        string
	AmountCents int64
	FromUserID  int64
	ToUsers     []Share
	Date        time.Time
	ReceiptKey  string

	// Anomalous marks a record in which a decrypted value fell outside
	// its domain and a safe default was substituted.
	Anomalous bool
}

type Share struct {
	UserID int64
	Share  int64
}
