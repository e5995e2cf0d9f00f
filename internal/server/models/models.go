// Package models holds the server-side row types. Every ledger field the
// server stores is an opaque string sealed on a client; the server never
// holds key material that could open one.
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID               int64
	Username         string
	AuthTokenHash    []byte
	WrappedMasterKey string
	CreatedAt        time.Time
}

type RefreshToken struct {
	ID        int64
	UserID    int64
	Token     string
	Expires   time.Time
	CreatedAt time.Time
}

type Group struct {
	ID            uuid.UUID
	EncryptedName string
	CreatedAt     time.Time
}

type GroupMember struct {
	GroupID           uuid.UUID
	UserID            int64
	WrappedGroupKey   string
	EncryptedUsername string
	Rights            string
	CreatedAt         time.Time
}

type Transaction struct {
	ID                uuid.UUID
	GroupID           uuid.UUID
	EncryptedType     string
	EncryptedName     string
	EncryptedAmount   string
	EncryptedFromUser string
	EncryptedDate     string
	ReceiptKey        string
	CreatedAt         time.Time
}

type TransactionShare struct {
	TransactionID  uuid.UUID
	Position       int
	EncryptedUser  string
	EncryptedShare string
}

type Invitation struct {
	ID                uuid.UUID
	GroupID           uuid.UUID
	VerificationToken string
	WrappedGroupKey   string
	CreatedBy         int64
	CreatedAt         time.Time
}
