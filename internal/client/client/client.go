// Package client implements the transport collaborator: a JSON-over-HTTP
// client for the SplitVault backend. Everything it carries is either plain
// routing data or base64 ciphertext; it never sees a key or a plaintext
// ledger field.
package client

import (
	"context"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/api"
)

// Client is the call surface the application services depend on.
type Client interface {
	Register(ctx context.Context, username string, authToken []byte, wrappedMasterKey string) error
	Login(ctx context.Context, username string, authToken []byte) (*api.LoginResponse, error)
	Logout()
	Ping(ctx context.Context) error

	ListGroups(ctx context.Context) ([]api.Group, error)
	CreateGroup(ctx context.Context, req api.CreateGroupRequest) (uuid.UUID, error)
	AddTransaction(ctx context.Context, groupID uuid.UUID, tx api.Transaction) (uuid.UUID, error)

	CreateInvitation(ctx context.Context, req api.CreateInvitationRequest) (uuid.UUID, error)
	RedeemInvitation(ctx context.Context, verificationToken string) (*api.RedeemInvitationResponse, error)
	JoinGroup(ctx context.Context, req api.JoinGroupRequest) error

	PresignReceiptPut(ctx context.Context) (*api.PresignPutResponse, error)
	PresignReceiptGet(ctx context.Context, key string) (string, error)
	UploadReceipt(ctx context.Context, url string, ciphertext []byte) error
	DownloadReceipt(ctx context.Context, url string) ([]byte, error)
}

var _ Client = (*HTTPClient)(nil)
