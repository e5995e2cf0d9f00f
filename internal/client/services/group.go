package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/client/client"
	"github.com/splitvault/splitvault/internal/client/invite"
	"github.com/splitvault/splitvault/internal/client/ledger"
	"github.com/splitvault/splitvault/internal/client/models"
	"github.com/splitvault/splitvault/internal/client/session"
	"github.com/splitvault/splitvault/internal/client/settle"
	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/cryptox"
	"github.com/splitvault/splitvault/internal/logging"
)

// GroupService owns the group ledger workflow: fetch and decrypt groups,
// add transactions, compute balances and settlement plans, run the
// invitation exchange, and move encrypted receipts.
//
// Unwrapped group keys are cached per session, keyed by group id, so a
// write does not re-fetch the whole ledger. The cache dies with the
// service; nothing is persisted.
type GroupService struct {
	client    client.Client
	session   *session.Session
	decryptor *ledger.Decryptor
	logger    logging.Logger

	mu        sync.Mutex
	groupKeys map[uuid.UUID]cryptox.Key
}

func NewGroupService(c client.Client, s *session.Session, logger logging.Logger) *GroupService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &GroupService{
		client:    c,
		session:   s,
		decryptor: ledger.New(logger),
		logger:    logger,
		groupKeys: make(map[uuid.UUID]cryptox.Key),
	}
}

// ListGroups fetches the encrypted ledger and decrypts every group with
// the session's master key.
func (g *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	encGroups, err := g.client.ListGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	masterKey := g.session.MasterKey()
	groups := make([]models.Group, 0, len(encGroups))
	for _, enc := range encGroups {
		group, err := g.decryptor.DecryptGroup(ctx, &enc, masterKey)
		if err != nil {
			return nil, fmt.Errorf("group %s: %w", enc.ID, err)
		}
		groupKey, err := cryptox.UnwrapKey(enc.GroupKey, masterKey)
		if err != nil {
			return nil, err
		}
		g.cacheKey(enc.ID, groupKey)
		groups = append(groups, *group)
	}
	return groups, nil
}

// CreateGroup generates a fresh group key, wraps it under the session's
// master key, and creates the group with the name and creator's username
// sealed under the group key.
func (g *GroupService) CreateGroup(ctx context.Context, name string) (uuid.UUID, error) {
	masterKey := g.session.MasterKey()
	if masterKey.IsZero() {
		return uuid.Nil, common.ErrUnauthorized
	}

	groupKey := cryptox.GenerateKey()
	wrapped, err := cryptox.WrapKey(groupKey, masterKey)
	if err != nil {
		return uuid.Nil, err
	}
	encName, err := cryptox.EncryptString(name, groupKey)
	if err != nil {
		return uuid.Nil, err
	}
	encUsername, err := cryptox.EncryptString(g.session.Username(), groupKey)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := g.client.CreateGroup(ctx, api.CreateGroupRequest{
		WrappedGroupKey: wrapped,
		Name:            encName,
		Username:        encUsername,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create group: %w", err)
	}

	g.cacheKey(id, groupKey)
	g.logger.Info(ctx, "group created", "group_id", id)
	return id, nil
}

// AddExpense seals a new transaction under the group key and submits it.
// The group must have been listed (or created) in this session so its key
// is available.
func (g *GroupService) AddExpense(ctx context.Context, groupID uuid.UUID, tx models.Transaction) (uuid.UUID, error) {
	groupKey, err := g.groupKey(groupID)
	if err != nil {
		return uuid.Nil, err
	}

	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}
	if tx.Type == "" {
		tx.Type = models.TransactionTypeExpense
	}

	enc, err := ledger.EncryptTransaction(tx, groupKey)
	if err != nil {
		return uuid.Nil, err
	}

	id, err := g.client.AddTransaction(ctx, groupID, *enc)
	if err != nil {
		return uuid.Nil, fmt.Errorf("add transaction: %w", err)
	}
	return id, nil
}

// Balances computes net balances for a decrypted group, logging any
// transactions the engine excluded as anomalous.
func (g *GroupService) Balances(ctx context.Context, group *models.Group) []settle.Balance {
	balances, anomalies := settle.ComputeBalances(group.Members, group.Transactions)
	for _, id := range anomalies {
		g.logger.Warn(ctx, "transaction excluded from balances", "transaction_id", id)
	}
	return balances
}

// Settlement turns a group's balances into a repayment plan.
func (g *GroupService) Settlement(ctx context.Context, group *models.Group) ([]settle.Transfer, error) {
	return settle.ComputeEquilibrium(g.Balances(ctx, group))
}

// Invite creates an invitation for a group: the server stores only the
// verification token and the wrapped key, the caller shares the returned
// link code out of band.
func (g *GroupService) Invite(ctx context.Context, groupID uuid.UUID) (*invite.Invitation, error) {
	groupKey, err := g.groupKey(groupID)
	if err != nil {
		return nil, err
	}

	inv, err := invite.CreateInvitation(groupKey)
	if err != nil {
		return nil, err
	}

	if _, err := g.client.CreateInvitation(ctx, api.CreateInvitationRequest{
		GroupID:           groupID,
		VerificationToken: inv.VerificationToken,
		WrappedGroupKey:   inv.WrappedGroupKey,
	}); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return inv, nil
}

// Join redeems an invitation link code: it presents the verification token
// (not the secret), unwraps the group key locally, re-wraps it under the
// session's master key, and registers the membership.
func (g *GroupService) Join(ctx context.Context, linkCode string) (uuid.UUID, error) {
	secret, err := invite.ParseLinkCode(linkCode)
	if err != nil {
		return uuid.Nil, err
	}

	masterKey := g.session.MasterKey()
	if masterKey.IsZero() {
		return uuid.Nil, common.ErrUnauthorized
	}

	resp, err := g.client.RedeemInvitation(ctx, invite.VerificationToken(secret))
	if err != nil {
		return uuid.Nil, fmt.Errorf("redeem invitation: %w", err)
	}

	rewrapped, groupKey, err := invite.JoinWithInvitation(secret, resp.WrappedGroupKey, masterKey)
	if err != nil {
		return uuid.Nil, err
	}

	encUsername, err := cryptox.EncryptString(g.session.Username(), groupKey)
	if err != nil {
		return uuid.Nil, err
	}

	if err := g.client.JoinGroup(ctx, api.JoinGroupRequest{
		GroupID:         resp.GroupID,
		WrappedGroupKey: rewrapped,
		Username:        encUsername,
	}); err != nil {
		return uuid.Nil, fmt.Errorf("join group: %w", err)
	}

	g.cacheKey(resp.GroupID, groupKey)
	g.logger.Info(ctx, "joined group", "group_id", resp.GroupID)
	return resp.GroupID, nil
}

// AttachReceipt seals the receipt bytes under the group key and uploads
// the ciphertext to presigned storage. The returned storage key goes into
// the transaction being created.
func (g *GroupService) AttachReceipt(ctx context.Context, groupID uuid.UUID, data []byte) (string, error) {
	groupKey, err := g.groupKey(groupID)
	if err != nil {
		return "", err
	}

	sealed, err := cryptox.Encrypt(data, groupKey)
	if err != nil {
		return "", err
	}

	presigned, err := g.client.PresignReceiptPut(ctx)
	if err != nil {
		return "", fmt.Errorf("presign receipt: %w", err)
	}
	if err := g.client.UploadReceipt(ctx, presigned.URL, []byte(sealed)); err != nil {
		return "", err
	}
	return presigned.Key, nil
}

// FetchReceipt downloads and decrypts a transaction's receipt.
func (g *GroupService) FetchReceipt(ctx context.Context, groupID uuid.UUID, storageKey string) ([]byte, error) {
	groupKey, err := g.groupKey(groupID)
	if err != nil {
		return nil, err
	}

	url, err := g.client.PresignReceiptGet(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("presign receipt: %w", err)
	}
	sealed, err := g.client.DownloadReceipt(ctx, url)
	if err != nil {
		return nil, err
	}
	return cryptox.Decrypt(string(sealed), groupKey)
}

// Reset drops the cached group keys, e.g. on logout.
func (g *GroupService) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groupKeys = make(map[uuid.UUID]cryptox.Key)
}

func (g *GroupService) cacheKey(id uuid.UUID, key cryptox.Key) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.groupKeys[id] = key
}

func (g *GroupService) groupKey(id uuid.UUID) (cryptox.Key, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key, ok := g.groupKeys[id]
	if !ok {
		return cryptox.Key{}, fmt.Errorf("group %s not loaded: %w", id, common.ErrNotFound)
	}
	return key, nil
}
