package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/client/client"
	"github.com/splitvault/splitvault/internal/common"
)

// fakeClient simulates the backend the way the real one behaves: it stores
// only opaque strings and never inspects ciphertext. Shared across
// "devices" in tests; login switches the acting user.
type fakeClient struct {
	mu sync.Mutex

	nextUserID int64
	users      map[string]*fakeUser
	groups     map[uuid.UUID]*fakeGroup
	invites    map[string]api.RedeemInvitationResponse
	receipts   map[string][]byte

	currentUser int64
}

type fakeUser struct {
	id               int64
	authToken        string
	wrappedMasterKey string
}

type fakeGroup struct {
	id          uuid.UUID
	name        string
	wrappedKeys map[int64]string
	members     []api.Member
	txs         []api.Transaction
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		users:    make(map[string]*fakeUser),
		groups:   make(map[uuid.UUID]*fakeGroup),
		invites:  make(map[string]api.RedeemInvitationResponse),
		receipts: make(map[string][]byte),
	}
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Register(_ context.Context, username string, authToken []byte, wrappedMasterKey string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[username]; ok {
		return common.ErrAlreadyExists
	}
	f.nextUserID++
	f.users[username] = &fakeUser{
		id:               f.nextUserID,
		authToken:        base64.StdEncoding.EncodeToString(authToken),
		wrappedMasterKey: wrappedMasterKey,
	}
	return nil
}

func (f *fakeClient) Login(_ context.Context, username string, authToken []byte) (*api.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok || u.authToken != base64.StdEncoding.EncodeToString(authToken) {
		return nil, common.ErrUnauthorized
	}
	f.currentUser = u.id
	return &api.LoginResponse{
		UserID:           u.id,
		AccessToken:      "access",
		RefreshToken:     "refresh",
		WrappedMasterKey: u.wrappedMasterKey,
	}, nil
}

func (f *fakeClient) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.currentUser = 0
}

func (f *fakeClient) Ping(context.Context) error { return nil }

func (f *fakeClient) ListGroups(context.Context) ([]api.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []api.Group
	for _, g := range f.groups {
		wrapped, ok := g.wrappedKeys[f.currentUser]
		if !ok {
			continue
		}
		out = append(out, api.Group{
			ID:           g.id,
			GroupKey:     wrapped,
			Name:         g.name,
			Members:      append([]api.Member(nil), g.members...),
			Transactions: append([]api.Transaction(nil), g.txs...),
		})
	}
	return out, nil
}

func (f *fakeClient) CreateGroup(_ context.Context, req api.CreateGroupRequest) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := &fakeGroup{
		id:          uuid.New(),
		name:        req.Name,
		wrappedKeys: map[int64]string{f.currentUser: req.WrappedGroupKey},
		members:     []api.Member{{UserID: f.currentUser, Username: req.Username, Rights: "admin"}},
	}
	f.groups[g.id] = g
	return g.id, nil
}

func (f *fakeClient) AddTransaction(_ context.Context, groupID uuid.UUID, tx api.Transaction) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[groupID]
	if !ok {
		return uuid.Nil, common.ErrNotFound
	}
	tx.ID = uuid.New()
	g.txs = append(g.txs, tx)
	return tx.ID, nil
}

func (f *fakeClient) CreateInvitation(_ context.Context, req api.CreateInvitationRequest) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invites[req.VerificationToken] = api.RedeemInvitationResponse{
		GroupID:         req.GroupID,
		WrappedGroupKey: req.WrappedGroupKey,
	}
	return uuid.New(), nil
}

func (f *fakeClient) RedeemInvitation(_ context.Context, verificationToken string) (*api.RedeemInvitationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resp, ok := f.invites[verificationToken]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &resp, nil
}

func (f *fakeClient) JoinGroup(_ context.Context, req api.JoinGroupRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.groups[req.GroupID]
	if !ok {
		return common.ErrNotFound
	}
	g.wrappedKeys[f.currentUser] = req.WrappedGroupKey
	g.members = append(g.members, api.Member{UserID: f.currentUser, Username: req.Username, Rights: "member"})
	return nil
}

func (f *fakeClient) PresignReceiptPut(context.Context) (*api.PresignPutResponse, error) {
	key := uuid.NewString()
	return &api.PresignPutResponse{Key: key, URL: "fake://" + key}, nil
}

func (f *fakeClient) PresignReceiptGet(_ context.Context, key string) (string, error) {
	return "fake://" + key, nil
}

func (f *fakeClient) UploadReceipt(_ context.Context, url string, ciphertext []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receipts[strings.TrimPrefix(url, "fake://")] = ciphertext
	return nil
}

func (f *fakeClient) DownloadReceipt(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.receipts[strings.TrimPrefix(url, "fake://")]
	if !ok {
		return nil, fmt.Errorf("no such receipt: %w", common.ErrNotFound)
	}
	return data, nil
}
