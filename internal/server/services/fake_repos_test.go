package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/dbx"
	"github.com/splitvault/splitvault/internal/server/models"
	"github.com/splitvault/splitvault/internal/server/repositories/groups"
	"github.com/splitvault/splitvault/internal/server/repositories/invitations"
	"github.com/splitvault/splitvault/internal/server/repositories/refreshtokens"
	"github.com/splitvault/splitvault/internal/server/repositories/transactions"
	"github.com/splitvault/splitvault/internal/server/repositories/users"
)

// memManager is an in-memory RepositoryManager. Service tests combine it
// with a sqlmock *sql.DB that only supplies transaction boundaries.
type memManager struct {
	users         *memUsers
	refreshTokens *memRefreshTokens
	groups        *memGroups
	transactions  *memTransactions
	invitations   *memInvitations
}

func newMemManager() *memManager {
	return &memManager{
		users:         &memUsers{byName: map[string]*models.User{}},
		refreshTokens: &memRefreshTokens{tokens: map[string]*models.RefreshToken{}},
		groups: &memGroups{
			groups:  map[uuid.UUID]*models.Group{},
			members: map[uuid.UUID][]models.GroupMember{},
		},
		transactions: &memTransactions{
			byGroup: map[uuid.UUID][]models.Transaction{},
			shares:  map[uuid.UUID][]models.TransactionShare{},
		},
		invitations: &memInvitations{byToken: map[string]*models.Invitation{}},
	}
}

func (m *memManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *memManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.refreshTokens }
func (m *memManager) Groups(dbx.DBTX) groups.Repository               { return m.groups }
func (m *memManager) Transactions(dbx.DBTX) transactions.Repository   { return m.transactions }
func (m *memManager) Invitations(dbx.DBTX) invitations.Repository     { return m.invitations }
func (m *memManager) RunMigrations(context.Context, *sql.DB) error    { return nil }

type memUsers struct {
	nextID int64
	byName map[string]*models.User
}

func (r *memUsers) Create(_ context.Context, user *models.User) (*models.User, error) {
	if _, ok := r.byName[user.Username]; ok {
		return nil, common.ErrAlreadyExists
	}
	r.nextID++
	user.ID = r.nextID
	r.byName[user.Username] = user
	return user, nil
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := r.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return user, nil
}

type memRefreshTokens struct {
	tokens map[string]*models.RefreshToken
}

func (r *memRefreshTokens) Create(_ context.Context, userID int64, token string, validity time.Duration) error {
	r.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (r *memRefreshTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	t, ok := r.tokens[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (r *memRefreshTokens) Delete(_ context.Context, token string) error {
	delete(r.tokens, token)
	return nil
}

type memGroups struct {
	groups  map[uuid.UUID]*models.Group
	members map[uuid.UUID][]models.GroupMember
}

func (r *memGroups) Create(_ context.Context, group *models.Group) error {
	r.groups[group.ID] = group
	return nil
}

func (r *memGroups) AddMember(_ context.Context, member *models.GroupMember) error {
	for _, m := range r.members[member.GroupID] {
		if m.UserID == member.UserID {
			return common.ErrAlreadyExists
		}
	}
	r.members[member.GroupID] = append(r.members[member.GroupID], *member)
	return nil
}

func (r *memGroups) IsMember(_ context.Context, groupID uuid.UUID, userID int64) (bool, error) {
	for _, m := range r.members[groupID] {
		if m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memGroups) ListForUser(_ context.Context, userID int64) ([]groups.Membership, error) {
	var result []groups.Membership
	for id, g := range r.groups {
		for _, m := range r.members[id] {
			if m.UserID == userID {
				result = append(result, groups.Membership{Group: *g, WrappedGroupKey: m.WrappedGroupKey})
			}
		}
	}
	return result, nil
}

func (r *memGroups) Members(_ context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	return r.members[groupID], nil
}

type memTransactions struct {
	byGroup map[uuid.UUID][]models.Transaction
	shares  map[uuid.UUID][]models.TransactionShare
}

func (r *memTransactions) Create(_ context.Context, tx *models.Transaction, shares []models.TransactionShare) error {
	r.byGroup[tx.GroupID] = append(r.byGroup[tx.GroupID], *tx)
	for i := range shares {
		shares[i].TransactionID = tx.ID
		shares[i].Position = i
	}
	r.shares[tx.ID] = shares
	return nil
}

func (r *memTransactions) ListForGroup(_ context.Context, groupID uuid.UUID) ([]models.Transaction, error) {
	return r.byGroup[groupID], nil
}

func (r *memTransactions) SharesForGroup(_ context.Context, groupID uuid.UUID) (map[uuid.UUID][]models.TransactionShare, error) {
	result := make(map[uuid.UUID][]models.TransactionShare)
	for _, tx := range r.byGroup[groupID] {
		result[tx.ID] = r.shares[tx.ID]
	}
	return result, nil
}

type memInvitations struct {
	byToken map[string]*models.Invitation
}

func (r *memInvitations) Create(_ context.Context, invitation *models.Invitation) error {
	r.byToken[invitation.VerificationToken] = invitation
	return nil
}

func (r *memInvitations) FindByToken(_ context.Context, token string) (*models.Invitation, error) {
	inv, ok := r.byToken[token]
	if !ok {
		return nil, common.ErrNotFound
	}
	return inv, nil
}
