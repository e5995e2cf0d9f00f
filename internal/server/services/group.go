package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/api"
	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/dbx"
	"github.com/splitvault/splitvault/internal/server/models"
	"github.com/splitvault/splitvault/internal/server/repositories/repomanager"
)

// GroupService implements the group, ledger, and invitation operations. All
// ledger payloads pass through as opaque sealed strings; the only fields the
// server interprets are ids, rights, and the invitation verification token.
type GroupService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewGroupService(db *sql.DB, m repomanager.RepositoryManager) *GroupService {
	return &GroupService{db: db, repomanager: m}
}

// CreateGroup inserts the group and its creator's admin membership in one
// transaction.
func (s *GroupService) CreateGroup(ctx context.Context, userID int64, req api.CreateGroupRequest) (uuid.UUID, error) {
	if req.WrappedGroupKey == "" || req.Name == "" {
		return uuid.Nil, common.ErrDomainValidation
	}

	groupID := uuid.New()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Groups(tx)
		if err := repo.Create(ctx, &models.Group{ID: groupID, EncryptedName: req.Name}); err != nil {
			return err
		}
		return repo.AddMember(ctx, &models.GroupMember{
			GroupID:           groupID,
			UserID:            userID,
			WrappedGroupKey:   req.WrappedGroupKey,
			EncryptedUsername: req.Username,
			Rights:            "admin",
		})
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create group: %w", err)
	}
	return groupID, nil
}

// ListGroups assembles the full encrypted ledger for every group the user
// belongs to: the member's wrapped key, all memberships, and all
// transactions with their shares.
func (s *GroupService) ListGroups(ctx context.Context, userID int64) ([]api.Group, error) {
	groupRepo := s.repomanager.Groups(s.db)
	txRepo := s.repomanager.Transactions(s.db)

	memberships, err := groupRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]api.Group, 0, len(memberships))
	for _, m := range memberships {
		members, err := groupRepo.Members(ctx, m.Group.ID)
		if err != nil {
			return nil, err
		}
		txs, err := txRepo.ListForGroup(ctx, m.Group.ID)
		if err != nil {
			return nil, err
		}
		shares, err := txRepo.SharesForGroup(ctx, m.Group.ID)
		if err != nil {
			return nil, err
		}

		group := api.Group{
			ID:       m.Group.ID,
			GroupKey: m.WrappedGroupKey,
			Name:     m.Group.EncryptedName,
		}
		for _, member := range members {
			group.Members = append(group.Members, api.Member{
				UserID:   member.UserID,
				Username: member.EncryptedUsername,
				Rights:   member.Rights,
			})
		}
		for _, tx := range txs {
			wireTx := api.Transaction{
				ID:         tx.ID,
				Type:       tx.EncryptedType,
				Name:       tx.EncryptedName,
				Amount:     tx.EncryptedAmount,
				FromUserID: tx.EncryptedFromUser,
				Date:       tx.EncryptedDate,
				ReceiptKey: tx.ReceiptKey,
			}
			for _, share := range shares[tx.ID] {
				wireTx.ToUsers = append(wireTx.ToUsers, api.Share{
					ID:    share.EncryptedUser,
					Share: share.EncryptedShare,
				})
			}
			group.Transactions = append(group.Transactions, wireTx)
		}
		result = append(result, group)
	}
	return result, nil
}

// AddTransaction stores a sealed transaction. The caller must be a member
// of the group.
func (s *GroupService) AddTransaction(ctx context.Context, userID int64, groupID uuid.UUID, tx api.Transaction) (uuid.UUID, error) {
	if err := s.requireMembership(ctx, groupID, userID); err != nil {
		return uuid.Nil, err
	}
	if tx.Type == "" || tx.Amount == "" {
		return uuid.Nil, common.ErrDomainValidation
	}

	txID := uuid.New()
	row := &models.Transaction{
		ID:                txID,
		GroupID:           groupID,
		EncryptedType:     tx.Type,
		EncryptedName:     tx.Name,
		EncryptedAmount:   tx.Amount,
		EncryptedFromUser: tx.FromUserID,
		EncryptedDate:     tx.Date,
		ReceiptKey:        tx.ReceiptKey,
	}
	shares := make([]models.TransactionShare, 0, len(tx.ToUsers))
	for _, share := range tx.ToUsers {
		shares = append(shares, models.TransactionShare{
			EncryptedUser:  share.ID,
			EncryptedShare: share.Share,
		})
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, dbtx dbx.DBTX) error {
		return s.repomanager.Transactions(dbtx).Create(ctx, row, shares)
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("add transaction: %w", err)
	}
	return txID, nil
}

// CreateInvitation stores an invitation for a group the caller administers.
func (s *GroupService) CreateInvitation(ctx context.Context, userID int64, req api.CreateInvitationRequest) (uuid.UUID, error) {
	if req.VerificationToken == "" || req.WrappedGroupKey == "" {
		return uuid.Nil, common.ErrDomainValidation
	}
	if err := s.requireMembership(ctx, req.GroupID, userID); err != nil {
		return uuid.Nil, err
	}

	invitation := &models.Invitation{
		ID:                uuid.New(),
		GroupID:           req.GroupID,
		VerificationToken: req.VerificationToken,
		WrappedGroupKey:   req.WrappedGroupKey,
		CreatedBy:         userID,
	}
	if err := s.repomanager.Invitations(s.db).Create(ctx, invitation); err != nil {
		return uuid.Nil, fmt.Errorf("create invitation: %w", err)
	}
	return invitation.ID, nil
}

// RedeemInvitation looks up an invitation by its verification token. Knowing
// the token proves knowledge of the link secret without revealing it.
func (s *GroupService) RedeemInvitation(ctx context.Context, verificationToken string) (*models.Invitation, error) {
	invitation, err := s.repomanager.Invitations(s.db).FindByToken(ctx, verificationToken)
	if err != nil {
		return nil, err
	}
	return invitation, nil
}

// JoinGroup registers a redeemed invitation as a membership.
func (s *GroupService) JoinGroup(ctx context.Context, userID int64, req api.JoinGroupRequest) error {
	if req.WrappedGroupKey == "" {
		return common.ErrDomainValidation
	}
	err := s.repomanager.Groups(s.db).AddMember(ctx, &models.GroupMember{
		GroupID:           req.GroupID,
		UserID:            userID,
		WrappedGroupKey:   req.WrappedGroupKey,
		EncryptedUsername: req.Username,
		Rights:            "member",
	})
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return err
		}
		return fmt.Errorf("join group: %w", err)
	}
	return nil
}

func (s *GroupService) requireMembership(ctx context.Context, groupID uuid.UUID, userID int64) error {
	ok, err := s.repomanager.Groups(s.db).IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrNotFound
	}
	return nil
}
