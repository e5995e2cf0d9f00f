// Package invitations stores pending invitations. The server holds only the
// verification token (a commitment to the link secret) and a key wrapped
// under a key it cannot derive.
package invitations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/splitvault/splitvault/internal/common"
	"github.com/splitvault/splitvault/internal/dbx"
	"github.com/splitvault/splitvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, group_id, verification_token, wrapped_group_key, created_by)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		invitation.ID, invitation.GroupID, invitation.VerificationToken,
		invitation.WrappedGroupKey, invitation.CreatedBy)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByToken(ctx context.Context, verificationToken string) (*models.Invitation, error) {
	query := `
		SELECT id, group_id, verification_token, wrapped_group_key, created_by
		FROM invitations
		WHERE verification_token = $1
	`
	invitation := &models.Invitation{}
	err := r.db.QueryRowContext(ctx, query, verificationToken).Scan(
		&invitation.ID, &invitation.GroupID, &invitation.VerificationToken,
		&invitation.WrappedGroupKey, &invitation.CreatedBy)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return invitation, nil
}
