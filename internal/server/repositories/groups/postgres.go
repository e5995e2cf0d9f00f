// Package groups stores group rows and memberships. A membership row holds
// the member's wrapped copy of the group key and their sealed username; the
// rights column stays plaintext so the server can authorize invitations.
package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

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

func (r *PostgresRepository) Create(ctx context.Context, group *models.Group) error {
	query := `
		INSERT INTO groups (id, encrypted_name)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, group.ID, group.EncryptedName); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *models.GroupMember) error {
	query := `
		INSERT INTO group_members (group_id, user_id, wrapped_group_key, encrypted_username, rights)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		member.GroupID, member.UserID, member.WrappedGroupKey, member.EncryptedUsername, member.Rights)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) IsMember(ctx context.Context, groupID uuid.UUID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM group_members WHERE group_id = $1 AND user_id = $2
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, groupID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) ListForUser(ctx context.Context, userID int64) ([]Membership, error) {
	query := `
		SELECT g.id, g.encrypted_name, gm.wrapped_group_key
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = $1
		ORDER BY g.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []Membership
	for rows.Next() {
		var m Membership
		if err := rows.Scan(&m.Group.ID, &m.Group.EncryptedName, &m.WrappedGroupKey); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Members(ctx context.Context, groupID uuid.UUID) ([]models.GroupMember, error) {
	query := `
		SELECT group_id, user_id, encrypted_username, rights
		FROM group_members
		WHERE group_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.GroupMember
	for rows.Next() {
		var m models.GroupMember
		if err := rows.Scan(&m.GroupID, &m.UserID, &m.EncryptedUsername, &m.Rights); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
