// Package transactions stores sealed ledger entries. Shares live in a side
// table keyed by (transaction_id, position) so element order survives the
// round trip.
package transactions

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitvault/splitvault/internal/dbx"
	"github.com/splitvault/splitvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the transaction row and its share rows. Callers run it
// inside dbx.WithTx so a partial insert never becomes visible.
func (r *PostgresRepository) Create(ctx context.Context, tx *models.Transaction, shares []models.TransactionShare) error {
	query := `
		INSERT INTO transactions
			(id, group_id, encrypted_type, encrypted_name, encrypted_amount, encrypted_from_user, encrypted_date, receipt_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.GroupID, tx.EncryptedType, tx.EncryptedName, tx.EncryptedAmount,
		tx.EncryptedFromUser, tx.EncryptedDate, tx.ReceiptKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	shareQuery := `
		INSERT INTO transaction_shares (transaction_id, position, encrypted_user, encrypted_share)
		VALUES ($1, $2, $3, $4)
	`
	for i, share := range shares {
		if _, err := r.db.ExecContext(ctx, shareQuery, tx.ID, i, share.EncryptedUser, share.EncryptedShare); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]models.Transaction, error) {
	query := `
		SELECT id, group_id, encrypted_type, encrypted_name, encrypted_amount, encrypted_from_user, encrypted_date, receipt_key
		FROM transactions
		WHERE group_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.GroupID, &tx.EncryptedType, &tx.EncryptedName,
			&tx.EncryptedAmount, &tx.EncryptedFromUser, &tx.EncryptedDate, &tx.ReceiptKey); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SharesForGroup(ctx context.Context, groupID uuid.UUID) (map[uuid.UUID][]models.TransactionShare, error) {
	query := `
		SELECT ts.transaction_id, ts.position, ts.encrypted_user, ts.encrypted_share
		FROM transaction_shares ts
		JOIN transactions t ON t.id = ts.transaction_id
		WHERE t.group_id = $1
		ORDER BY ts.transaction_id, ts.position
	`
	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make(map[uuid.UUID][]models.TransactionShare)
	for rows.Next() {
		var share models.TransactionShare
		if err := rows.Scan(&share.TransactionID, &share.Position, &share.EncryptedUser, &share.EncryptedShare); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result[share.TransactionID] = append(result[share.TransactionID], share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
