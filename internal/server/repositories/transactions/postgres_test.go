package transactions

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitvault/splitvault/internal/server/models"
)

func TestCreate_InsertsRowAndShares(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	txID, groupID := uuid.New(), uuid.New()

	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txID, groupID, "t", "n", "a", "f", "d", "rk").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_shares").
		WithArgs(txID, 0, "u1", "s1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO transaction_shares").
		WithArgs(txID, 1, "u2", "s2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	err = repo.Create(context.Background(), &models.Transaction{
		ID: txID, GroupID: groupID,
		EncryptedType: "t", EncryptedName: "n", EncryptedAmount: "a",
		EncryptedFromUser: "f", EncryptedDate: "d", ReceiptKey: "rk",
	}, []models.TransactionShare{
		{EncryptedUser: "u1", EncryptedShare: "s1"},
		{EncryptedUser: "u2", EncryptedShare: "s2"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListForGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	txID, groupID := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"id", "group_id", "encrypted_type", "encrypted_name",
		"encrypted_amount", "encrypted_from_user", "encrypted_date", "receipt_key"}).
		AddRow(txID, groupID, "t", "n", "a", "f", "d", "")
	mock.ExpectQuery("SELECT id, group_id, encrypted_type").
		WithArgs(groupID).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	list, err := repo.ListForGroup(context.Background(), groupID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, txID, list[0].ID)
}

func TestSharesForGroup_GroupsByTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	groupID := uuid.New()
	tx1, tx2 := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"transaction_id", "position", "encrypted_user", "encrypted_share"}).
		AddRow(tx1, 0, "u1", "s1").
		AddRow(tx1, 1, "u2", "s2").
		AddRow(tx2, 0, "u3", "s3")
	mock.ExpectQuery("SELECT ts.transaction_id").
		WithArgs(groupID).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	shares, err := repo.SharesForGroup(context.Background(), groupID)
	require.NoError(t, err)
	assert.Len(t, shares[tx1], 2)
	assert.Len(t, shares[tx2], 1)
	assert.Equal(t, "s2", shares[tx1][1].EncryptedShare)
}
