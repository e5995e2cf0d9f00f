package groups

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitvault/splitvault/internal/server/models"
)

func TestCreateAndAddMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	groupID := uuid.New()

	mock.ExpectExec("INSERT INTO groups").
		WithArgs(groupID, "enc-name").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO group_members").
		WithArgs(groupID, int64(7), "wrapped", "enc-user", "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresRepository(db)
	require.NoError(t, repo.Create(context.Background(), &models.Group{ID: groupID, EncryptedName: "enc-name"}))
	require.NoError(t, repo.AddMember(context.Background(), &models.GroupMember{
		GroupID: groupID, UserID: 7, WrappedGroupKey: "wrapped", EncryptedUsername: "enc-user", Rights: "admin",
	}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	groupID := uuid.New()
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(groupID, int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := NewPostgresRepository(db)
	ok, err := repo.IsMember(context.Background(), groupID, 7)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListForUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	g1, g2 := uuid.New(), uuid.New()
	rows := sqlmock.NewRows([]string{"id", "encrypted_name", "wrapped_group_key"}).
		AddRow(g1, "enc-1", "wrapped-1").
		AddRow(g2, "enc-2", "wrapped-2")
	mock.ExpectQuery("SELECT g.id, g.encrypted_name").
		WithArgs(int64(7)).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	list, err := repo.ListForUser(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, g1, list[0].Group.ID)
	assert.Equal(t, "wrapped-2", list[1].WrappedGroupKey)
}

func TestMembers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	groupID := uuid.New()
	rows := sqlmock.NewRows([]string{"group_id", "user_id", "encrypted_username", "rights"}).
		AddRow(groupID, int64(7), "enc-alice", "admin").
		AddRow(groupID, int64(8), "enc-bob", "member")
	mock.ExpectQuery("SELECT group_id, user_id, encrypted_username, rights").
		WithArgs(groupID).
		WillReturnRows(rows)

	repo := NewPostgresRepository(db)
	members, err := repo.Members(context.Background(), groupID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "member", members[1].Rights)
}
