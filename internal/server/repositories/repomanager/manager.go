package repomanager

import (
	"context"
	"database/sql"

	"github.com/splitvault/splitvault/internal/dbx"
	"github.com/splitvault/splitvault/internal/server/repositories/groups"
	"github.com/splitvault/splitvault/internal/server/repositories/invitations"
	"github.com/splitvault/splitvault/internal/server/repositories/refreshtokens"
	"github.com/splitvault/splitvault/internal/server/repositories/transactions"
	"github.com/splitvault/splitvault/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, which
// lets services run several repositories inside one transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Groups(db dbx.DBTX) groups.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Invitations(db dbx.DBTX) invitations.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
