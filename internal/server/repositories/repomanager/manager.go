package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/authority/internal/dbx"
	"github.com/dmitrijs2005/authority/internal/server/repositories/accounts"
)

// RepositoryManager vends repositories bound to a DBTX so services can run
// the same repository either directly on the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
