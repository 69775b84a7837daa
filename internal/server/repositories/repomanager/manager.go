package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/collabpack/internal/dbx"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/channels"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/files"
	"github.com/dmitrijs2005/collabpack/internal/server/repositories/projects"
)

// RepositoryManager hands out repositories bound to a connection or an
// open transaction, so service code can run the same queries inside and
// outside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Accounts(db dbx.DBTX) accounts.Repository
	Channels(db dbx.DBTX) channels.Repository
	Projects(db dbx.DBTX) projects.Repository
	Files(db dbx.DBTX) files.Repository
}
