package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/assignhub/internal/dbx"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/assignments"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/payouts"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/settings"
	"github.com/dmitrijs2005/assignhub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Assignments(db dbx.DBTX) assignments.Repository
	Settings(db dbx.DBTX) settings.Repository
	Payouts(db dbx.DBTX) payouts.Repository
}
