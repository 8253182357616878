// Package repomanager hands out repositories over a shared database handle
// so services can run several repository calls inside one transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/skycover/skycover/internal/dbx"
	"github.com/skycover/skycover/internal/server/repositories/policies"
	"github.com/skycover/skycover/internal/server/repositories/templates"
	"github.com/skycover/skycover/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Templates(db dbx.DBTX) templates.Repository
	Policies(db dbx.DBTX) policies.Repository
}
