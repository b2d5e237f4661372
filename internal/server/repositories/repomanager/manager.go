// Package repomanager vends repository implementations bound to a DBTX and
// exposes the schema migration hook. Services hold a RepositoryManager plus a
// *sql.DB and decide per call whether repositories run against the pool or a
// transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/roomly/internal/dbx"
	"github.com/avolkov/roomly/internal/server/repositories/posts"
	"github.com/avolkov/roomly/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Posts(db dbx.DBTX) posts.Repository
}
