// Package repomanager vends the repositories of the server and owns the
// storage they run on: schema migrations, transaction scope and shutdown.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
)

// Repositories is the set of repositories bound to one storage handle,
// either the shared pool or a single transaction.
type Repositories interface {
	Accounts() accounts.Repository
	Posts() posts.Repository
}

type RepositoryManager interface {
	Repositories

	RunMigrations(ctx context.Context) error

	// WithTx runs fn with repositories bound to one transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error

	Close() error
}
