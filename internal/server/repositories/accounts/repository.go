// Package accounts is the credential store: it persists accounts (handle
// plus password digest) and looks them up by handle or id.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

type Repository interface {
	// Create inserts account and fills its ID and CreatedAt. A taken handle
	// yields common.ErrorDuplicateIdentity.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	// GetByHandle returns common.ErrorNotFound when no account has handle.
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	// GetByID returns common.ErrorNotFound when no account has id.
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
