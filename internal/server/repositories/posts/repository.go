// Package posts is the content repository: it stores posts and reads them
// back joined with their author's handle.
package posts

import (
	"context"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// Repository does no authorization of its own; callers check ownership
// before Update.
type Repository interface {
	// Create inserts post, filling ID, CreatedAt, UpdatedAt and AuthorHandle.
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// Update applies the non-nil fields of patch and replaces the cover
	// only when cover is non-nil. Unknown ids yield common.ErrorNotFound.
	Update(ctx context.Context, id string, patch models.PostPatch, cover *string) (*models.Post, error)
	// List returns at most limit posts ordered by creation time.
	List(ctx context.Context, limit int, order models.SortOrder) ([]*models.Post, error)
	// GetByID returns common.ErrorNotFound for unknown ids.
	GetByID(ctx context.Context, id string) (*models.Post, error)
	// GetByIDForUpdate is GetByID that also locks the row for the rest of
	// the enclosing transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error)
}
