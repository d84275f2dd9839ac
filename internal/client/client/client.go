package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
)

type Client interface {
	Ping(ctx context.Context) error
	Register(ctx context.Context, handle string, password []byte) (*models.Account, error)
	Login(ctx context.Context, handle string, password []byte) (*models.Account, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*models.Profile, error)
	ListPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (*models.Post, error)
	CreatePost(ctx context.Context, fields models.PostFields, cover *models.Cover) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, fields models.PostFields, cover *models.Cover) (*models.Post, error)
	DownloadCover(ctx context.Context, ref string, w io.Writer) (int64, error)
}
