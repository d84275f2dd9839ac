package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/media"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// PostInput is the client-supplied part of a new post.
type PostInput struct {
	Title   string
	Summary string
	Content string
}

// PostService orchestrates post writes (with cover uploads and the
// ownership check) and the public reads.
type PostService struct {
	repos     repomanager.RepositoryManager
	media     media.Storage
	listLimit int
	log       logging.Logger
}

func NewPostService(m repomanager.RepositoryManager, storage media.Storage, listLimit int, log logging.Logger) *PostService {
	if listLimit <= 0 {
		listLimit = common.DefaultListLimit
	}
	return &PostService{
		repos:     m,
		media:     storage,
		listLimit: listLimit,
		log:       log.With("module", "posts"),
	}
}

// Create stores the cover, if any, and creates a post authored by the
// session's account.
func (s *PostService) Create(ctx context.Context, session auth.SessionContext, in PostInput, cover *media.Upload) (*models.Post, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	post := &models.Post{
		Title:    in.Title,
		Summary:  in.Summary,
		Content:  in.Content,
		AuthorID: session.AccountID,
	}

	if cover != nil {
		ref, err := s.media.Store(ctx, *cover)
		if err != nil {
			return nil, fmt.Errorf("store cover: %w", err)
		}
		post.Cover = &ref
	}

	created, err := s.repos.Posts().Create(ctx, post)
	if err != nil {
		s.discardCover(ctx, post.Cover)
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.log.Info(ctx, "post created", "post_id", created.ID, "account_id", session.AccountID)
	return created, nil
}

// Update applies patch to post id on behalf of session. Only the creator
// may update; anyone else gets common.ErrorForbidden and nothing is
// written, not even the cover.
func (s *PostService) Update(ctx context.Context, session auth.SessionContext, id string, patch models.PostPatch, cover *media.Upload) (*models.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: id is required", common.ErrorValidation)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", common.ErrorValidation)
	}

	current, err := s.repos.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, session, current); err != nil {
		return nil, err
	}

	// Upload before the row is locked; ownership is checked again under the lock.
	var coverRef *string
	if cover != nil {
		ref, err := s.media.Store(ctx, *cover)
		if err != nil {
			return nil, fmt.Errorf("store cover: %w", err)
		}
		coverRef = &ref
	}

	var updated *models.Post
	err = s.repos.WithTx(ctx, func(ctx context.Context, tx repomanager.Repositories) error {
		locked, err := tx.Posts().GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := s.authorize(ctx, session, locked); err != nil {
			return err
		}

		updated, err = tx.Posts().Update(ctx, id, patch, coverRef)
		return err
	})
	if err != nil {
		s.discardCover(ctx, coverRef)
		return nil, err
	}

	s.log.Info(ctx, "post updated", "post_id", id, "account_id", session.AccountID)
	return updated, nil
}

func (s *PostService) authorize(ctx context.Context, session auth.SessionContext, post *models.Post) error {
	if err := auth.Authorize(session, post.AuthorID); err != nil {
		s.log.Warn(ctx, "update refused: not the author", "post_id", post.ID, "account_id", session.AccountID)
		return err
	}
	return nil
}

// discardCover removes a cover that was stored for a write that failed.
func (s *PostService) discardCover(ctx context.Context, ref *string) {
	if ref == nil {
		return
	}
	if err := s.media.Remove(context.WithoutCancel(ctx), *ref); err != nil {
		s.log.Error(ctx, "orphaned cover", "cover", *ref, "error", err)
	}
}

// List returns the newest posts, at most the configured limit.
func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.repos.Posts().List(ctx, s.listLimit, models.SortDesc)
}

// Get returns one post or common.ErrorNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.ErrorNotFound
	}
	return s.repos.Posts().GetByID(ctx, id)
}
