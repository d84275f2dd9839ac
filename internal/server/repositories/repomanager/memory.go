package repomanager

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
)

// InMemoryRepositoryManager keeps everything in process memory. It backs
// the "memory" DSN and the service and HTTP tests.
//
// WithTx serialises transactions against each other but cannot roll back:
// writes made by fn before it fails stay applied.
type InMemoryRepositoryManager struct {
	txMu sync.Mutex
	st   *memStore
}

var _ RepositoryManager = (*InMemoryRepositoryManager)(nil)

type MemoryOption func(*memStore)

// WithMemoryClock replaces time.Now for CreatedAt and UpdatedAt.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(s *memStore) { s.now = now }
}

func NewInMemoryRepositoryManager(opts ...MemoryOption) *InMemoryRepositoryManager {
	st := &memStore{
		now:      time.Now,
		accounts: make(map[string]*models.Account),
		byHandle: make(map[string]string),
		posts:    make(map[string]*memPost),
	}
	for _, opt := range opts {
		opt(st)
	}
	return &InMemoryRepositoryManager{st: st}
}

func (m *InMemoryRepositoryManager) Accounts() accounts.Repository { return memAccounts{m.st} }
func (m *InMemoryRepositoryManager) Posts() posts.Repository       { return memPosts{m.st} }

func (m *InMemoryRepositoryManager) RunMigrations(context.Context) error { return nil }
func (m *InMemoryRepositoryManager) Close() error                        { return nil }

func (m *InMemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, tx Repositories) error) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()
	return fn(ctx, m)
}

type memStore struct {
	mu       sync.RWMutex
	now      func() time.Time
	seq      int64
	accounts map[string]*models.Account
	byHandle map[string]string
	posts    map[string]*memPost
}

type memPost struct {
	seq  int64
	post models.Post
}

// joined returns a copy of p with the author handle filled in.
// Callers hold s.mu.
func (s *memStore) joined(p *memPost) *models.Post {
	out := p.post
	if p.post.Cover != nil {
		c := *p.post.Cover
		out.Cover = &c
	}
	if a, ok := s.accounts[p.post.AuthorID]; ok {
		out.AuthorHandle = a.Handle
	}
	return &out
}

type memAccounts struct{ s *memStore }

func (r memAccounts) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byHandle[account.Handle]; ok {
		return nil, common.ErrorDuplicateIdentity
	}

	account.ID = uuid.NewString()
	account.CreatedAt = r.s.now()

	stored := *account
	r.s.accounts[stored.ID] = &stored
	r.s.byHandle[stored.Handle] = stored.ID

	return account, nil
}

func (r memAccounts) GetByHandle(_ context.Context, handle string) (*models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byHandle[handle]
	if !ok {
		return nil, common.ErrorNotFound
	}
	a := *r.s.accounts[id]
	return &a, nil
}

func (r memAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.accounts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *a
	return &out, nil
}

type memPosts struct{ s *memStore }

func (r memPosts) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.accounts[post.AuthorID]; !ok {
		return nil, fmt.Errorf("author %q does not exist: %w", post.AuthorID, common.ErrorInternal)
	}

	r.s.seq++
	now := r.s.now()

	p := &memPost{seq: r.s.seq, post: *post}
	p.post.ID = uuid.NewString()
	p.post.CreatedAt = now
	p.post.UpdatedAt = now
	p.post.AuthorHandle = ""
	r.s.posts[p.post.ID] = p

	return r.s.joined(p), nil
}

func (r memPosts) Update(_ context.Context, id string, patch models.PostPatch, cover *string) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}

	if patch.Title != nil {
		p.post.Title = *patch.Title
	}
	if patch.Summary != nil {
		p.post.Summary = *patch.Summary
	}
	if patch.Content != nil {
		p.post.Content = *patch.Content
	}
	if cover != nil {
		c := *cover
		p.post.Cover = &c
	}
	p.post.UpdatedAt = r.s.now()

	return r.s.joined(p), nil
}

func (r memPosts) List(_ context.Context, limit int, order models.SortOrder) ([]*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*memPost, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		all = append(all, p)
	}

	slices.SortFunc(all, func(a, b *memPost) int {
		c := a.post.CreatedAt.Compare(b.post.CreatedAt)
		if c == 0 {
			c = cmp.Compare(a.seq, b.seq)
		}
		if order == models.SortDesc {
			return -c
		}
		return c
	})

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}

	result := make([]*models.Post, 0, len(all))
	for _, p := range all {
		result = append(result, r.s.joined(p))
	}
	return result, nil
}

func (r memPosts) GetByID(_ context.Context, id string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.s.joined(p), nil
}

// GetByIDForUpdate relies on WithTx holding the manager lock.
func (r memPosts) GetByIDForUpdate(ctx context.Context, id string) (*models.Post, error) {
	return r.GetByID(ctx, id)
}
