package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/media"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/posts"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
)

// fakeStorage records uploads instead of writing them anywhere.
type fakeStorage struct {
	mu      sync.Mutex
	calls   []string
	removed []string
	err     error
}

func (f *fakeStorage) Store(_ context.Context, u media.Upload) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	b, _ := io.ReadAll(u.Content)
	f.calls = append(f.calls, u.Filename+":"+string(b))
	return media.RefPrefix + u.Filename, nil
}

func (f *fakeStorage) Remove(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ref)
	return nil
}

func (f *fakeStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// brokenPosts fails every post write while reads go to the wrapped repository.
type brokenPosts struct {
	posts.Repository
}

var errPostWrite = errors.New("post write failed")

func (brokenPosts) Create(context.Context, *models.Post) (*models.Post, error) {
	return nil, errPostWrite
}

func (brokenPosts) Update(context.Context, string, models.PostPatch, *string) (*models.Post, error) {
	return nil, errPostWrite
}

// brokenWrites is an in-memory manager whose post writes fail, inside and
// outside transactions.
type brokenWrites struct {
	*repomanager.InMemoryRepositoryManager
}

func (b brokenWrites) Posts() posts.Repository {
	return brokenPosts{b.InMemoryRepositoryManager.Posts()}
}

func (b brokenWrites) WithTx(ctx context.Context, fn func(ctx context.Context, tx repomanager.Repositories) error) error {
	return b.InMemoryRepositoryManager.WithTx(ctx, func(ctx context.Context, _ repomanager.Repositories) error {
		return fn(ctx, b)
	})
}

func upload(name, body string) *media.Upload {
	return &media.Upload{Filename: name, Content: strings.NewReader(body)}
}

type fixture struct {
	repos    *repomanager.InMemoryRepositoryManager
	issuer   *auth.Issuer
	accounts *AccountService
	posts    *PostService
	storage  *fakeStorage
}

func newFixture(t *testing.T, listLimit int) *fixture {
	t.Helper()
	repos := repomanager.NewInMemoryRepositoryManager()
	issuer := auth.NewIssuer([]byte("test-secret"))
	storage := &fakeStorage{}
	log := logging.Nop()

	return &fixture{
		repos:    repos,
		issuer:   issuer,
		accounts: NewAccountService(repos, auth.NewHasher(bcrypt.MinCost), issuer, log),
		posts:    NewPostService(repos, storage, listLimit, log),
		storage:  storage,
	}
}

// session registers handle and returns the session a login would yield.
func (f *fixture) session(t *testing.T, handle string) auth.SessionContext {
	t.Helper()
	a, err := f.accounts.Register(context.Background(), handle, "pw-"+handle)
	if err != nil {
		t.Fatalf("register %s: %v", handle, err)
	}
	return auth.SessionContext{AccountID: a.ID, Handle: a.Handle}
}
