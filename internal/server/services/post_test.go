package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

func strPtr(s string) *string { return &s }

func TestCreatePost(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")

	p, err := f.posts.Create(ctx, alice, PostInput{Title: "Hello", Summary: "sum", Content: "body"}, upload("a.png", "img"))
	require.NoError(t, err)

	assert.Equal(t, alice.AccountID, p.AuthorID)
	assert.Equal(t, "alice", p.AuthorHandle)
	require.NotNil(t, p.Cover)
	assert.Equal(t, "uploads/a.png", *p.Cover)
	assert.Equal(t, []string{"a.png:img"}, f.storage.calls)

	noCover, err := f.posts.Create(ctx, alice, PostInput{Title: "Plain"}, nil)
	require.NoError(t, err)
	assert.Nil(t, noCover.Cover)
}

func TestCreatePost_Errors(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")

	_, err := f.posts.Create(ctx, alice, PostInput{Title: "  "}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	f.storage.err = errors.New("disk full")
	_, err = f.posts.Create(ctx, alice, PostInput{Title: "T"}, upload("a.png", "x"))
	assert.ErrorContains(t, err, "disk full")

	list, err := f.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "no post is created when the cover cannot be stored")
}

func TestUpdatePost_ByCreator(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")

	p, err := f.posts.Create(ctx, alice, PostInput{Title: "T", Summary: "S", Content: "C"}, upload("old.png", "1"))
	require.NoError(t, err)

	up, err := f.posts.Update(ctx, alice, p.ID, models.PostPatch{Content: strPtr("C2")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "T", up.Title)
	assert.Equal(t, "S", up.Summary)
	assert.Equal(t, "C2", up.Content)
	assert.Equal(t, "uploads/old.png", *up.Cover, "cover kept without a new upload")
	assert.Equal(t, alice.AccountID, up.AuthorID)

	up, err = f.posts.Update(ctx, alice, p.ID, models.PostPatch{}, upload("new.png", "2"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/new.png", *up.Cover)
}

func TestUpdatePost_ByOtherAccountIsForbidden(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")
	bob := f.session(t, "bob")

	p, err := f.posts.Create(ctx, alice, PostInput{Title: "T", Content: "C"}, nil)
	require.NoError(t, err)
	before := f.storage.count()

	_, err = f.posts.Update(ctx, bob, p.ID, models.PostPatch{Title: strPtr("pwned")}, upload("evil.png", "x"))
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.Equal(t, before, f.storage.count(), "no upload is stored for a refused update")

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Nil(t, got.Cover)
}

func TestUpdatePost_Errors(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")

	_, err := f.posts.Update(ctx, alice, "missing", models.PostPatch{Title: strPtr("x")}, nil)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = f.posts.Update(ctx, alice, "", models.PostPatch{}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	p, err := f.posts.Create(ctx, alice, PostInput{Title: "T"}, nil)
	require.NoError(t, err)
	_, err = f.posts.Update(ctx, alice, p.ID, models.PostPatch{Title: strPtr(" ")}, nil)
	assert.ErrorIs(t, err, common.ErrorValidation)

	_, err = f.posts.Update(ctx, auth.SessionContext{}, p.ID, models.PostPatch{}, nil)
	assert.ErrorIs(t, err, common.ErrorForbidden)
}

func TestPostWriteFailureRemovesStoredCover(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")

	p, err := f.posts.Create(ctx, alice, PostInput{Title: "T"}, nil)
	require.NoError(t, err)

	broken := NewPostService(brokenWrites{f.repos}, f.storage, 0, logging.Nop())

	_, err = broken.Update(ctx, alice, p.ID, models.PostPatch{Title: strPtr("T2")}, upload("new.png", "2"))
	require.ErrorIs(t, err, errPostWrite)

	_, err = broken.Create(ctx, alice, PostInput{Title: "Other"}, upload("other.png", "3"))
	require.ErrorIs(t, err, errPostWrite)

	assert.Equal(t, 2, f.storage.count())
	assert.Equal(t, []string{"uploads/new.png", "uploads/other.png"}, f.storage.removed)

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Nil(t, got.Cover)
}

func TestListPosts_NewestFirstWithLimit(t *testing.T) {
	f := newFixture(t, 20)
	ctx := context.Background()
	alice := f.session(t, "alice")
	bob := f.session(t, "bob")

	var ids []string
	for i := 0; i < 23; i++ {
		s := alice
		if i%3 == 0 {
			s = bob
		}
		p, err := f.posts.Create(ctx, s, PostInput{Title: fmt.Sprint("post ", i)}, nil)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	list, err := f.posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 20)

	for i, p := range list {
		assert.Equal(t, ids[22-i], p.ID)
		assert.NotEmpty(t, p.AuthorHandle)
		if i > 0 {
			assert.False(t, p.CreatedAt.After(list[i-1].CreatedAt))
		}
	}
}

func TestGetPost(t *testing.T) {
	f := newFixture(t, 0)
	ctx := context.Background()
	alice := f.session(t, "alice")

	p, err := f.posts.Create(ctx, alice, PostInput{Title: "T"}, nil)
	require.NoError(t, err)

	got, err := f.posts.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.AuthorHandle)

	_, err = f.posts.Get(ctx, "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = f.posts.Get(ctx, "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
