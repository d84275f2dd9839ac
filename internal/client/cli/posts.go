package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/client/models"
	"github.com/dmitrijs2005/gophblog/internal/common"
)

func (a *App) List(ctx context.Context) error {
	posts, err := a.api.ListPosts(ctx)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts yet")
		return nil
	}
	for _, p := range posts {
		fmt.Fprintln(a.out, p)
	}
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, p.Details())
	return nil
}

// Post prompts for a new post and publishes it.
func (a *App) Post(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	summary, err := getSimpleText(a.reader, "Summary", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	cover, err := a.coverPrompt()
	if err != nil {
		return err
	}

	p, err := a.api.CreatePost(ctx, models.PostFields{Title: &title, Summary: &summary, Content: &content}, cover)
	if err != nil {
		return a.sessionHint(err)
	}
	fmt.Fprintf(a.out, "Published %s\n", p.ID)
	return nil
}

// Edit prompts for new values of post id. Empty answers keep the stored
// value.
func (a *App) Edit(ctx context.Context, id string) error {
	current, err := a.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Editing %q, leave a field empty to keep it\n", current.Title)

	title, err := getSimpleText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	summary, err := getSimpleText(a.reader, "Summary", a.out)
	if err != nil {
		return err
	}
	content, err := getMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	cover, err := a.coverPrompt()
	if err != nil {
		return err
	}

	fields := models.PostFields{Title: optional(title), Summary: optional(summary), Content: optional(content)}
	if fields == (models.PostFields{}) && cover == nil {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	p, err := a.api.UpdatePost(ctx, id, fields, cover)
	if err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			return fmt.Errorf("only %s can edit this post", current.Author.Handle)
		}
		return a.sessionHint(err)
	}
	fmt.Fprintf(a.out, "Updated %s\n", p.ID)
	return nil
}

// Cover saves the cover image of post id to path.
func (a *App) Cover(ctx context.Context, id, path string) error {
	p, err := a.api.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if p.Cover == nil {
		fmt.Fprintln(a.out, "This post has no cover")
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o640)
	if err != nil {
		return err
	}

	n, err := a.api.DownloadCover(ctx, *p.Cover, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}

	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, path)
	return nil
}

func (a *App) coverPrompt() (*models.Cover, error) {
	path, err := getSimpleText(a.reader, "Cover image path (empty for none)", a.out)
	if err != nil || path == "" {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cover: %w", err)
	}
	return &models.Cover{Path: path}, nil
}

func (a *App) sessionHint(err error) error {
	if errors.Is(err, common.ErrorUnauthenticated) {
		a.handle = ""
		return fmt.Errorf("%w: please log in", err)
	}
	return err
}
