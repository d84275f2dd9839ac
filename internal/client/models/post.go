package models

import (
	"fmt"
	"strings"
	"time"
)

// Account is a registered author as returned by the server.
type Account struct {
	ID        string    `json:"id"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the identity carried by the current session.
type Profile struct {
	ID       string    `json:"id"`
	Handle   string    `json:"handle"`
	IssuedAt time.Time `json:"iat"`
}

type Author struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

// Post is a published article.
type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Cover     *string   `json:"cover"`
	Author    Author    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// String renders the one-line listing form of p.
func (p Post) String() string {
	return fmt.Sprintf("%s  %s  by %s  (%s)", p.ID, p.Title, p.Author.Handle, p.CreatedAt.Local().Format(time.DateTime))
}

// Details renders the full post for display.
func (p Post) Details() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", p.Title)
	fmt.Fprintf(&b, "by %s, %s", p.Author.Handle, p.CreatedAt.Local().Format(time.DateTime))
	if !p.UpdatedAt.Equal(p.CreatedAt) {
		fmt.Fprintf(&b, " (edited %s)", p.UpdatedAt.Local().Format(time.DateTime))
	}
	b.WriteString("\n")
	if p.Cover != nil {
		fmt.Fprintf(&b, "cover: %s\n", *p.Cover)
	}
	if p.Summary != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Summary)
	}
	if p.Content != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Content)
	}
	return b.String()
}

// PostFields are the text fields of a post write. Nil fields are not sent,
// so an update keeps their stored value.
type PostFields struct {
	Title   *string
	Summary *string
	Content *string
}

// Cover is an image file to attach to a post.
type Cover struct {
	Path string
}
