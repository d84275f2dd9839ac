package models

import "time"

// Post is a published article. AuthorID is set once at creation;
// AuthorHandle is filled by reads that join the accounts table.
type Post struct {
	ID           string    `db:"id"`
	Title        string    `db:"title"`
	Summary      string    `db:"summary"`
	Content      string    `db:"content"`
	Cover        *string   `db:"cover"`
	AuthorID     string    `db:"author_id"`
	AuthorHandle string    `db:"author_handle"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// PostPatch carries a partial update. Nil fields keep the stored value.
type PostPatch struct {
	Title   *string
	Summary *string
	Content *string
}

// SortOrder selects the CreatedAt ordering of a listing.
type SortOrder int

const (
	SortDesc SortOrder = iota
	SortAsc
)
