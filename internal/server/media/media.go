// Package media stores uploaded cover images and hands back the reference
// that is saved on the post. Two backends exist: a local directory served
// by the HTTP API, and an S3-compatible bucket served through presigned
// redirects.
package media

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// RefPrefix starts every cover reference; the HTTP API serves covers
// under the same path.
const RefPrefix = "uploads/"

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ErrBadRef is returned by Remove for references this storage never hands out.
var ErrBadRef = errors.New("bad cover reference")

// Storage persists uploads and returns their cover reference.
type Storage interface {
	Store(ctx context.Context, u Upload) (string, error)
	// Remove deletes a stored cover. Removing a missing cover is not an error.
	Remove(ctx context.Context, ref string) error
}

// storedName returns a fresh random object name that keeps the original
// file extension.
func storedName(filename string) string {
	return uuid.NewString() + cleanExt(filename)
}

// cleanExt returns the lower-cased extension of filename, or "" when it is
// missing or contains anything but ASCII letters and digits.
func cleanExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
