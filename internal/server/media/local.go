package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophblog/internal/filex"
)

// LocalStorage writes uploads into a directory on disk.
type LocalStorage struct {
	dir string
}

var _ Storage = (*LocalStorage)(nil)

// NewLocalStorage creates dir if needed. A relative dir is resolved against
// the working directory.
func NewLocalStorage(dir string) (*LocalStorage, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("upload dir: %w", err)
	}
	return &LocalStorage{dir: abs}, nil
}

// Dir is the absolute directory uploads are written to.
func (s *LocalStorage) Dir() string { return s.dir }

func (s *LocalStorage) Store(ctx context.Context, u Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := storedName(u.Filename)
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}

	if _, err := io.Copy(f, u.Content); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("close upload: %w", err)
	}

	return RefPrefix + name, nil
}

func (s *LocalStorage) Remove(_ context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return ErrBadRef
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
