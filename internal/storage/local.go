package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// Local keeps documents under a directory on disk.
type Local struct {
	root string
}

// NewLocal creates the root directory if needed.
func NewLocal(dir string) (*Local, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &Local{root: abs}, nil
}

// resolve maps p below root; ".." segments cannot escape it.
func (l *Local) resolve(p string) string {
	return filepath.Join(l.root, filepath.FromSlash(path.Clean("/"+p)))
}

func (l *Local) Put(_ context.Context, p string, data []byte, _ string) error {
	full := l.resolve(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".put-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), full)
}

func (l *Local) Open(_ context.Context, p string) (io.ReadCloser, error) {
	return os.Open(l.resolve(p))
}

func (l *Local) Delete(_ context.Context, p string) error {
	err := os.Remove(l.resolve(p))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

var _ Blobs = (*Local)(nil)
