package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/filex"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// LocalStore keeps blobs as files in a single directory.
type LocalStore struct {
	root   string
	logger logging.Logger
}

// NewLocalStore creates root if needed.
func NewLocalStore(root string, logger logging.Logger) (*LocalStore, error) {
	abs, err := filex.EnsureDir(root)
	if err != nil {
		return nil, err
	}
	return &LocalStore{root: abs, logger: logger.With("module", "storage", "backend", "local")}, nil
}

// Root returns the absolute storage directory.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) path(ref string) (string, error) {
	if ref == "" || strings.ContainsAny(ref, `/\`) || ref == "." || ref == ".." {
		return "", fmt.Errorf("invalid content ref %q", ref)
	}
	return filepath.Join(s.root, ref), nil
}

// Write stores data durably; it returns once the bytes are on disk.
func (s *LocalStore) Write(ctx context.Context, ref string, data []byte) error {
	p, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := filex.WriteFileSync(p, data, 0o640); err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	s.logger.Debug(ctx, "blob written", "ref", ref, "bytes", len(data))
	return nil
}

func (s *LocalStore) Read(ctx context.Context, ref string) ([]byte, error) {
	p, err := s.path(ref)
	if err != nil {
		return nil, common.ErrorNotFound
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("read blob: %w", err)
	}
	return data, nil
}

// Delete removes a blob. A missing blob is not an error.
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	p, err := s.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

func (s *LocalStore) Ping(ctx context.Context) error {
	fi, err := os.Stat(s.root)
	if err != nil {
		return err
	}
	if !fi.IsDir() {
		return fmt.Errorf("%s is not a directory", s.root)
	}
	return nil
}
