// Package storage keeps the bytes of uploaded files. Records in the database
// point at blobs through an opaque content reference; image thumbnails live
// next to the original under "<ref>_<size>".
package storage

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	sc "github.com/dmitrijs2005/filekeeper/internal/server/config"
	"github.com/google/uuid"
)

// BlobStore reads and writes blobs by reference. Read returns
// common.ErrorNotFound for a reference with no bytes.
type BlobStore interface {
	Write(ctx context.Context, ref string, data []byte) error
	Read(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
	Ping(ctx context.Context) error
}

// ThumbnailSizes are the widths the image worker renders, spelled the way
// clients request them.
var ThumbnailSizes = []string{"500", "250", "100"}

// NewRef returns a fresh content reference.
func NewRef() string {
	return uuid.NewString()
}

// VariantRef returns the reference of the requested size variant of ref.
// An empty size selects the original. Any other size must match one of
// ThumbnailSizes exactly, otherwise common.ErrorNotFound is returned.
func VariantRef(ref string, size string) (string, error) {
	if size == "" {
		return ref, nil
	}
	for _, s := range ThumbnailSizes {
		if s == size {
			return ref + "_" + size, nil
		}
	}
	return "", common.ErrorNotFound
}

// ContentType guesses the MIME type of a file from its name.
func ContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// New builds the blob store selected by cfg.StorageBackend.
func New(ctx context.Context, cfg *sc.Config, logger logging.Logger) (BlobStore, error) {
	switch cfg.StorageBackend {
	case sc.StorageLocal, "":
		return NewLocalStore(cfg.FolderPath, logger)
	case sc.StorageS3:
		return NewS3Store(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
