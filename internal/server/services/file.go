package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/filekeeper/internal/common"
	"github.com/dmitrijs2005/filekeeper/internal/dbx"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
	"github.com/dmitrijs2005/filekeeper/internal/server/thumbnails"
)

// NewFile is an upload request. Data is the base64 payload of a file or
// image and must be empty for folders.
type NewFile struct {
	Name     string
	Kind     models.Kind
	ParentID models.ParentID
	IsPublic bool
	Data     string
}

// Content is a downloadable blob.
type Content struct {
	Data        []byte
	ContentType string
}

// FileService manages file records and their stored bytes.
type FileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	thumbs      thumbnails.Dispatcher
	logger      logging.Logger
}

func NewFileService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, thumbs thumbnails.Dispatcher, logger logging.Logger) *FileService {
	return &FileService{
		db:          db,
		repomanager: m,
		blobs:       blobs,
		thumbs:      thumbs,
		logger:      logger.With("module", "files"),
	}
}

func validateNewFile(in *NewFile) error {
	switch {
	case in.Name == "":
		return common.ErrMissingName
	case !in.Kind.Valid():
		return common.ErrMissingType
	case in.Kind.HasContent() && in.Data == "":
		return common.ErrMissingData
	}
	return nil
}

func decodePayload(data string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err == nil {
		return b, nil
	}
	if b, err := base64.RawStdEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return nil, common.ErrInvalidData
}

func (s *FileService) checkParent(ctx context.Context, tx dbx.DBTX, parentID models.ParentID) error {
	if parentID.IsRoot() {
		return nil
	}
	if !validID(string(parentID)) {
		return common.ErrParentNotFound
	}
	parent, err := s.repomanager.Files(tx).GetByID(ctx, string(parentID))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrParentNotFound
		}
		return err
	}
	if parent.Kind != models.KindFolder {
		return common.ErrParentNotFolder
	}
	return nil
}

// Create validates in, stores the payload and persists the record for userID.
// Images are handed to the thumbnail dispatcher once the record exists.
func (s *FileService) Create(ctx context.Context, userID string, in *NewFile) (*models.FileRecord, error) {
	if err := validateNewFile(in); err != nil {
		return nil, err
	}

	rec := &models.FileRecord{
		UserID:   userID,
		Name:     in.Name,
		Kind:     in.Kind,
		IsPublic: in.IsPublic,
		ParentID: in.ParentID,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.checkParent(ctx, tx, in.ParentID); err != nil {
			return err
		}

		if in.Kind.HasContent() {
			data, err := decodePayload(in.Data)
			if err != nil {
				return err
			}
			ref := storage.NewRef()
			if err := s.blobs.Write(ctx, ref, data); err != nil {
				return fmt.Errorf("write blob: %w", err)
			}
			rec.ContentRef = ref
		}

		_, err := s.repomanager.Files(tx).Create(ctx, rec)
		return err
	})
	if err != nil {
		if rec.ContentRef != "" {
			if derr := s.blobs.Delete(context.WithoutCancel(ctx), rec.ContentRef); derr != nil {
				s.logger.Warn(ctx, "orphaned blob", "ref", rec.ContentRef, "error", derr)
			}
		}
		if errors.Is(err, common.ErrorBadRequest) {
			return nil, err
		}
		s.logger.Error(ctx, "error creating file", "error", err)
		return nil, common.ErrorInternal
	}

	if rec.Kind == models.KindImage {
		if err := s.thumbs.Notify(ctx, userID, rec.ID); err != nil {
			s.logger.Warn(ctx, "thumbnail dispatch failed", "file_id", rec.ID, "error", err)
		}
	}

	return rec, nil
}

// Get returns a record owned by userID.
func (s *FileService) Get(ctx context.Context, userID, id string) (*models.FileRecord, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	rec, err := s.repomanager.Files(s.db).GetByIDAndOwner(ctx, id, userID)
	if err != nil {
		return nil, s.mapRepoError(ctx, err)
	}
	return rec, nil
}

// List returns one page of userID's records directly under parentID.
// Only the caller's own records are listed, even inside a folder that
// holds records of other users; the parent itself may belong to anyone.
// A parent that is not an existing folder yields an empty page.
func (s *FileService) List(ctx context.Context, userID string, parentID models.ParentID, page int) ([]*models.FileRecord, error) {
	if page < 0 {
		page = 0
	}

	if !parentID.IsRoot() {
		if !validID(string(parentID)) {
			return []*models.FileRecord{}, nil
		}
		parent, err := s.repomanager.Files(s.db).GetByID(ctx, string(parentID))
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return []*models.FileRecord{}, nil
			}
			return nil, s.mapRepoError(ctx, err)
		}
		if parent.Kind != models.KindFolder {
			return []*models.FileRecord{}, nil
		}
	}

	recs, err := s.repomanager.Files(s.db).ListChildren(ctx, userID, parentID, common.PageSize, page*common.PageSize)
	if err != nil {
		return nil, s.mapRepoError(ctx, err)
	}
	return recs, nil
}

// SetVisibility publishes or unpublishes a record owned by userID.
func (s *FileService) SetVisibility(ctx context.Context, userID, id string, isPublic bool) (*models.FileRecord, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	rec, err := s.repomanager.Files(s.db).SetVisibility(ctx, id, userID, isPublic)
	if err != nil {
		return nil, s.mapRepoError(ctx, err)
	}
	return rec, nil
}

// ReadContent returns the bytes of a file or one of its thumbnail sizes
// (an empty size is the original). requesterID is empty for anonymous callers.
// Private records of other users are reported as not found.
func (s *FileService) ReadContent(ctx context.Context, id, requesterID, size string) (*Content, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	rec, err := s.repomanager.Files(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(ctx, err)
	}

	if rec.Kind == models.KindFolder {
		return nil, common.ErrFolderHasNoContent
	}
	if !canReadContent(rec, requesterID) {
		return nil, common.ErrorNotFound
	}

	ref, err := storage.VariantRef(rec.ContentRef, size)
	if err != nil {
		return nil, err
	}

	data, err := s.blobs.Read(ctx, ref)
	if err != nil {
		return nil, s.mapRepoError(ctx, err)
	}

	return &Content{Data: data, ContentType: storage.ContentType(rec.Name)}, nil
}

func (s *FileService) mapRepoError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	s.logger.Error(ctx, "file operation failed", "error", err)
	return common.ErrorInternal
}
