package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/filekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filekeeper/internal/server/storage"
)

// Status reports whether the backing services answer.
type Status struct {
	DB      bool `json:"db"`
	Storage bool `json:"storage"`
}

// Stats are global counters.
type Stats struct {
	Users int64 `json:"users"`
	Files int64 `json:"files"`
}

type StatusService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
}

func NewStatusService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore) *StatusService {
	return &StatusService{db: db, repomanager: m, blobs: blobs}
}

func (s *StatusService) Status(ctx context.Context) Status {
	return Status{
		DB:      s.db.PingContext(ctx) == nil,
		Storage: s.blobs.Ping(ctx) == nil,
	}
}

func (s *StatusService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.repomanager.Users(s.db).CountAll(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.repomanager.Files(s.db).CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{Users: users, Files: files}, nil
}
