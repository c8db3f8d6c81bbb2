package services

import (
	"github.com/dmitrijs2005/filekeeper/internal/server/models"
	"github.com/google/uuid"
)

func ownedBy(rec *models.FileRecord, userID string) bool {
	return userID != "" && rec.UserID == userID
}

// canReadContent decides whether requesterID may download rec's bytes.
// An empty requesterID is an anonymous caller.
func canReadContent(rec *models.FileRecord, requesterID string) bool {
	return rec.IsPublic || ownedBy(rec, requesterID)
}

// validID reports whether id can name a stored record. Anything else is
// treated as absent.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
