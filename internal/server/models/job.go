package models

import "time"

// Thumbnail job states.
const (
	JobPending = "pending"
	JobDone    = "done"
	JobFailed  = "failed"
)

// ThumbnailJob asks the image worker to render the size variants of FileID.
type ThumbnailJob struct {
	ID        string
	UserID    string
	FileID    string
	Status    string
	Attempts  int
	CreatedAt time.Time
}
