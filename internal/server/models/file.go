// Package models defines server-side data models persisted in the database.
package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Kind is the type of a file record.
type Kind string

const (
	KindFolder Kind = "folder"
	KindFile   Kind = "file"
	KindImage  Kind = "image"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}

// HasContent reports whether records of this kind carry stored bytes.
func (k Kind) HasContent() bool {
	return k == KindFile || k == KindImage
}

// ParentID identifies the folder a record lives in. RootID is the only root
// marker used inside the server.
//
// On the wire the root is the number 0; 0, "0", "" and null all decode to
// RootID. In SQL the root is NULL.
type ParentID string

// RootID is the parent of top-level records.
const RootID ParentID = ""

// IsRoot reports whether p denotes the top level.
func (p ParentID) IsRoot() bool { return p == RootID }

// ParseParentID normalizes a textual parent id, e.g. from a query string.
func ParseParentID(s string) ParentID {
	if s == "0" {
		return RootID
	}
	return ParentID(s)
}

func (p ParentID) MarshalJSON() ([]byte, error) {
	if p.IsRoot() {
		return []byte("0"), nil
	}
	return json.Marshal(string(p))
}

func (p *ParentID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = RootID
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = ParseParentID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("parentId: %w", err)
	}
	*p = ParseParentID(n.String())
	return nil
}

// Value stores the root as NULL.
func (p ParentID) Value() (driver.Value, error) {
	if p.IsRoot() {
		return nil, nil
	}
	return string(p), nil
}

func (p *ParentID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*p = RootID
	case string:
		*p = ParentID(v)
	case []byte:
		*p = ParentID(string(v))
	default:
		return fmt.Errorf("parentId: unsupported type %T", src)
	}
	return nil
}

// FileRecord is the metadata of a stored folder, file or image.
// ContentRef locates the bytes in the blob store and is never serialized.
type FileRecord struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Kind       Kind      `json:"type"`
	IsPublic   bool      `json:"isPublic"`
	ParentID   ParentID  `json:"parentId"`
	ContentRef string    `json:"-"`
	CreatedAt  time.Time `json:"-"`
}
