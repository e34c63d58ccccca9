package model

import "time"

// Document is the metadata record for one stored PDF.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
//
// CategoryID is a weak reference: it may point at a category that no longer
// exists, and consumers render such documents as uncategorized. Nullable
// columns are pointer-typed so JSON output carries an explicit null rather
// than a zero value.
type Document struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Filename     string     `json:"filename"`
	Size         int64      `json:"size"`
	CategoryID   *int64     `json:"categoryId"`
	Thumbnail    *string    `json:"thumbnail"`
	UploadedAt   time.Time  `json:"uploadedAt"`
	LastOpenedAt *time.Time `json:"lastOpenedAt"`
	Favorite     bool       `json:"favorite"`
	TotalPages   *int       `json:"totalPages"`
}

// OpenedOrUploadedAt returns the recency key used for "recent" ordering:
// the last open time when present, the upload time otherwise.
func (d Document) OpenedOrUploadedAt() time.Time {
	if d.LastOpenedAt != nil {
		return *d.LastOpenedAt
	}
	return d.UploadedAt
}
