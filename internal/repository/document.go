package repository

import (
	"context"
	"time"

	"pdfshelf/internal/model"
)

// DocumentRepository defines persistence for documents. No business logic
// here: validation, duplicate checks and file handling belong to the
// service layer.
type DocumentRepository interface {
	// Create assigns the next id, stamps UploadedAt and LastOpenedAt with
	// the current time, and stores the record. All other fields are taken
	// verbatim from doc. Returns the stored document.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document by id, or ErrNotFound. It is a pure read
	// and never mutates the record; access recording is Touch.
	FindByID(ctx context.Context, id int64) (*model.Document, error)

	// FindAll returns every document.
	FindAll(ctx context.Context) ([]model.Document, error)

	// FindByCategory returns documents whose CategoryID equals categoryID.
	FindByCategory(ctx context.Context, categoryID int64) ([]model.Document, error)

	// Search returns documents whose title contains query,
	// case-insensitively.
	Search(ctx context.Context, query string) ([]model.Document, error)

	// FindFavorites returns documents with the favorite flag set.
	FindFavorites(ctx context.Context) ([]model.Document, error)

	// FindRecent returns up to limit documents ordered by last open time
	// (upload time for never-opened documents), most recent first.
	FindRecent(ctx context.Context, limit int) ([]model.Document, error)

	// Update merges patch into an existing document and returns the merged
	// result, or ErrNotFound. Fields absent from patch are untouched;
	// UploadedAt is never modified.
	Update(ctx context.Context, id int64, patch DocumentPatch) (*model.Document, error)

	// Touch records a read-for-display access by setting LastOpenedAt.
	Touch(ctx context.Context, id int64, t time.Time) error

	// Delete removes a document by id, or returns ErrNotFound. The backing
	// file is the caller's responsibility.
	Delete(ctx context.Context, id int64) error
}
