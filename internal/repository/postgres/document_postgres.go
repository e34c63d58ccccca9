// Package postgres implements the repository contracts over database/sql.
// It exists so the in-memory store can be swapped for durable persistence
// without touching the service layer; SQL only, no business logic.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pdfshelf/internal/model"
	"pdfshelf/internal/repository"
)

const documentColumns = `id, title, filename, size, category_id, thumbnail, uploaded_at, last_opened_at, favorite, total_pages`

// DocumentPostgres is the PostgreSQL repository.DocumentRepository.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

// Create inserts a new document row; the database assigns the id and the
// upload timestamp, and the access timestamp starts at the upload time.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (title, filename, size, category_id, thumbnail, favorite, total_pages, uploaded_at, last_opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.Title,
		doc.Filename,
		doc.Size,
		doc.CategoryID,
		doc.Thumbnail,
		doc.Favorite,
		doc.TotalPages,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its id.
func (r *DocumentPostgres) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// FindAll returns every document in insertion order.
func (r *DocumentPostgres) FindAll(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents ORDER BY id`
	return r.queryDocuments(ctx, q)
}

// FindByCategory returns documents in the given category.
func (r *DocumentPostgres) FindByCategory(ctx context.Context, categoryID int64) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE category_id = $1 ORDER BY id`
	return r.queryDocuments(ctx, q, categoryID)
}

// Search matches the title case-insensitively as a substring.
func (r *DocumentPostgres) Search(ctx context.Context, query string) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE title ILIKE '%' || $1 || '%' ORDER BY id`
	return r.queryDocuments(ctx, q, query)
}

// FindFavorites returns documents with the favorite flag set.
func (r *DocumentPostgres) FindFavorites(ctx context.Context) ([]model.Document, error) {
	const q = `SELECT ` + documentColumns + ` FROM documents WHERE favorite ORDER BY id`
	return r.queryDocuments(ctx, q)
}

// FindRecent orders by last open time, falling back to the upload time for
// never-opened rows; the id tie-break keeps the order deterministic.
func (r *DocumentPostgres) FindRecent(ctx context.Context, limit int) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		ORDER BY COALESCE(last_opened_at, uploaded_at) DESC NULLS LAST, id
		LIMIT $1
	`
	return r.queryDocuments(ctx, q, limit)
}

// Update applies the patch fields that are present and returns the merged
// row. uploaded_at is never part of the SET clause.
func (r *DocumentPostgres) Update(ctx context.Context, id int64, patch repository.DocumentPatch) (*model.Document, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)

	add := func(column string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.SetCategory {
		add("category_id", patch.CategoryID)
	}
	if patch.Thumbnail != nil {
		add("thumbnail", patch.Thumbnail)
	}
	if patch.Favorite != nil {
		add("favorite", *patch.Favorite)
	}
	if patch.LastOpenedAt != nil {
		add("last_opened_at", *patch.LastOpenedAt)
	}

	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(
		"UPDATE documents SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), len(args), documentColumns,
	)
	return scanDocument(r.db.QueryRowContext(ctx, q, args...))
}

// Touch records an access.
func (r *DocumentPostgres) Touch(ctx context.Context, id int64, t time.Time) error {
	_, err := r.Update(ctx, id, repository.DocumentPatch{LastOpenedAt: &t})
	return err
}

// Delete removes a document row by id.
func (r *DocumentPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM documents WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *DocumentPostgres) queryDocuments(ctx context.Context, q string, args ...any) ([]model.Document, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		var d model.Document
		if err := scanDocumentFields(rows, &d); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var d model.Document
	if err := scanDocumentFields(row, &d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDocumentFields(row rowScanner, d *model.Document) error {
	return row.Scan(
		&d.ID,
		&d.Title,
		&d.Filename,
		&d.Size,
		&d.CategoryID,
		&d.Thumbnail,
		&d.UploadedAt,
		&d.LastOpenedAt,
		&d.Favorite,
		&d.TotalPages,
	)
}
