package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pdfshelf/internal/model"
	"pdfshelf/internal/repository"
)

// CategoryPostgres is the PostgreSQL repository.CategoryRepository.
type CategoryPostgres struct {
	db *sql.DB
}

// NewCategoryPostgres creates a new CategoryPostgres repository.
func NewCategoryPostgres(db *sql.DB) *CategoryPostgres {
	return &CategoryPostgres{db: db}
}

var _ repository.CategoryRepository = (*CategoryPostgres)(nil)

// Create inserts a category row; the database assigns the id.
func (r *CategoryPostgres) Create(ctx context.Context, name string) (*model.Category, error) {
	const q = `INSERT INTO categories (name) VALUES ($1) RETURNING id, name`
	return scanCategory(r.db.QueryRowContext(ctx, q, name))
}

// FindAll returns every category in insertion order.
func (r *CategoryPostgres) FindAll(ctx context.Context) ([]model.Category, error) {
	const q = `SELECT id, name FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a category by id.
func (r *CategoryPostgres) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	const q = `SELECT id, name FROM categories WHERE id = $1`
	return scanCategory(r.db.QueryRowContext(ctx, q, id))
}

// FindByName matches the name case-insensitively.
func (r *CategoryPostgres) FindByName(ctx context.Context, name string) (*model.Category, error) {
	const q = `SELECT id, name FROM categories WHERE LOWER(name) = LOWER($1)`
	return scanCategory(r.db.QueryRowContext(ctx, q, name))
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
