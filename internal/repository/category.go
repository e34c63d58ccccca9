package repository

import (
	"context"

	"pdfshelf/internal/model"
)

// CategoryRepository defines persistence for categories. Uniqueness of
// names is not enforced here; the service layer checks before creating.
// Categories are never deleted.
type CategoryRepository interface {
	// Create assigns the next id and stores the category.
	Create(ctx context.Context, name string) (*model.Category, error)

	// FindAll returns every category.
	FindAll(ctx context.Context) ([]model.Category, error)

	// FindByID returns a category by id, or ErrNotFound.
	FindByID(ctx context.Context, id int64) (*model.Category, error)

	// FindByName returns the category whose name matches name
	// case-insensitively, or ErrNotFound.
	FindByName(ctx context.Context, name string) (*model.Category, error)
}
