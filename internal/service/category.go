package service

import (
	"context"
	"errors"
	"strings"

	"pdfshelf/internal/model"
	"pdfshelf/internal/repository"
)

var (
	ErrCategoryExists = errors.New("category already exists")
	ErrNameRequired   = errors.New("category name is required")
)

// CategoryService defines the use cases for handling categories.
type CategoryService interface {
	// List returns every category.
	List(ctx context.Context) ([]model.Category, error)

	// Create stores a new category after checking, case-insensitively, that
	// the name is not already taken. The store itself does not enforce
	// uniqueness.
	Create(ctx context.Context, name string) (*model.Category, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService constructs a new CategoryService.
func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	return s.repo.FindAll(ctx)
}

func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}
	return s.repo.Create(ctx, name)
}
