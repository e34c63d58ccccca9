// Package memory implements the repository contracts with plain in-process
// maps. It is the authoritative store for a single-user deployment: state
// lives for the lifetime of the process and ids are never reused, but
// nothing survives a restart. Every operation runs to completion under its
// store's mutex, so concurrent request handlers cannot observe a partial
// mutation.
package memory

import (
	"context"
	"strings"
	"sync"

	"pdfshelf/internal/model"
	"pdfshelf/internal/repository"
)

// DefaultCategories are created by NewCategoryStore so a fresh store is
// immediately usable. Ids 1..3 are assigned in this order.
var DefaultCategories = []string{"Academic", "Business", "Personal"}

// CategoryStore is the in-memory CategoryRepository. Categories are never
// deleted, so there is no removal path.
type CategoryStore struct {
	mu     sync.RWMutex
	byID   map[int64]model.Category
	order  []int64
	nextID int64
}

var _ repository.CategoryRepository = (*CategoryStore)(nil)

// NewCategoryStore constructs a CategoryStore seeded with
// DefaultCategories.
func NewCategoryStore() *CategoryStore {
	s := &CategoryStore{
		byID:   make(map[int64]model.Category),
		nextID: 1,
	}
	for _, name := range DefaultCategories {
		s.add(name)
	}
	return s
}

func (s *CategoryStore) add(name string) model.Category {
	cat := model.Category{ID: s.nextID, Name: name}
	s.nextID++
	s.byID[cat.ID] = cat
	s.order = append(s.order, cat.ID)
	return cat
}

// Create assigns the next id and stores the category. Name uniqueness is
// the caller's concern.
func (s *CategoryStore) Create(ctx context.Context, name string) (*model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := s.add(name)
	return &cat, nil
}

// FindAll returns every category in creation order.
func (s *CategoryStore) FindAll(ctx context.Context) ([]model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Category, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

// FindByID returns a category by id.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cat, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &cat, nil
}

// FindByName returns the category matching name case-insensitively.
func (s *CategoryStore) FindByName(ctx context.Context, name string) (*model.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		cat := s.byID[id]
		if strings.EqualFold(cat.Name, name) {
			return &cat, nil
		}
	}
	return nil, repository.ErrNotFound
}
