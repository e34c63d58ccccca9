package memory

import (
	"context"
	"sync"
	"time"

	"pdfshelf/internal/model"
	"pdfshelf/internal/query"
	"pdfshelf/internal/repository"
)

// DocumentStore is the in-memory DocumentRepository. The id counter only
// ever moves forward; deleting a document does not free its id. Listings
// come back in creation order so sorts have a defined tie-break (maps
// iterate in random order).
type DocumentStore struct {
	mu     sync.RWMutex
	byID   map[int64]model.Document
	order  []int64
	nextID int64
}

var _ repository.DocumentRepository = (*DocumentStore)(nil)

// NewDocumentStore constructs an empty DocumentStore.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		byID:   make(map[int64]model.Document),
		nextID: 1,
	}
}

// Create assigns the next id, stamps UploadedAt and LastOpenedAt with the
// current time and stores the record.
func (s *DocumentStore) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *doc
	stored.ID = s.nextID
	s.nextID++
	stored.UploadedAt = now
	stored.LastOpenedAt = &now

	s.byID[stored.ID] = stored
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

// FindByID returns a document by id without recording an access.
func (s *DocumentStore) FindByID(ctx context.Context, id int64) (*model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

// FindAll returns every document in creation order.
func (s *DocumentStore) FindAll(ctx context.Context) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(), nil
}

// FindByCategory returns documents whose CategoryID equals categoryID.
func (s *DocumentStore) FindByCategory(ctx context.Context, categoryID int64) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Apply(s.snapshot(), query.Filter{CategoryID: &categoryID}), nil
}

// Search returns documents whose title contains q, ignoring case.
func (s *DocumentStore) Search(ctx context.Context, q string) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Apply(s.snapshot(), query.Filter{Search: q}), nil
}

// FindFavorites returns documents with the favorite flag set.
func (s *DocumentStore) FindFavorites(ctx context.Context) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fav := true
	return query.Apply(s.snapshot(), query.Filter{Favorite: &fav}), nil
}

// FindRecent returns up to limit documents, most recently opened first.
func (s *DocumentStore) FindRecent(ctx context.Context, limit int) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return query.Recent(s.snapshot(), limit), nil
}

// Update merges patch into an existing document. UploadedAt is never
// modified.
func (s *DocumentStore) Update(ctx context.Context, id int64, patch repository.DocumentPatch) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.SetCategory {
		doc.CategoryID = patch.CategoryID
	}
	if patch.Thumbnail != nil {
		doc.Thumbnail = patch.Thumbnail
	}
	if patch.Favorite != nil {
		doc.Favorite = *patch.Favorite
	}
	if patch.LastOpenedAt != nil {
		doc.LastOpenedAt = patch.LastOpenedAt
	}
	s.byID[id] = doc

	out := doc
	return &out, nil
}

// Touch records an access by setting LastOpenedAt to t.
func (s *DocumentStore) Touch(ctx context.Context, id int64, t time.Time) error {
	_, err := s.Update(ctx, id, repository.DocumentPatch{LastOpenedAt: &t})
	return err
}

// Delete removes a document by id. Its id is not reused.
func (s *DocumentStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	for i, did := range s.order {
		if did == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// snapshot copies the documents in creation order. Callers hold at least
// the read lock.
func (s *DocumentStore) snapshot() []model.Document {
	out := make([]model.Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}
