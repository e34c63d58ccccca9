package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfshelf/internal/model"
	"pdfshelf/internal/repository"
)

func ptr[T any](v T) *T { return &v }

func newDoc(title string) *model.Document {
	return &model.Document{Title: title, Filename: title + ".pdf", Size: 100}
}

func TestCategoryStoreDefaults(t *testing.T) {
	s := NewCategoryStore()
	cats, err := s.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 3)

	assert.Equal(t, model.Category{ID: 1, Name: "Academic"}, cats[0])
	assert.Equal(t, model.Category{ID: 2, Name: "Business"}, cats[1])
	assert.Equal(t, model.Category{ID: 3, Name: "Personal"}, cats[2])
}

func TestCategoryStoreCreate(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore()

	cat, err := s.Create(ctx, "Taxes")
	require.NoError(t, err)
	assert.Equal(t, int64(4), cat.ID)
	assert.Equal(t, "Taxes", cat.Name)

	got, err := s.FindByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, *cat, *got)
}

func TestCategoryStoreFindByName(t *testing.T) {
	ctx := context.Background()
	s := NewCategoryStore()

	for _, name := range []string{"Academic", "academic", "ACADEMIC", "aCaDeMiC"} {
		cat, err := s.FindByName(ctx, name)
		require.NoError(t, err, "lookup %q", name)
		assert.Equal(t, int64(1), cat.ID)
		assert.Equal(t, "Academic", cat.Name)
	}

	_, err := s.FindByName(ctx, "Fiction")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDocumentStoreCreate(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	before := time.Now().UTC()
	doc, err := s.Create(ctx, newDoc("first"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), doc.ID)
	assert.False(t, doc.UploadedAt.Before(before))
	require.NotNil(t, doc.LastOpenedAt)
	assert.Equal(t, doc.UploadedAt, *doc.LastOpenedAt)

	second, err := s.Create(ctx, newDoc("second"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestDocumentStoreIDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	first, err := s.Create(ctx, newDoc("a"))
	require.NoError(t, err)
	_, err = s.Create(ctx, newDoc("b"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, first.ID))

	third, err := s.Create(ctx, newDoc("c"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.ID)
}

func TestDocumentStoreFindByID(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	created, err := s.Create(ctx, newDoc("a"))
	require.NoError(t, err)

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	_, err = s.FindByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestDocumentStoreUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	created, err := s.Create(ctx, newDoc("draft"))
	require.NoError(t, err)

	t.Run("merges provided fields", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, repository.DocumentPatch{
			Title:    ptr("final"),
			Favorite: ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "final", updated.Title)
		assert.True(t, updated.Favorite)
		assert.Equal(t, created.Filename, updated.Filename)
	})

	t.Run("uploadedAt never changes", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, repository.DocumentPatch{Title: ptr("again")})
		require.NoError(t, err)
		assert.Equal(t, created.UploadedAt, updated.UploadedAt)
	})

	t.Run("category can be set and cleared", func(t *testing.T) {
		updated, err := s.Update(ctx, created.ID, repository.DocumentPatch{
			SetCategory: true,
			CategoryID:  ptr(int64(2)),
		})
		require.NoError(t, err)
		require.NotNil(t, updated.CategoryID)
		assert.Equal(t, int64(2), *updated.CategoryID)

		cleared, err := s.Update(ctx, created.ID, repository.DocumentPatch{SetCategory: true})
		require.NoError(t, err)
		assert.Nil(t, cleared.CategoryID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := s.Update(ctx, 99, repository.DocumentPatch{Title: ptr("x")})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDocumentStoreTouch(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	created, err := s.Create(ctx, newDoc("a"))
	require.NoError(t, err)

	stamp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Touch(ctx, created.ID, stamp))

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastOpenedAt)
	assert.Equal(t, stamp, *got.LastOpenedAt)
	assert.Equal(t, created.UploadedAt, got.UploadedAt)

	assert.ErrorIs(t, s.Touch(ctx, 99, stamp), repository.ErrNotFound)
}

func TestDocumentStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	doc := newDoc("fav")
	doc.Favorite = true
	created, err := s.Create(ctx, doc)
	require.NoError(t, err)
	_, err = s.Create(ctx, newDoc("other"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, created.ID))

	_, err = s.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	favs, err := s.FindFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	assert.ErrorIs(t, s.Delete(ctx, created.ID), repository.ErrNotFound)
}

func TestDocumentStoreProjections(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	a := newDoc("Annual Report")
	a.CategoryID = ptr(int64(1))
	a.Favorite = true
	b := newDoc("Meeting Notes")
	b.CategoryID = ptr(int64(2))
	c := newDoc("Trip Report")

	created := make([]*model.Document, 0, 3)
	for _, d := range []*model.Document{a, b, c} {
		got, err := s.Create(ctx, d)
		require.NoError(t, err)
		created = append(created, got)
	}

	t.Run("by category", func(t *testing.T) {
		docs, err := s.FindByCategory(ctx, 1)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Annual Report", docs[0].Title)
	})

	t.Run("search", func(t *testing.T) {
		docs, err := s.Search(ctx, "report")
		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("favorites", func(t *testing.T) {
		docs, err := s.FindFavorites(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Annual Report", docs[0].Title)
	})

	t.Run("recent", func(t *testing.T) {
		// Open the first document last so it floats to the top.
		stamp := time.Now().UTC().Add(time.Hour)
		require.NoError(t, s.Touch(ctx, created[0].ID, stamp))

		docs, err := s.FindRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, created[0].ID, docs[0].ID)
	})
}

func TestDocumentStoreSnapshotIsolation(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	created, err := s.Create(ctx, newDoc("a"))
	require.NoError(t, err)

	all, err := s.FindAll(ctx)
	require.NoError(t, err)
	all[0].Title = "mutated"

	got, err := s.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}
