package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfshelf/internal/model"
	"pdfshelf/internal/repository"
)

var documentCols = []string{
	"id", "title", "filename", "size", "category_id", "thumbnail",
	"uploaded_at", "last_opened_at", "favorite", "total_pages",
}

func newDocRepo(t *testing.T) (*DocumentPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDocumentPostgres(db), mock
}

func docRow(id int64, title string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(documentCols).
		AddRow(id, title, "abc.pdf", 1024, nil, nil, now, now, false, 3)
}

func TestDocumentCreate(t *testing.T) {
	repo, mock := newDocRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs("Report", "abc.pdf", int64(1024), nil, nil, false, 3).
		WillReturnRows(docRow(1, "Report"))

	pages := 3
	doc, err := repo.Create(context.Background(), &model.Document{
		Title:      "Report",
		Filename:   "abc.pdf",
		Size:       1024,
		TotalPages: &pages,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), doc.ID)
	assert.False(t, doc.UploadedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentFindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newDocRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, filename, size, category_id, thumbnail, uploaded_at, last_opened_at, favorite, total_pages FROM documents WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(docRow(1, "Report"))

		doc, err := repo.FindByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Report", doc.Title)
		require.NotNil(t, doc.TotalPages)
		assert.Equal(t, 3, *doc.TotalPages)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newDocRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(context.Background(), 9)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDocumentProjections(t *testing.T) {
	ctx := context.Background()

	t.Run("all", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY id").
			WillReturnRows(docRow(1, "a").AddRow(
				2, "b", "def.pdf", 10, nil, nil, time.Now(), nil, true, nil))

		docs, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Nil(t, docs[1].LastOpenedAt)
		assert.Nil(t, docs[1].TotalPages)
	})

	t.Run("by category", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE category_id").
			WithArgs(int64(2)).
			WillReturnRows(docRow(1, "a"))

		docs, err := repo.FindByCategory(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("search", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE title ILIKE").
			WithArgs("report").
			WillReturnRows(docRow(1, "Report"))

		docs, err := repo.Search(ctx, "report")
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})

	t.Run("favorites", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE favorite").
			WillReturnRows(sqlmock.NewRows(documentCols))

		docs, err := repo.FindFavorites(ctx)
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("recent", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY COALESCE(last_opened_at, uploaded_at) DESC NULLS LAST, id")).
			WithArgs(10).
			WillReturnRows(docRow(1, "a"))

		docs, err := repo.FindRecent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, docs, 1)
	})
}

func TestDocumentUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("builds the set clause from present fields", func(t *testing.T) {
		repo, mock := newDocRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE documents SET title = $1, favorite = $2 WHERE id = $3 RETURNING")).
			WithArgs("renamed", true, int64(1)).
			WillReturnRows(docRow(1, "renamed"))

		title := "renamed"
		fav := true
		doc, err := repo.Update(ctx, 1, repository.DocumentPatch{Title: &title, Favorite: &fav})
		require.NoError(t, err)
		assert.Equal(t, "renamed", doc.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clearing the category binds NULL", func(t *testing.T) {
		repo, mock := newDocRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE documents SET category_id = $1 WHERE id = $2 RETURNING")).
			WithArgs(nil, int64(1)).
			WillReturnRows(docRow(1, "a"))

		_, err := repo.Update(ctx, 1, repository.DocumentPatch{SetCategory: true})
		require.NoError(t, err)
	})

	t.Run("empty patch falls back to a fetch", func(t *testing.T) {
		repo, mock := newDocRepo(t)

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE id").
			WithArgs(int64(1)).
			WillReturnRows(docRow(1, "a"))

		_, err := repo.Update(ctx, 1, repository.DocumentPatch{})
		require.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newDocRepo(t)

		mock.ExpectQuery("UPDATE documents SET").
			WillReturnError(sql.ErrNoRows)

		title := "x"
		_, err := repo.Update(ctx, 9, repository.DocumentPatch{Title: &title})
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestDocumentTouch(t *testing.T) {
	repo, mock := newDocRepo(t)

	stamp := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE documents SET last_opened_at = $1 WHERE id = $2 RETURNING")).
		WithArgs(stamp, int64(1)).
		WillReturnRows(docRow(1, "a"))

	require.NoError(t, repo.Touch(context.Background(), 1, stamp))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deleted", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM documents WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(ctx, 1))
	})

	t.Run("no row", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(ctx, 9), repository.ErrNotFound)
	})

	t.Run("exec failure", func(t *testing.T) {
		repo, mock := newDocRepo(t)
		mock.ExpectExec("DELETE FROM documents").
			WithArgs(int64(1)).
			WillReturnError(errors.New("db down"))

		assert.Error(t, repo.Delete(ctx, 1))
	})
}
