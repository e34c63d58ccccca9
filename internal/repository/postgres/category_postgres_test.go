package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfshelf/internal/repository"
)

func newCatRepo(t *testing.T) (*CategoryPostgres, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCategoryPostgres(db), mock
}

func TestCategoryCreate(t *testing.T) {
	repo, mock := newCatRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO categories (name) VALUES ($1) RETURNING id, name")).
		WithArgs("Taxes").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(4, "Taxes"))

	cat, err := repo.Create(context.Background(), "Taxes")
	require.NoError(t, err)
	assert.Equal(t, int64(4), cat.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryFindAll(t *testing.T) {
	repo, mock := newCatRepo(t)

	mock.ExpectQuery("SELECT id, name FROM categories ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Academic").
			AddRow(2, "Business"))

	cats, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Academic", cats[0].Name)
}

func TestCategoryFindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock := newCatRepo(t)

		mock.ExpectQuery("SELECT id, name FROM categories WHERE id").
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Academic"))

		cat, err := repo.FindByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Academic", cat.Name)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newCatRepo(t)

		mock.ExpectQuery("SELECT id, name FROM categories WHERE id").
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByID(context.Background(), 9)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestCategoryFindByName(t *testing.T) {
	repo, mock := newCatRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(name) = LOWER($1)")).
		WithArgs("academic").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Academic"))

	cat, err := repo.FindByName(context.Background(), "academic")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cat.ID)
}
