package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modernblog/internal/models"
)

func TestCategoryRepository_GetBySlug(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewCategoryRepository(sqlxDB)

	ctx := context.Background()

	t.Run("Slug приводится к нижнему регистру", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM categories WHERE slug = $1`).
			WithArgs("go").
			WillReturnRows(sqlmock.NewRows([]string{
				"category_id", "name", "slug", "description", "created_at",
			}).AddRow("cat-1", "Go", "go", "Про Go", time.Now()))

		category, err := repo.GetBySlug(ctx, "Go")

		require.NoError(t, err)
		assert.Equal(t, "cat-1", category.CategoryID)
	})

	t.Run("Неизвестный slug", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM categories WHERE slug = $1`).
			WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"category_id"}))

		_, err := repo.GetBySlug(ctx, "ghost")

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestCategoryRepository_ResolveIDs(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewCategoryRepository(sqlxDB)

	ctx := context.Background()

	t.Run("Неизвестные id молча отбрасываются", func(t *testing.T) {
		mock.ExpectQuery(`SELECT category_id FROM categories WHERE category_id = ANY($1)`).
			WithArgs(pq.Array([]string{"cat-1", "ghost"})).
			WillReturnRows(sqlmock.NewRows([]string{"category_id"}).AddRow("cat-1"))

		resolved, err := repo.ResolveIDs(ctx, []string{"cat-1", "ghost"})

		require.NoError(t, err)
		assert.Equal(t, []string{"cat-1"}, resolved)
	})

	t.Run("Пустой список не ходит в БД", func(t *testing.T) {
		resolved, err := repo.ResolveIDs(ctx, nil)

		require.NoError(t, err)
		assert.Empty(t, resolved)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCategoryRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewCategoryRepository(sqlxDB)

	ctx := context.Background()

	t.Run("Дубликат name или slug даёт Conflict", func(t *testing.T) {
		category := &models.Category{Name: "Go", Slug: "GO"}

		mock.ExpectExec(`
			INSERT INTO categories (category_id, name, slug, description, created_at)
			VALUES (?, ?, ?, ?, ?)
		`).
			WithArgs(sqlmock.AnyArg(), "Go", "go", "", sqlmock.AnyArg()).
			WillReturnError(errors.New(`duplicate key value violates unique constraint "categories_slug_key"`))

		err := repo.Create(ctx, category)

		assert.ErrorIs(t, err, models.ErrConflict)
		assert.Equal(t, "go", category.Slug)
	})
}
