package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"modernblog/internal/models"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type categoryRepository struct {
	db *sqlx.DB
}

func NewCategoryRepository(db *sqlx.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}

	query := `SELECT * FROM categories ORDER BY name`

	err := r.db.SelectContext(ctx, &categories, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %w", err)
	}

	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category

	query := `SELECT * FROM categories WHERE category_id = $1`

	err := r.db.GetContext(ctx, &category, query, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("категория с ID %s не найдена: %w", categoryID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении категории: %w", err)
	}

	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category

	query := `SELECT * FROM categories WHERE slug = $1`

	err := r.db.GetContext(ctx, &category, query, strings.ToLower(slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("категория со slug %s не найдена: %w", slug, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении категории по slug: %w", err)
	}

	return &category, nil
}

// ResolveIDs возвращает только существующие id. Неизвестные id молча
// отбрасываются - допустимое поведение при создании/обновлении поста.
func (r *categoryRepository) ResolveIDs(ctx context.Context, categoryIDs []string) ([]string, error) {
	resolved := []string{}

	if len(categoryIDs) == 0 {
		return resolved, nil
	}

	query := `SELECT category_id FROM categories WHERE category_id = ANY($1)`

	err := r.db.SelectContext(ctx, &resolved, query, pq.Array(categoryIDs))
	if err != nil {
		return nil, fmt.Errorf("ошибка при проверке категорий: %w", err)
	}

	return resolved, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.CategoryID == "" {
		category.CategoryID = uuid.New().String()
	}
	category.Slug = strings.ToLower(category.Slug)
	category.CreatedAt = time.Now()

	query := `
		INSERT INTO categories (category_id, name, slug, description, created_at)
		VALUES (:category_id, :name, :slug, :description, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return fmt.Errorf("категория с таким name или slug уже существует: %w", models.ErrConflict)
		}
		return fmt.Errorf("ошибка при создании категории: %w", err)
	}

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	category.Slug = strings.ToLower(category.Slug)

	query := `
		UPDATE categories
		SET name = :name, slug = :slug, description = :description
		WHERE category_id = :category_id
	`

	result, err := r.db.NamedExecContext(ctx, query, category)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value") {
			return fmt.Errorf("категория с таким name или slug уже существует: %w", models.ErrConflict)
		}
		return fmt.Errorf("ошибка при обновлении категории: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("категория с ID %s не найдена: %w", category.CategoryID, models.ErrNotFound)
	}

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, categoryID string) error {
	query := `DELETE FROM categories WHERE category_id = $1`

	result, err := r.db.ExecContext(ctx, query, categoryID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении категории: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("категория с ID %s не найдена: %w", categoryID, models.ErrNotFound)
	}

	return nil
}
