package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"modernblog/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type commentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}
	comment.CreatedAt = time.Now()

	query := `
		INSERT INTO comments (comment_id, post_id, author_id, content, status, parent_id, created_at)
		VALUES (:comment_id, :post_id, :author_id, :content, :status, :parent_id, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, comment)
	if err != nil {
		return fmt.Errorf("ошибка при создании комментария: %w", err)
	}

	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, commentID string) (*models.Comment, error) {
	var comment models.Comment

	query := `
		SELECT c.comment_id, c.post_id, c.author_id, c.content, c.status, c.parent_id, c.created_at,
		       u.username AS author_username
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.comment_id = $1
	`

	err := r.db.GetContext(ctx, &comment, query, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("комментарий с ID %s не найден: %w", commentID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении комментария: %w", err)
	}

	return &comment, nil
}

func (r *commentRepository) ListForPost(ctx context.Context, postID string) ([]models.Comment, error) {
	comments := []models.Comment{}

	query := `
		SELECT c.comment_id, c.post_id, c.author_id, c.content, c.status, c.parent_id, c.created_at,
		       u.username AS author_username
		FROM comments c
		JOIN users u ON u.user_id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at DESC
	`

	err := r.db.SelectContext(ctx, &comments, query, postID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, commentID string) error {
	query := `DELETE FROM comments WHERE comment_id = $1`

	result, err := r.db.ExecContext(ctx, query, commentID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении комментария: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("комментарий с ID %s не найден: %w", commentID, models.ErrNotFound)
	}

	return nil
}
