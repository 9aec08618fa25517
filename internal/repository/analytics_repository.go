package repository

import (
	"context"
	"fmt"
	"modernblog/internal/models"

	"github.com/jmoiron/sqlx"
)

type analyticsRepository struct {
	db *sqlx.DB
}

func NewAnalyticsRepository(db *sqlx.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

// Summary собирает счётчики дашборда. Пустой authorID - сводка по всей
// платформе (для админа), иначе только по постам и комментариям автора.
func (r *analyticsRepository) Summary(ctx context.Context, authorID string) (*models.AnalyticsSummary, error) {
	summary := &models.AnalyticsSummary{TopPosts: []models.TopPost{}}

	postsWhere := ""
	commentsWhere := ""
	args := []interface{}{}
	if authorID != "" {
		postsWhere = " WHERE author_id = $1"
		commentsWhere = " WHERE author_id = $1"
		args = append(args, authorID)
	}

	err := r.db.GetContext(ctx, &summary.PostsCount, `SELECT COUNT(*) FROM posts`+postsWhere, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте постов: %w", err)
	}

	err = r.db.GetContext(ctx, &summary.CommentsCount, `SELECT COUNT(*) FROM comments`+commentsWhere, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте комментариев: %w", err)
	}

	err = r.db.GetContext(ctx, &summary.TotalViews, `SELECT COALESCE(SUM(views), 0) FROM posts`+postsWhere, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте просмотров: %w", err)
	}

	query := `SELECT post_id, title, views, created_at FROM posts` + postsWhere + ` ORDER BY views DESC LIMIT 5`
	err = r.db.SelectContext(ctx, &summary.TopPosts, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении популярных постов: %w", err)
	}

	return summary, nil
}
