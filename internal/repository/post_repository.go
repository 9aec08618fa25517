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

type PostRepositoryImpl struct {
	db *sqlx.DB
}

// PostFilter - условия выборки постов, собранные на границе запроса.
// CategoryID уже разрешён из slug сервисом. Пустые поля не попадают
// в предикат; пустой Status означает "без условия по статусу".
type PostFilter struct {
	Search     string
	CategoryID string
	Tag        string
	AuthorID   string
	Status     string
	Page       int
	Limit      int
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

const postColumns = `
		p.post_id, p.author_id, p.title, p.content, p.status, p.tags, p.views,
		p.cover_image_url, p.published_at, p.created_at, p.updated_at,
		u.username AS author_username,
		(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.post_id) AS likes_count`

func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post, categoryIDs []string) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Tags == nil {
		post.Tags = pq.StringArray{}
	}

	query := `
		INSERT INTO posts
		(post_id, author_id, title, content, status, tags, cover_image_url, published_at, created_at, updated_at)
		VALUES
		(:post_id, :author_id, :title, :content, :status, :tags, :cover_image_url, :published_at, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	if err := r.replaceCategories(ctx, post.PostID, categoryIDs); err != nil {
		return err
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `
		SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.author_id
		WHERE p.post_id = $1
	`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s не найден: %w", postID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	if err := r.loadCategories(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}

	return &post, nil
}

// RegisterView атомарно увеличивает счётчик просмотров на каждое чтение,
// включая повторные чтения одним и тем же пользователем.
func (r *PostRepositoryImpl) RegisterView(ctx context.Context, postID string) error {
	query := `UPDATE posts SET views = views + 1 WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении счётчика просмотров: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %s не найден: %w", postID, models.ErrNotFound)
	}

	return nil
}

func (r *PostRepositoryImpl) List(ctx context.Context, filter PostFilter) (*models.PostPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	where, args := buildPostConditions(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p` + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, fmt.Errorf("ошибка при подсчёте постов: %w", err)
	}

	// сортировка по дате создания - контракт выдачи, новые первыми
	query := `
		SELECT` + postColumns + `
		FROM posts p
		JOIN users u ON u.user_id = p.author_id` + where +
		fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	posts := []models.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	if err := r.loadCategories(ctx, refs); err != nil {
		return nil, err
	}

	return &models.PostPage{
		Items: posts,
		Total: total,
		Page:  filter.Page,
		Pages: (total + filter.Limit - 1) / filter.Limit,
	}, nil
}

// buildPostConditions компилирует фильтр в единый предикат WHERE.
// Поисковое условие добавляется через AND к базовому, не заменяя его.
func buildPostConditions(filter PostFilter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}

	next := func() int { return len(args) + 1 }

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("p.status = $%d", next()))
		args = append(args, filter.Status)
	}

	if filter.AuthorID != "" {
		conditions = append(conditions, fmt.Sprintf("p.author_id = $%d", next()))
		args = append(args, filter.AuthorID)
	}

	if filter.Tag != "" {
		conditions = append(conditions, fmt.Sprintf("p.tags @> ARRAY[$%d]::text[]", next()))
		args = append(args, filter.Tag)
	}

	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.post_id AND pc.category_id = $%d)", next()))
		args = append(args, filter.CategoryID)
	}

	if filter.Search != "" {
		// спецсимволы LIKE экранируются: поиск "100%" ищет сам символ процента
		escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(filter.Search)
		pattern := "%" + escaped + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(p.title ILIKE $%d OR p.content ILIKE $%d OR EXISTS (SELECT 1 FROM unnest(p.tags) AS t WHERE t ILIKE $%d))",
			next(), next()+1, next()+2))
		args = append(args, pattern, pattern, pattern)
	}

	if len(conditions) == 0 {
		return "", args
	}

	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post, categoryIDs []string) error {
	post.UpdatedAt = time.Now()

	query := `
		UPDATE posts SET
			title = :title,
			content = :content,
			status = :status,
			tags = :tags,
			cover_image_url = :cover_image_url,
			published_at = :published_at,
			updated_at = :updated_at
		WHERE post_id = :post_id
	`

	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %s не найден: %w", post.PostID, models.ErrNotFound)
	}

	if categoryIDs != nil {
		if err := r.replaceCategories(ctx, post.PostID, categoryIDs); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %s не найден: %w", postID, models.ErrNotFound)
	}

	return nil
}

// ToggleLike снимает лайк, если он есть, иначе ставит. Оба шага - одиночные
// атомарные операции хранилища, без read-modify-write на уровне приложения.
func (r *PostRepositoryImpl) ToggleLike(ctx context.Context, postID, userID string) (int, bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return 0, false, fmt.Errorf("ошибка при проверке поста: %w", err)
	}
	if exists == 0 {
		return 0, false, fmt.Errorf("пост с ID %s не найден: %w", postID, models.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return 0, false, fmt.Errorf("ошибка при снятии лайка: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	liked := false
	if removed == 0 {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, userID)
		if err != nil {
			return 0, false, fmt.Errorf("ошибка при добавлении лайка: %w", err)
		}
		liked = true
	}

	var count int
	err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return 0, false, fmt.Errorf("ошибка при подсчёте лайков: %w", err)
	}

	return count, liked, nil
}

func (r *PostRepositoryImpl) replaceCategories(ctx context.Context, postID string, categoryIDs []string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении категорий поста: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, categoryID)
		if err != nil {
			return fmt.Errorf("ошибка при привязке категории к посту: %w", err)
		}
	}

	return nil
}

type postCategoryRow struct {
	PostID string `db:"post_id"`
	models.Category
}

func (r *PostRepositoryImpl) loadCategories(ctx context.Context, posts []*models.Post) error {
	for _, post := range posts {
		post.Categories = []models.Category{}
	}

	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for i, post := range posts {
		ids[i] = post.PostID
		byID[post.PostID] = post
	}

	query := `
		SELECT pc.post_id, c.category_id, c.name, c.slug, c.description, c.created_at
		FROM post_categories pc
		JOIN categories c ON c.category_id = pc.category_id
		WHERE pc.post_id = ANY($1)
		ORDER BY c.name
	`

	var rows []postCategoryRow
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("ошибка при получении категорий поста: %w", err)
	}

	for _, row := range rows {
		if post, ok := byID[row.PostID]; ok {
			post.Categories = append(post.Categories, row.Category)
		}
	}

	return nil
}
