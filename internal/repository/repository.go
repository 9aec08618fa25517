package repository

import (
	"context"
	"modernblog/internal/models"

	"github.com/jmoiron/sqlx"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	ToggleBookmark(ctx context.Context, userID, postID string) ([]string, bool, error)
	GetBookmarks(ctx context.Context, userID string) ([]string, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post, categoryIDs []string) error
	GetByID(ctx context.Context, postID string) (*models.Post, error)
	RegisterView(ctx context.Context, postID string) error
	List(ctx context.Context, filter PostFilter) (*models.PostPage, error)
	Update(ctx context.Context, post *models.Post, categoryIDs []string) error
	Delete(ctx context.Context, postID string) error
	ToggleLike(ctx context.Context, postID, userID string) (int, bool, error)
}

type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, categoryID string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ResolveIDs(ctx context.Context, categoryIDs []string) ([]string, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, categoryID string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, commentID string) (*models.Comment, error)
	ListForPost(ctx context.Context, postID string) ([]models.Comment, error)
	Delete(ctx context.Context, commentID string) error
}

type AnalyticsRepository interface {
	Summary(ctx context.Context, authorID string) (*models.AnalyticsSummary, error)
}

type Repository struct {
	User      UserRepository
	Post      PostRepository
	Category  CategoryRepository
	Comment   CommentRepository
	Analytics AnalyticsRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User:      NewUserRepository(db),
		Post:      NewPostRepository(db),
		Category:  NewCategoryRepository(db),
		Comment:   NewCommentRepository(db),
		Analytics: NewAnalyticsRepository(db),
	}
}
