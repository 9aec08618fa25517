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
	"golang.org/x/crypto/bcrypt"
)

type userRepository struct {
	db *sqlx.DB
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatarUrl"`
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	// create password hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	user.UserID = uuid.New().String()
	user.PasswordHash = string(hashedPassword)
	if user.Role == "" {
		user.Role = models.RoleAuthor
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (user_id, username, email, password_hash, role, bio, avatar_url, created_at, updated_at)
		VALUES (:user_id, :username, :email, :password_hash, :role, :bio, :avatar_url, :created_at, :updated_at)
	`

	_, err = r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE user_id = $1`

	err := r.db.GetContext(ctx, &user, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %s не найден: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1`

	err := r.db.GetContext(ctx, &user, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с email %s не найден: %w", email, models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя по email: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	var user models.User

	query := `SELECT * FROM users WHERE email = $1 OR username = $2`

	err := r.db.GetContext(ctx, &user, query, email, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пользователь не найден: %w", models.ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка при получении пользователя: %w", err)
	}

	return &user, nil
}

func (r *userRepository) VerifyPassword(ctx context.Context, email, password string) (*models.User, error) {
	user, err := r.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("неверный email или пароль: %w", models.ErrUnauthorized)
		}
		return nil, err
	}

	// checking that the password hash is the same
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("неверный email или пароль: %w", models.ErrUnauthorized)
	}

	return user, nil
}

func (r *userRepository) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*models.User, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	user.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET bio = :bio, avatar_url = :avatar_url, updated_at = :updated_at
		WHERE user_id = :user_id
	`

	_, err = r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return nil, fmt.Errorf("ошибка при обновлении профиля: %w", err)
	}

	return user, nil
}

// ToggleBookmark хранит закладки на стороне пользователя, а не поста.
// Снятие и установка - одиночные атомарные операции хранилища.
func (r *userRepository) ToggleBookmark(ctx context.Context, userID, postID string) ([]string, bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка при проверке поста: %w", err)
	}
	if exists == 0 {
		return nil, false, fmt.Errorf("пост с ID %s не найден: %w", postID, models.ErrNotFound)
	}

	result, err := r.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return nil, false, fmt.Errorf("ошибка при снятии закладки: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	bookmarked := false
	if removed == 0 {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			userID, postID)
		if err != nil {
			return nil, false, fmt.Errorf("ошибка при добавлении закладки: %w", err)
		}
		bookmarked = true
	}

	bookmarks, err := r.GetBookmarks(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	return bookmarks, bookmarked, nil
}

func (r *userRepository) GetBookmarks(ctx context.Context, userID string) ([]string, error) {
	bookmarks := []string{}

	query := `SELECT post_id FROM bookmarks WHERE user_id = $1`

	err := r.db.SelectContext(ctx, &bookmarks, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении закладок: %w", err)
	}

	return bookmarks, nil
}
