package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"modernblog/internal/models"
)

func userRow(user *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "username", "email", "password_hash", "role",
		"bio", "avatar_url", "created_at", "updated_at",
	}).AddRow(
		user.UserID, user.Username, user.Email, user.PasswordHash, user.Role,
		user.Bio, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
	)
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	password := "password123"

	t.Run("Успешное создание пользователя", func(t *testing.T) {
		user := &models.User{
			Username: "ivan",
			Email:    "ivan@example.com",
		}

		mock.ExpectExec(`
			INSERT INTO users (user_id, username, email, password_hash, role, bio, avatar_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`).
			WithArgs(
				sqlmock.AnyArg(), // user_id генерируется в репозитории
				"ivan",
				"ivan@example.com",
				sqlmock.AnyArg(), // password_hash
				models.RoleAuthor,
				"",
				"",
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		err := repo.CreateUser(ctx, user, password)

		assert.NoError(t, err)
		assert.NotEmpty(t, user.UserID)
		assert.Equal(t, models.RoleAuthor, user.Role) // роль по умолчанию
		assert.NotEqual(t, password, user.PasswordHash)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка при дублировании email", func(t *testing.T) {
		user := &models.User{
			Username: "ivan",
			Email:    "ivan@example.com",
		}

		mock.ExpectExec(`
			INSERT INTO users (user_id, username, email, password_hash, role, bio, avatar_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`).
			WithArgs(
				sqlmock.AnyArg(),
				"ivan",
				"ivan@example.com",
				sqlmock.AnyArg(),
				models.RoleAuthor,
				"",
				"",
				sqlmock.AnyArg(),
				sqlmock.AnyArg(),
			).
			WillReturnError(assert.AnError)

		err := repo.CreateUser(ctx, user, password)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "ошибка при создании пользователя")
	})
}

func TestUserRepository_VerifyPassword(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	password := "password123"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		UserID:       uuid.New().String(),
		Username:     "ivan",
		Email:        "ivan@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleAuthor,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	t.Run("Верный пароль", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE email = $1`).
			WithArgs(user.Email).
			WillReturnRows(userRow(user))

		got, err := repo.VerifyPassword(ctx, user.Email, password)

		require.NoError(t, err)
		assert.Equal(t, user.UserID, got.UserID)
	})

	t.Run("Неверный пароль", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE email = $1`).
			WithArgs(user.Email).
			WillReturnRows(userRow(user))

		_, err := repo.VerifyPassword(ctx, user.Email, "wrong-password")

		assert.ErrorIs(t, err, models.ErrUnauthorized)
	})

	t.Run("Несуществующий email тоже даёт Unauthorized", func(t *testing.T) {
		mock.ExpectQuery(`SELECT * FROM users WHERE email = $1`).
			WithArgs("ghost@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, err := repo.VerifyPassword(ctx, "ghost@example.com", password)

		assert.ErrorIs(t, err, models.ErrUnauthorized)
		assert.NotErrorIs(t, err, models.ErrNotFound)
	})
}

func TestUserRepository_ToggleBookmark(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewUserRepository(sqlxDB)

	ctx := context.Background()
	userID := uuid.New().String()
	postID := uuid.New().String()

	t.Run("Добавление закладки", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(*) FROM posts WHERE post_id = $1`).
			WithArgs(postID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectExec(`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`).
			WithArgs(userID, postID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		mock.ExpectExec(`INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`).
			WithArgs(userID, postID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT post_id FROM bookmarks WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}).AddRow(postID))

		bookmarks, bookmarked, err := repo.ToggleBookmark(ctx, userID, postID)

		require.NoError(t, err)
		assert.True(t, bookmarked)
		assert.Equal(t, []string{postID}, bookmarks)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Снятие закладки", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(*) FROM posts WHERE post_id = $1`).
			WithArgs(postID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		mock.ExpectExec(`DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`).
			WithArgs(userID, postID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		mock.ExpectQuery(`SELECT post_id FROM bookmarks WHERE user_id = $1`).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"post_id"}))

		bookmarks, bookmarked, err := repo.ToggleBookmark(ctx, userID, postID)

		require.NoError(t, err)
		assert.False(t, bookmarked)
		assert.Empty(t, bookmarks)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Закладка на несуществующий пост", func(t *testing.T) {
		mock.ExpectQuery(`SELECT COUNT(*) FROM posts WHERE post_id = $1`).
			WithArgs(postID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, _, err := repo.ToggleBookmark(ctx, userID, postID)

		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
