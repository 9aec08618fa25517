package models

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleReader = "reader"
	RoleAuthor = "author"
	RoleAdmin  = "admin"

	StatusDraft     = "draft"
	StatusPublished = "published"

	CommentApproved = "approved"
)

type User struct {
	UserID       string    `json:"userId" db:"user_id"`
	Username     string    `json:"username" db:"username"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         string    `json:"role" db:"role"`
	Bio          string    `json:"bio" db:"bio"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type Post struct {
	PostID         string         `json:"postId" db:"post_id"`
	AuthorID       string         `json:"authorId" db:"author_id"`
	AuthorUsername string         `json:"authorUsername" db:"author_username"`
	Title          string         `json:"title" db:"title"`
	Content        string         `json:"content" db:"content"`
	Status         string         `json:"status" db:"status"`
	Tags           pq.StringArray `json:"tags" db:"tags"`
	Views          int            `json:"views" db:"views"`
	LikesCount     int            `json:"likesCount" db:"likes_count"`
	CoverImageURL  string         `json:"coverImageUrl" db:"cover_image_url"`
	PublishedAt    *time.Time     `json:"publishedAt" db:"published_at"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	Categories     []Category     `json:"categories" db:"-"`
}

type Category struct {
	CategoryID  string    `json:"categoryId" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Comment struct {
	CommentID      string    `json:"commentId" db:"comment_id"`
	PostID         string    `json:"postId" db:"post_id"`
	AuthorID       string    `json:"authorId" db:"author_id"`
	AuthorUsername string    `json:"authorUsername" db:"author_username"`
	Content        string    `json:"content" db:"content"`
	Status         string    `json:"status" db:"status"`
	ParentID       *string   `json:"parentId" db:"parent_id"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// PostPage - страница постов вместе с данными пагинации
type PostPage struct {
	Items []Post `json:"items"`
	Total int    `json:"total"`
	Page  int    `json:"page"`
	Pages int    `json:"pages"`
}

type TopPost struct {
	PostID    string    `json:"postId" db:"post_id"`
	Title     string    `json:"title" db:"title"`
	Views     int       `json:"views" db:"views"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type AnalyticsSummary struct {
	PostsCount    int       `json:"postsCount"`
	CommentsCount int       `json:"commentsCount"`
	TotalViews    int       `json:"totalViews"`
	TopPosts      []TopPost `json:"topPosts"`
}
