package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"modernblog/internal/models"
	"modernblog/internal/repository"
	"modernblog/internal/storage"
	"strings"
	"time"

	"github.com/lib/pq"
)

// CoverUpload - файл обложки из multipart-формы. В пост попадает только URL,
// выданный хранилищем объектов.
type CoverUpload struct {
	FileName string
	File     io.Reader
	Size     int64
}

type CreatePostRequest struct {
	AuthorID    string
	Title       string
	Content     string
	Status      string
	CategoryIDs []string
	Tags        []string
	Cover       *CoverUpload
}

// UpdatePostRequest - частичное обновление: nil-поля не трогаются.
type UpdatePostRequest struct {
	PostID      string
	RequesterID string
	Title       *string
	Content     *string
	Status      *string
	CategoryIDs []string
	Tags        *[]string
	Cover       *CoverUpload
}

// ListPostsFilter - фильтры публичной выдачи до разрешения slug категории.
type ListPostsFilter struct {
	Search       string
	CategorySlug string
	Tag          string
	AuthorID     string
	Status       string
	Page         int
	Limit        int
}

type PostService interface {
	CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error)
	ListPosts(ctx context.Context, filter ListPostsFilter) (*models.PostPage, error)
	GetMyPosts(ctx context.Context, authorID string, page, limit int) (*models.PostPage, error)
	GetPost(ctx context.Context, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, postID, requesterID string) error
	ToggleLike(ctx context.Context, postID, userID string) (int, bool, error)
	ToggleBookmark(ctx context.Context, userID, postID string) ([]string, bool, error)
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	storage      storage.Storage
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository, storage storage.Storage) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		storage:      storage,
	}
}

func validStatus(status string) bool {
	return status == models.StatusDraft || status == models.StatusPublished
}

func (p *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*models.Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, fmt.Errorf("заголовок и текст поста обязательны: %w", models.ErrValidation)
	}
	if len([]rune(title)) > 200 {
		return nil, fmt.Errorf("заголовок длиннее 200 символов: %w", models.ErrValidation)
	}

	status := req.Status
	if status == "" {
		status = models.StatusPublished
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("недопустимый статус %q: %w", status, models.ErrValidation)
	}

	// несуществующие id категорий молча отбрасываются
	categoryIDs, err := p.categoryRepo.ResolveIDs(ctx, req.CategoryIDs)
	if err != nil {
		return nil, err
	}

	coverURL := ""
	if req.Cover != nil {
		_, coverURL, err = p.storage.UploadCover(ctx, req.Cover.FileName, req.Cover.File, req.Cover.Size)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки обложки: %w", err)
		}
	}

	post := &models.Post{
		AuthorID:      req.AuthorID,
		Title:         title,
		Content:       req.Content,
		Status:        status,
		Tags:          pq.StringArray(req.Tags),
		CoverImageURL: coverURL,
	}
	if status == models.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := p.postRepo.Create(ctx, post, categoryIDs); err != nil {
		return nil, err
	}

	return p.postRepo.GetByID(ctx, post.PostID)
}

func (p *postService) ListPosts(ctx context.Context, filter ListPostsFilter) (*models.PostPage, error) {
	// публичная выдача без явного статуса никогда не показывает черновики
	status := filter.Status
	if status == "" {
		status = models.StatusPublished
	}

	repoFilter := repository.PostFilter{
		Search:   filter.Search,
		Tag:      filter.Tag,
		AuthorID: filter.AuthorID,
		Status:   status,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}

	if filter.CategorySlug != "" {
		category, err := p.categoryRepo.GetBySlug(ctx, filter.CategorySlug)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// несуществующий slug - пустая выдача, а не ошибка
				return &models.PostPage{Items: []models.Post{}, Total: 0, Page: 1, Pages: 0}, nil
			}
			return nil, err
		}
		repoFilter.CategoryID = category.CategoryID
	}

	return p.postRepo.List(ctx, repoFilter)
}

// GetMyPosts не фильтрует по статусу: автор видит свои черновики.
func (p *postService) GetMyPosts(ctx context.Context, authorID string, page, limit int) (*models.PostPage, error) {
	return p.postRepo.List(ctx, repository.PostFilter{
		AuthorID: authorID,
		Page:     page,
		Limit:    limit,
	})
}

func (p *postService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	if err := p.postRepo.RegisterView(ctx, postID); err != nil {
		return nil, err
	}

	return p.postRepo.GetByID(ctx, postID)
}

func (p *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != req.RequesterID {
		return nil, fmt.Errorf("изменять пост может только его автор: %w", models.ErrForbidden)
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("заголовок не может быть пустым: %w", models.ErrValidation)
		}
		if len([]rune(title)) > 200 {
			return nil, fmt.Errorf("заголовок длиннее 200 символов: %w", models.ErrValidation)
		}
		post.Title = title
	}

	if req.Content != nil {
		post.Content = *req.Content
	}

	if req.Status != nil {
		if !validStatus(*req.Status) {
			return nil, fmt.Errorf("недопустимый статус %q: %w", *req.Status, models.ErrValidation)
		}
		post.Status = *req.Status
		// при уходе из published дата публикации сбрасывается; при
		// повторной публикации исходная дата сохраняется
		if post.Status == models.StatusPublished {
			if post.PublishedAt == nil {
				now := time.Now()
				post.PublishedAt = &now
			}
		} else {
			post.PublishedAt = nil
		}
	}

	if req.Tags != nil {
		post.Tags = pq.StringArray(*req.Tags)
	}

	var categoryIDs []string
	if req.CategoryIDs != nil {
		categoryIDs, err = p.categoryRepo.ResolveIDs(ctx, req.CategoryIDs)
		if err != nil {
			return nil, err
		}
	}

	if req.Cover != nil {
		_, coverURL, err := p.storage.UploadCover(ctx, req.Cover.FileName, req.Cover.File, req.Cover.Size)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки обложки: %w", err)
		}
		post.CoverImageURL = coverURL
	}

	if err := p.postRepo.Update(ctx, post, categoryIDs); err != nil {
		return nil, err
	}

	return p.postRepo.GetByID(ctx, post.PostID)
}

func (p *postService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.AuthorID != requesterID {
		return fmt.Errorf("удалять пост может только его автор: %w", models.ErrForbidden)
	}

	return p.postRepo.Delete(ctx, postID)
}

func (p *postService) ToggleLike(ctx context.Context, postID, userID string) (int, bool, error) {
	return p.postRepo.ToggleLike(ctx, postID, userID)
}

// ToggleBookmark живёт на стороне пользователя: закладки хранятся в
// сущности User, а не в посте.
func (p *postService) ToggleBookmark(ctx context.Context, userID, postID string) ([]string, bool, error) {
	return p.userRepo.ToggleBookmark(ctx, userID, postID)
}
