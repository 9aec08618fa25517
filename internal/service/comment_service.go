package service

import (
	"context"
	"fmt"
	"modernblog/internal/models"
	"modernblog/internal/repository"
	"strings"
	"unicode/utf8"
)

type CreateCommentRequest struct {
	PostID   string
	AuthorID string
	Content  string
	ParentID *string
}

type CommentService interface {
	ListForPost(ctx context.Context, postID string) ([]models.Comment, error)
	Create(ctx context.Context, req CreateCommentRequest) (*models.Comment, error)
	Delete(ctx context.Context, commentID, requesterID, requesterRole string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

func (s *commentService) ListForPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.commentRepo.ListForPost(ctx, postID)
}

func (s *commentService) Create(ctx context.Context, req CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if utf8.RuneCountInString(content) < 2 {
		return nil, fmt.Errorf("комментарий слишком короткий: %w", models.ErrValidation)
	}
	if utf8.RuneCountInString(content) > 2000 {
		return nil, fmt.Errorf("комментарий длиннее 2000 символов: %w", models.ErrValidation)
	}

	if _, err := s.postRepo.GetByID(ctx, req.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
		Content:  content,
		// модерации нет: комментарий одобряется сразу при создании
		Status:   models.CommentApproved,
		ParentID: req.ParentID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.CommentID)
}

// Delete разрешён автору комментария и администратору.
func (s *commentService) Delete(ctx context.Context, commentID, requesterID, requesterRole string) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != requesterID && requesterRole != models.RoleAdmin {
		return fmt.Errorf("удалять комментарий может только его автор или админ: %w", models.ErrForbidden)
	}

	return s.commentRepo.Delete(ctx, commentID)
}
