package service

import (
	"modernblog/internal/config"
	"modernblog/internal/repository"
	"modernblog/internal/storage"
)

type Service struct {
	Auth      AuthService
	User      UserService
	Post      PostService
	Category  CategoryService
	Comment   CommentService
	Analytics AnalyticsService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth:      NewAuthService(rep.User, cfg),
		User:      NewUserService(rep.User),
		Post:      NewPostService(rep.Post, rep.Category, rep.User, storage),
		Category:  NewCategoryService(rep.Category),
		Comment:   NewCommentService(rep.Comment, rep.Post),
		Analytics: NewAnalyticsService(rep.Analytics),
	}
}
