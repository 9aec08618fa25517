package service

import (
	"context"
	"modernblog/internal/models"
	"modernblog/internal/repository"
)

type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.User, error) {
	return s.userRepo.UpdateProfile(ctx, userID, req)
}
