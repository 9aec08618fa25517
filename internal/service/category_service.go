package service

import (
	"context"
	"fmt"
	"modernblog/internal/models"
	"modernblog/internal/repository"
	"strings"
)

type CreateCategoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// UpdateCategoryRequest - частичное обновление, nil-поля не трогаются
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

type CategoryService interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, categoryID string, req UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *categoryService) Create(ctx context.Context, req CreateCategoryRequest) (*models.Category, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		return nil, fmt.Errorf("name и slug обязательны: %w", models.ErrValidation)
	}

	category := &models.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Update(ctx context.Context, categoryID string, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Slug != nil {
		category.Slug = *req.Slug
	}
	if req.Description != nil {
		category.Description = *req.Description
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, categoryID string) error {
	return s.categoryRepo.Delete(ctx, categoryID)
}
