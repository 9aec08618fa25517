package service

import (
	"context"
	"modernblog/internal/models"
	"modernblog/internal/repository"
)

type AnalyticsService interface {
	Summary(ctx context.Context, requesterID, requesterRole string) (*models.AnalyticsSummary, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo repository.AnalyticsRepository) AnalyticsService {
	return &analyticsService{analyticsRepo: analyticsRepo}
}

// Summary: админ видит сводку по всей платформе, автор - только по своей.
func (s *analyticsService) Summary(ctx context.Context, requesterID, requesterRole string) (*models.AnalyticsSummary, error) {
	authorID := requesterID
	if requesterRole == models.RoleAdmin {
		authorID = ""
	}

	return s.analyticsRepo.Summary(ctx, authorID)
}
