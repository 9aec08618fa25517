package test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"modernblog/internal/models"
	"modernblog/internal/repository"
	"modernblog/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) GenerateToken(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ParseToken(tokenString string) (string, error) {
	args := m.Called(tokenString)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, userID string, req repository.UpdateProfileRequest) (*models.User, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) CreatePost(ctx context.Context, req service.CreatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) ListPosts(ctx context.Context, filter service.ListPostsFilter) (*models.PostPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}

func (m *MockPostService) GetMyPosts(ctx context.Context, authorID string, page, limit int) (*models.PostPage, error) {
	args := m.Called(ctx, authorID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostPage), args.Error(1)
}

func (m *MockPostService) GetPost(ctx context.Context, postID string) (*models.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) UpdatePost(ctx context.Context, req service.UpdatePostRequest) (*models.Post, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostService) DeletePost(ctx context.Context, postID, requesterID string) error {
	args := m.Called(ctx, postID, requesterID)
	return args.Error(0)
}

func (m *MockPostService) ToggleLike(ctx context.Context, postID, userID string) (int, bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockPostService) ToggleBookmark(ctx context.Context, userID, postID string) ([]string, bool, error) {
	args := m.Called(ctx, userID, postID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]string), args.Bool(1), args.Error(2)
}

type MockCategoryService struct {
	mock.Mock
}

func (m *MockCategoryService) List(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockCategoryService) Create(ctx context.Context, req service.CreateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Update(ctx context.Context, categoryID string, req service.UpdateCategoryRequest) (*models.Category, error) {
	args := m.Called(ctx, categoryID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryService) Delete(ctx context.Context, categoryID string) error {
	args := m.Called(ctx, categoryID)
	return args.Error(0)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) ListForPost(ctx context.Context, postID string) ([]models.Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentService) Create(ctx context.Context, req service.CreateCommentRequest) (*models.Comment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, commentID, requesterID, requesterRole string) error {
	args := m.Called(ctx, commentID, requesterID, requesterRole)
	return args.Error(0)
}

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) Summary(ctx context.Context, requesterID, requesterRole string) (*models.AnalyticsSummary, error) {
	args := m.Called(ctx, requesterID, requesterRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnalyticsSummary), args.Error(1)
}
