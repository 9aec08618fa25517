package handlers

import (
	"github.com/go-playground/validator/v10"
	"modernblog/internal/config"
	"modernblog/internal/service"
)

type Handlers struct {
	AuthService      service.AuthService
	UserService      service.UserService
	PostService      service.PostService
	CategoryService  service.CategoryService
	CommentService   service.CommentService
	AnalyticsService service.AnalyticsService
	Cfg              *config.Config
	Validate         *validator.Validate
}

func NewHandlers(services *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService:      services.Auth,
		UserService:      services.User,
		PostService:      services.Post,
		CategoryService:  services.Category,
		CommentService:   services.Comment,
		AnalyticsService: services.Analytics,
		Cfg:              config,
		Validate:         validator.New(),
	}
}
