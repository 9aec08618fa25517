package service

import (
	"context"
	"errors"
	"fmt"
	"modernblog/internal/config"
	"modernblog/internal/models"
	"modernblog/internal/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type AuthService interface {
	Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	GenerateToken(userID string) (string, error)
	ParseToken(tokenString string) (string, error)
	ResolveUser(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

func (s *authService) Register(ctx context.Context, req repository.CreateUserRequest) (*models.User, error) {
	existingUser, err := s.userRepo.GetUserByEmailOrUsername(ctx, req.Email, req.Username)
	if err == nil && existingUser != nil {
		return nil, fmt.Errorf("пользователь с таким email или username уже существует: %w", models.ErrConflict)
	}
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
	}

	err = s.userRepo.CreateUser(ctx, user, req.Password)
	if err != nil {
		return nil, fmt.Errorf("ошибка при создании пользователя: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.userRepo.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GenerateToken подписывает сессионный токен. В claims кладётся только
// userId: остальные данные перечитываются из БД на каждом запросе.
func (s *authService) GenerateToken(userID string) (string, error) {
	if s.cfg.JWTSecretKey == "" {
		return "", fmt.Errorf("JWT_SECRET_KEY не установлен")
	}

	claims := jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(s.cfg.TokenDuration).Unix(),
		"iat":    time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.cfg.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("ошибка подписи токена: %w", err)
	}

	return tokenString, nil
}

func (s *authService) ParseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("неожиданный метод подписи: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JWTSecretKey), nil
	})

	if err != nil {
		return "", fmt.Errorf("недействительный токен: %w", models.ErrUnauthorized)
	}

	if !token.Valid {
		return "", fmt.Errorf("недействительный токен: %w", models.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("неверный формат claims: %w", models.ErrUnauthorized)
	}

	userID, ok := claims["userId"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("неверные данные в токене: %w", models.ErrUnauthorized)
	}

	return userID, nil
}

// ResolveUser заново читает пользователя из хранилища на каждый запрос,
// поэтому удалённый или понижённый в роли пользователь отражается сразу.
func (s *authService) ResolveUser(ctx context.Context, tokenString string) (*models.User, error) {
	userID, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("пользователь не найден: %w", models.ErrUnauthorized)
		}
		return nil, err
	}

	return user, nil
}
