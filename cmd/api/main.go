package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"modernblog/cmd/app"
	"modernblog/internal/config"
	handlers "modernblog/internal/handler"
	"modernblog/internal/middleware"
	"modernblog/internal/models"
	"modernblog/internal/service"
)

func newRouter(handler *handlers.Handlers, auth service.AuthService) *mux.Router {
	requireAuth := middleware.AuthMiddleware(auth)
	authorOnly := middleware.RequireRole(models.RoleAuthor, models.RoleAdmin)

	router := mux.NewRouter()

	// setting up routes
	router.HandleFunc("/", handler.Home).Methods(http.MethodGet)
	router.HandleFunc("/health", handler.Health).Methods(http.MethodGet)

	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", handler.Logout).Methods(http.MethodPost)
	router.Handle("/api/auth/me",
		requireAuth(http.HandlerFunc(handler.GetCurrentUser))).Methods(http.MethodGet)
	router.Handle("/api/users/me",
		requireAuth(http.HandlerFunc(handler.UpdateProfile))).Methods(http.MethodPut)

	router.HandleFunc("/api/posts", handler.GetPosts).Methods(http.MethodGet)
	router.Handle("/api/posts/mine",
		requireAuth(http.HandlerFunc(handler.GetMyPosts))).Methods(http.MethodGet)
	router.HandleFunc("/api/posts/{id}", handler.GetPost).Methods(http.MethodGet)
	router.Handle("/api/posts",
		requireAuth(http.HandlerFunc(handler.CreatePost))).Methods(http.MethodPost)
	router.Handle("/api/posts/{id}",
		requireAuth(http.HandlerFunc(handler.UpdatePost))).Methods(http.MethodPut)
	router.Handle("/api/posts/{id}",
		requireAuth(http.HandlerFunc(handler.DeletePost))).Methods(http.MethodDelete)
	router.Handle("/api/posts/{id}/like",
		requireAuth(http.HandlerFunc(handler.ToggleLike))).Methods(http.MethodPost)
	router.Handle("/api/posts/{id}/bookmark",
		requireAuth(http.HandlerFunc(handler.ToggleBookmark))).Methods(http.MethodPost)

	router.HandleFunc("/api/categories", handler.GetCategories).Methods(http.MethodGet)
	router.Handle("/api/categories",
		middleware.Chain(http.HandlerFunc(handler.CreateCategory), middleware.AdminOnly, requireAuth)).Methods(http.MethodPost)
	router.Handle("/api/categories/{id}",
		middleware.Chain(http.HandlerFunc(handler.UpdateCategory), middleware.AdminOnly, requireAuth)).Methods(http.MethodPut)
	router.Handle("/api/categories/{id}",
		middleware.Chain(http.HandlerFunc(handler.DeleteCategory), middleware.AdminOnly, requireAuth)).Methods(http.MethodDelete)

	router.HandleFunc("/api/comments/post/{postId}", handler.GetComments).Methods(http.MethodGet)
	router.Handle("/api/comments/post/{postId}",
		requireAuth(http.HandlerFunc(handler.CreateComment))).Methods(http.MethodPost)
	router.Handle("/api/comments/{id}",
		requireAuth(http.HandlerFunc(handler.DeleteComment))).Methods(http.MethodDelete)

	router.Handle("/api/analytics/summary",
		middleware.Chain(http.HandlerFunc(handler.GetAnalyticsSummary), authorOnly, requireAuth)).Methods(http.MethodGet)

	return router
}

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, _, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(services, cfg)

	router := newRouter(handler, services.Auth)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware(cfg.AllowedOrigin),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
