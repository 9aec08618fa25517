package middleware

import (
	"context"
	"log"
	"net/http"

	handlers "modernblog/internal/handler"
	"modernblog/internal/models"
	"modernblog/internal/service"
)

type Middleware func(http.Handler) http.Handler

// AuthMiddleware проверяет сессионную cookie и кладёт личность запроса в
// контекст. Цепочка: cookie есть -> токен валиден -> пользователь существует.
// Любой сбой - 401, обработчик ниже по цепочке не вызывается.
func AuthMiddleware(authService service.AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(handlers.SessionCookieName)
			if err != nil || cookie.Value == "" {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			// пользователь перечитывается из БД на каждом запросе:
			// удалённый или понижённый аккаунт отражается сразу
			user, err := authService.ResolveUser(r.Context(), cookie.Value)
			if err != nil {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			ctx = context.WithValue(ctx, "userID", user.UserID)
			ctx = context.WithValue(ctx, "role", user.Role)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole компонуется после AuthMiddleware в любом порядке объявления
// маршрута: без личности в контексте - 401, с чужой ролью - 403.
func RequireRole(allowedRoles ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value("role").(string)
			if !ok {
				handlers.WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
				return
			}

			allowed := false
			for _, role := range allowedRoles {
				if userRole == role {
					allowed = true
					break
				}
			}

			if !allowed {
				handlers.WriteError(w, "Доступ запрещен", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly - частый случай RequireRole для мутаций справочника категорий
func AdminOnly(next http.Handler) http.Handler {
	return RequireRole(models.RoleAdmin)(next)
}

func CORSMiddleware(allowedOrigin string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == allowedOrigin {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("Method: %s, URL: %s", r.Method, r.RequestURI)
		next.ServeHTTP(w, r)
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
