package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
	"unicode/utf8"

	"modernblog/internal/repository"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// attachSessionCookie выставляет HTTP-only cookie c токеном. В production
// cookie уходит с secure и SameSite=None (фронтенд на другом домене),
// локально - обычный Lax без secure. Это намеренная политика окружения.
func (h *Handlers) attachSessionCookie(w http.ResponseWriter, token string) {
	isProd := h.Cfg.IsProduction()
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.Cfg.TokenDuration.Seconds()),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: sameSite,
	})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	isProd := h.Cfg.IsProduction()
	sameSite := http.SameSiteLaxMode
	if isProd {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isProd,
		SameSite: sameSite,
	})
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	// email verification
	patternEmail := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, err := regexp.MatchString(patternEmail, req.Email)
	if err != nil || !matched {
		WriteError(w, "Неверный формат email", http.StatusBadRequest)
		return
	}

	// password verification
	if utf8.RuneCountInString(req.Password) < 6 {
		WriteError(w, "Пароль должен быть не менее 6 символов", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	serviceReq := repository.CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	user, err := h.AuthService.Register(r.Context(), serviceReq)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := h.AuthService.GenerateToken(user.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	h.attachSessionCookie(w, token)
	WriteSuccess(w, map[string]interface{}{"user": user}, http.StatusCreated)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	user, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	token, err := h.AuthService.GenerateToken(user.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	h.attachSessionCookie(w, token)
	WriteSuccess(w, map[string]interface{}{"user": user}, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	WriteSuccess(w, MessageResponse{Message: "Выход выполнен"}, http.StatusOK)
}
