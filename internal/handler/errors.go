package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"modernblog/internal/models"
)

// SessionCookieName - имя cookie с сессионным токеном
const SessionCookieName = "token"

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteServiceError сопоставляет ошибку сервиса со статус-кодом. Неожиданные
// ошибки логируются и уходят клиенту обезличенным 500.
func WriteServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrUnauthorized):
		WriteError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrConflict):
		WriteError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("внутренняя ошибка: %v", err)
		WriteError(w, "Внутренняя ошибка сервера", http.StatusInternalServerError)
	}
}
