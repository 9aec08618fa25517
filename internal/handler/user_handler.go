package handlers

import (
	"encoding/json"
	"net/http"

	"modernblog/internal/repository"
)

func (h *Handlers) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"user": user}, http.StatusOK)
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	var req repository.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"user": user}, http.StatusOK)
}
