package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"modernblog/internal/service"
)

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.CategoryService.List(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, categories, http.StatusOK)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	category, err := h.CategoryService.Create(r.Context(), req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, category, http.StatusCreated)
}

func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	var req service.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	category, err := h.CategoryService.Update(r.Context(), categoryID, req)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, category, http.StatusOK)
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["id"]

	if err := h.CategoryService.Delete(r.Context(), categoryID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Категория удалена"}, http.StatusOK)
}
