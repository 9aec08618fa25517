package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"modernblog/internal/service"
)

type createCommentBody struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parentId"`
}

func (h *Handlers) GetComments(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["postId"]

	comments, err := h.CommentService.ListForPost(r.Context(), postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	authorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["postId"]

	var body createCommentBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	comment, err := h.CommentService.Create(r.Context(), service.CreateCommentRequest{
		PostID:   postID,
		AuthorID: authorID,
		Content:  body.Content,
		ParentID: body.ParentID,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, comment, http.StatusCreated)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}
	requesterRole, _ := r.Context().Value("role").(string)

	commentID := mux.Vars(r)["id"]

	if err := h.CommentService.Delete(r.Context(), commentID, requesterID, requesterRole); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Комментарий удален"}, http.StatusOK)
}
