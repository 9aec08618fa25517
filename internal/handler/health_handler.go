package handlers

import (
	"net/http"
)

func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, MessageResponse{Message: "API платформы блогов работает"}, http.StatusOK)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]string{"status": "ok"}, http.StatusOK)
}
