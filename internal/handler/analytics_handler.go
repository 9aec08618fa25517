package handlers

import (
	"net/http"
)

func (h *Handlers) GetAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется авторизация", http.StatusUnauthorized)
		return
	}
	requesterRole, _ := r.Context().Value("role").(string)

	summary, err := h.AnalyticsService.Summary(r.Context(), requesterID, requesterRole)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, summary, http.StatusOK)
}
