package handlers

import (
	"net/http"
	"time"
)

// InfoHandler - служебные маршруты без авторизации.
type InfoHandler struct {
	now func() time.Time
}

func NewInfoHandler() *InfoHandler {
	return &InfoHandler{now: time.Now}
}

// Root описывает API.
func (h *InfoHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Invoice Generator Backend API",
		"version": Version,
	})
}

// Health - проверка живости.
func (h *InfoHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Invoice Generator API is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}
