package handlers

import (
	"encoding/json"
	"errors"
	"invoicer/internal/apperr"
	"invoicer/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// envelope - общий формат ответов API.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"success":false,"message":"encode error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeOK(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, envelope{Success: true, Message: message, Data: data})
}

// writeError переводит ошибку в HTTP-статус по её виду и пишет конверт с success=false.
// message - текст для клиента по умолчанию; для ошибок ввода клиент видит саму ошибку.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, message string, err error) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		message = err.Error()
	}
	if status >= http.StatusInternalServerError {
		logger.Errorw(message, "status", status, "error", err)
	} else {
		logger.Warnw(message, "status", status, "error", err)
	}
	writeJSON(w, status, envelope{Success: false, Message: message, Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
