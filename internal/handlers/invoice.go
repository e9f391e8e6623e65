package handlers

import (
	"encoding/json"
	"fmt"
	"invoicer/internal/middleware"
	"invoicer/internal/model"
	"invoicer/internal/service"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// InvoiceHandler - CRUD счетов, превью и выгрузка PDF.
type InvoiceHandler struct {
	Invoices  *service.InvoiceService
	Documents *service.DocumentService
	Logger    *zap.SugaredLogger
}

func NewInvoiceHandler(invoices *service.InvoiceService, documents *service.DocumentService, logger *zap.SugaredLogger) *InvoiceHandler {
	return &InvoiceHandler{Invoices: invoices, Documents: documents, Logger: logger}
}

// savedPDF - ответ на ?save=true.
type savedPDF struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
}

// List возвращает счета текущего пользователя.
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	list, err := h.Invoices.List(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "Error fetching invoices", err)
		return
	}
	if list == nil {
		list = []model.Invoice{}
	}
	writeOK(w, http.StatusOK, "", list)
}

// Get возвращает один счёт.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	inv, err := h.Invoices.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Error fetching invoice", err)
		return
	}
	writeOK(w, http.StatusOK, "", inv)
}

// Create создаёт счёт.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	inv, err := h.Invoices.Create(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.Logger, "Error creating invoice", err)
		return
	}
	writeOK(w, http.StatusCreated, "Invoice created successfully", inv)
}

// Update частично обновляет счёт.
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	inv, err := h.Invoices.Update(r.Context(), userID, chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, h.Logger, "Error updating invoice", err)
		return
	}
	writeOK(w, http.StatusOK, "Invoice updated successfully", inv)
}

// Delete удаляет счёт.
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	deleted, err := h.Invoices.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Error deleting invoice", err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, envelope{Message: "Invoice not found"})
		return
	}
	writeOK(w, http.StatusOK, "Invoice deleted successfully", nil)
}

// Preview отдаёт HTML-документ счёта.
func (h *InvoiceHandler) Preview(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	html, err := h.Documents.Preview(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, "Error generating preview", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

// PDF отдаёт документ как вложение или, с ?save=true, сохраняет его на сервере.
func (h *InvoiceHandler) PDF(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if r.URL.Query().Get("save") == "true" {
		saved, err := h.Documents.SavePDF(r.Context(), userID, id)
		if err != nil {
			writeError(w, h.Logger, "Error generating PDF", err)
			return
		}
		writeOK(w, http.StatusOK, "PDF generated and saved successfully", savedPDF{Path: saved.Path, Filename: saved.Filename})
		return
	}

	data, filename, err := h.Documents.PDF(r.Context(), userID, id)
	if err != nil {
		writeError(w, h.Logger, "Error generating PDF", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *InvoiceHandler) decode(w http.ResponseWriter, r *http.Request) (service.InvoiceInput, bool) {
	var in service.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.Logger.Warnw("invalid invoice body", "error", err)
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: err.Error()})
		return in, false
	}
	return in, true
}
