package service

import (
	"context"
	"errors"
	"fmt"
	"invoicer/internal/apperr"
	"invoicer/internal/items"
	"invoicer/internal/metrics"
	"invoicer/internal/model"
	"invoicer/internal/numbering"
	"invoicer/internal/repo"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// номер счёта становится именем PDF-файла, поэтому допускаем только безопасные символы
var invoiceNumberRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// форматы invoice_date, которые принимает API
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// InvoiceInput - поля запроса на создание/изменение. nil означает «поле не передано».
type InvoiceInput struct {
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *string          `json:"invoice_date"`
	ClientName    *string          `json:"client_name"`
	Subtitle      *string          `json:"subtitle"`
	Items         *[]items.Raw     `json:"items"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	FooterText    *string          `json:"footer_text"`
}

// InvoiceService - бизнес-правила счетов поверх репозитория.
type InvoiceService struct {
	repo    repo.InvoiceRepository
	alloc   *numbering.Allocator
	logger  *zap.SugaredLogger
	metrics *metrics.Metrics
	now     func() time.Time
	retries int
}

// InvoiceOption настраивает InvoiceService.
type InvoiceOption func(*InvoiceService)

// WithClock подменяет источник текущего времени (дата счёта и месяц нумерации).
func WithClock(now func() time.Time) InvoiceOption {
	return func(s *InvoiceService) { s.now = now }
}

// WithMetrics включает счётчик повторов нумерации.
func WithMetrics(m *metrics.Metrics) InvoiceOption {
	return func(s *InvoiceService) { s.metrics = m }
}

// WithNumberRetries задаёт число повторов при коллизии выделенного номера.
func WithNumberRetries(n int) InvoiceOption {
	return func(s *InvoiceService) {
		if n >= 0 {
			s.retries = n
		}
	}
}

func NewInvoiceService(r repo.InvoiceRepository, logger *zap.SugaredLogger, opts ...InvoiceOption) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	s := &InvoiceService{repo: r, logger: logger, now: time.Now, retries: 3}
	for _, opt := range opts {
		opt(s)
	}
	s.alloc = numbering.NewAllocator(r, s.now)
	return s
}

// List возвращает счета владельца, новые первыми.
func (s *InvoiceService) List(ctx context.Context, ownerID int64) ([]model.Invoice, error) {
	list, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Storage("list invoices", err)
	}
	return list, nil
}

// Get возвращает счёт владельца. Чужой счёт - apperr.ErrNotFound.
func (s *InvoiceService) Get(ctx context.Context, ownerID int64, id string) (*model.Invoice, error) {
	inv, err := s.repo.GetByID(ctx, ownerID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("invoice %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Storage("get invoice", err)
	}
	return inv, nil
}

// Create валидирует ввод, нормализует позиции, выделяет номер и сохраняет счёт.
func (s *InvoiceService) Create(ctx context.Context, ownerID int64, in InvoiceInput) (*model.Invoice, error) {
	client := trimmed(in.ClientName)
	if client == "" {
		return nil, apperr.NewValidationError("client_name", "is required")
	}
	if in.Items == nil {
		return nil, apperr.NewValidationError("items", "is required")
	}
	list, total, err := items.Normalize(*in.Items)
	if err != nil {
		return nil, err
	}
	encoded, err := model.EncodeItems(list)
	if err != nil {
		return nil, apperr.NewValidationError("items", err.Error())
	}

	number := trimmed(in.InvoiceNumber)
	if number != "" {
		if err := validateNumber(number); err != nil {
			return nil, err
		}
	}

	date := s.now()
	if v := trimmed(in.InvoiceDate); v != "" {
		if date, err = parseDate(v); err != nil {
			return nil, err
		}
	}

	// явная сумма всегда важнее вычисленной
	if in.TotalAmount != nil {
		total = *in.TotalAmount
	}

	inv := &model.Invoice{
		InvoiceNumber: number,
		InvoiceDate:   date,
		ClientName:    client,
		Subtitle:      deref(in.Subtitle),
		Items:         encoded,
		TotalAmount:   total,
		FooterText:    deref(in.FooterText),
		OwnerID:       ownerID,
	}
	if err := s.insert(ctx, inv, number == ""); err != nil {
		return nil, err
	}
	s.logger.Infow("invoice created", "id", inv.ID, "number", inv.InvoiceNumber, "owner_id", ownerID)

	return s.Get(ctx, ownerID, inv.ID)
}

// insert сохраняет счёт. Если номер выделяется автоматически, коллизия по
// уникальному индексу приводит к повторному выделению, не более s.retries раз.
func (s *InvoiceService) insert(ctx context.Context, inv *model.Invoice, allocate bool) error {
	for attempt := 0; ; attempt++ {
		if allocate {
			number, err := s.alloc.Next(ctx)
			if err != nil {
				return apperr.Storage("allocate invoice number", err)
			}
			inv.InvoiceNumber = number
		}
		inv.ID = uuid.NewString()

		err := s.repo.Create(ctx, inv)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repo.ErrDuplicate) {
			return apperr.Storage("create invoice", err)
		}
		if !allocate || attempt >= s.retries {
			return &apperr.ConflictError{Field: "invoice_number", Value: inv.InvoiceNumber, Err: err}
		}
		s.metrics.IncNumberRetry()
		s.logger.Warnw("invoice number collision, retrying", "number", inv.InvoiceNumber, "attempt", attempt+1)
	}
}

// Update применяет только переданные поля.
func (s *InvoiceService) Update(ctx context.Context, ownerID int64, id string, in InvoiceInput) (*model.Invoice, error) {
	updates := map[string]any{}

	if in.ClientName != nil {
		client := strings.TrimSpace(*in.ClientName)
		if client == "" {
			return nil, apperr.NewValidationError("client_name", "must not be empty")
		}
		updates["client_name"] = client
	}
	if in.Subtitle != nil {
		updates["subtitle"] = *in.Subtitle
	}
	if in.FooterText != nil {
		updates["footer_text"] = *in.FooterText
	}
	if in.InvoiceNumber != nil {
		number := strings.TrimSpace(*in.InvoiceNumber)
		if err := validateNumber(number); err != nil {
			return nil, err
		}
		updates["invoice_number"] = number
	}
	if in.InvoiceDate != nil {
		date, err := parseDate(strings.TrimSpace(*in.InvoiceDate))
		if err != nil {
			return nil, err
		}
		updates["invoice_date"] = date
	}
	if in.Items != nil {
		list, total, err := items.Normalize(*in.Items)
		if err != nil {
			return nil, err
		}
		encoded, err := model.EncodeItems(list)
		if err != nil {
			return nil, apperr.NewValidationError("items", err.Error())
		}
		updates["items"] = encoded
		updates["total_amount"] = total
	}
	if in.TotalAmount != nil {
		updates["total_amount"] = *in.TotalAmount
	}

	if len(updates) == 0 {
		return nil, apperr.NewValidationError("", "nothing to update")
	}

	err := s.repo.Update(ctx, ownerID, id, updates)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("invoice %s: %w", id, apperr.ErrNotFound)
	case errors.Is(err, repo.ErrDuplicate):
		return nil, &apperr.ConflictError{Field: "invoice_number", Value: fmt.Sprint(updates["invoice_number"]), Err: err}
	case err != nil:
		return nil, apperr.Storage("update invoice", err)
	}

	return s.Get(ctx, ownerID, id)
}

// Delete сообщает, был ли удалён счёт.
func (s *InvoiceService) Delete(ctx context.Context, ownerID int64, id string) (bool, error) {
	deleted, err := s.repo.Delete(ctx, ownerID, id)
	if err != nil {
		return false, apperr.Storage("delete invoice", err)
	}
	if deleted {
		s.logger.Infow("invoice deleted", "id", id, "owner_id", ownerID)
	}
	return deleted, nil
}

// validateNumber проверяет номер, заданный клиентом.
func validateNumber(number string) error {
	if !invoiceNumberRe.MatchString(number) {
		return apperr.NewValidationError("invoice_number", "may contain only letters, digits, '.', '_' and '-'")
	}
	// номера с префиксом INV- должны иметь формат автонумерации
	if numbering.Reserved(number) && !numbering.Pattern.MatchString(number) {
		return apperr.NewValidationError("invoice_number", "numbers starting with INV- must look like INV-YYYY-MM-NNNN")
	}
	return nil
}

func parseDate(v string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, apperr.NewValidationError("invoice_date", fmt.Sprintf("unrecognized date %q", v))
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
