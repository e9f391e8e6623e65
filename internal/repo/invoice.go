package repo

import (
	"context"
	"fmt"
	"invoicer/internal/model"

	"gorm.io/gorm"
)

// InvoiceRepository - доступ к счетам. Все методы, принимающие ownerID,
// фильтруют по паре (id, owner_id); чужой счёт неотличим от несуществующего.
type InvoiceRepository interface {
	// ListByOwner возвращает счета владельца, новые первыми.
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Invoice, error)

	// GetByID возвращает gorm.ErrRecordNotFound, если счёта нет у владельца.
	GetByID(ctx context.Context, ownerID int64, id string) (*model.Invoice, error)

	// Create вставляет счёт. Коллизия уникального номера - ErrDuplicate.
	Create(ctx context.Context, inv *model.Invoice) error

	// Update частично обновляет колонки. Если ни одна строка не затронута - gorm.ErrRecordNotFound,
	// коллизия номера - ErrDuplicate.
	Update(ctx context.Context, ownerID int64, id string, updates map[string]any) error

	// Delete сообщает, была ли удалена строка.
	Delete(ctx context.Context, ownerID int64, id string) (bool, error)

	// LatestNumberWithPrefix - лексикографически наибольший номер с префиксом, "" если нет.
	LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error)
}

type invoiceRepo struct {
	db *gorm.DB
}

// NewInvoiceRepository создаёт реализацию репозитория для Invoice.
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Invoice, error) {
	var list []model.Invoice
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, ownerID int64, id string) (*model.Invoice, error) {
	var inv model.Invoice
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Take(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	err := r.db.WithContext(ctx).Create(inv).Error
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func (r *invoiceRepo) Update(ctx context.Context, ownerID int64, id string, updates map[string]any) error {
	tx := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if isUniqueViolation(tx.Error) {
		return fmt.Errorf("%w: %v", ErrDuplicate, tx.Error)
	}
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, ownerID int64, id string) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.Invoice{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *invoiceRepo) LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&model.Invoice{}).
		Where("invoice_number LIKE ?", prefix+"%").
		Order("invoice_number DESC").
		Limit(1).
		Pluck("invoice_number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}
