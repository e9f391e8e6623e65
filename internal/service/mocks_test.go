package service

import (
	"context"
	"invoicer/internal/model"
	"invoicer/internal/pdf"
	"invoicer/internal/render"
	"invoicer/internal/repo"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// мок для repo.UserRepository
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	args := m.Called(ctx, login)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

// мок для repo.InvoiceRepository
type mockInvoiceRepo struct{ mock.Mock }

func (m *mockInvoiceRepo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Invoice, error) {
	args := m.Called(ctx, ownerID)
	if v, ok := args.Get(0).([]model.Invoice); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) GetByID(ctx context.Context, ownerID int64, id string) (*model.Invoice, error) {
	args := m.Called(ctx, ownerID, id)
	if v, ok := args.Get(0).(*model.Invoice); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInvoiceRepo) Create(ctx context.Context, inv *model.Invoice) error {
	return m.Called(ctx, inv).Error(0)
}

func (m *mockInvoiceRepo) Update(ctx context.Context, ownerID int64, id string, updates map[string]any) error {
	return m.Called(ctx, ownerID, id, updates).Error(0)
}

func (m *mockInvoiceRepo) Delete(ctx context.Context, ownerID int64, id string) (bool, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockInvoiceRepo) LatestNumberWithPrefix(ctx context.Context, prefix string) (string, error) {
	args := m.Called(ctx, prefix)
	return args.String(0), args.Error(1)
}

var _ repo.InvoiceRepository = (*mockInvoiceRepo)(nil)

type mockRenderer struct{ mock.Mock }

func (m *mockRenderer) Render(in render.Input) (string, error) {
	args := m.Called(in)
	return args.String(0), args.Error(1)
}

type mockExporter struct{ mock.Mock }

func (m *mockExporter) Buffer(ctx context.Context, html string) ([]byte, error) {
	args := m.Called(ctx, html)
	if b, ok := args.Get(0).([]byte); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExporter) Save(ctx context.Context, html, invoiceNumber string) (pdf.SavedFile, error) {
	args := m.Called(ctx, html, invoiceNumber)
	return args.Get(0).(pdf.SavedFile), args.Error(1)
}

var (
	_ Renderer = (*mockRenderer)(nil)
	_ Exporter = (*mockExporter)(nil)
)

// newTestDB поднимает отдельную in-memory SQLite со схемой для интеграционных тестов сервиса
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.InitDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
