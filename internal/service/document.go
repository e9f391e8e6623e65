package service

import (
	"context"
	"invoicer/internal/model"
	"invoicer/internal/pdf"
	"invoicer/internal/render"

	"go.uber.org/zap"
)

// InvoiceGetter - источник счёта с учётом владельца.
type InvoiceGetter interface {
	Get(ctx context.Context, ownerID int64, id string) (*model.Invoice, error)
}

// Renderer превращает счёт в HTML.
type Renderer interface {
	Render(in render.Input) (string, error)
}

// Exporter печатает HTML в PDF.
type Exporter interface {
	Buffer(ctx context.Context, html string) ([]byte, error)
	Save(ctx context.Context, html, invoiceNumber string) (pdf.SavedFile, error)
}

// DocumentService собирает превью и PDF счёта.
type DocumentService struct {
	invoices InvoiceGetter
	renderer Renderer
	exporter Exporter
	bank     render.BankInfo
	logger   *zap.SugaredLogger
}

func NewDocumentService(invoices InvoiceGetter, renderer Renderer, exporter Exporter, bank render.BankInfo, logger *zap.SugaredLogger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DocumentService{invoices: invoices, renderer: renderer, exporter: exporter, bank: bank, logger: logger}
}

// Preview возвращает HTML-документ счёта.
func (s *DocumentService) Preview(ctx context.Context, ownerID int64, id string) (string, error) {
	_, html, err := s.render(ctx, ownerID, id)
	return html, err
}

// PDF возвращает документ в памяти вместе с именем файла для скачивания.
func (s *DocumentService) PDF(ctx context.Context, ownerID int64, id string) ([]byte, string, error) {
	inv, html, err := s.render(ctx, ownerID, id)
	if err != nil {
		return nil, "", err
	}
	data, err := s.exporter.Buffer(ctx, html)
	if err != nil {
		return nil, "", err
	}
	return data, pdf.FileName(inv.InvoiceNumber), nil
}

// SavePDF сохраняет документ в каталог выгрузки, перезаписывая прежний файл.
func (s *DocumentService) SavePDF(ctx context.Context, ownerID int64, id string) (pdf.SavedFile, error) {
	inv, html, err := s.render(ctx, ownerID, id)
	if err != nil {
		return pdf.SavedFile{}, err
	}
	return s.exporter.Save(ctx, html, inv.InvoiceNumber)
}

func (s *DocumentService) render(ctx context.Context, ownerID int64, id string) (*model.Invoice, string, error) {
	inv, err := s.invoices.Get(ctx, ownerID, id)
	if err != nil {
		return nil, "", err
	}
	html, err := s.renderer.Render(render.Input{Invoice: inv, Bank: s.bank})
	if err != nil {
		s.logger.Errorw("render invoice failed", "id", id, "error", err)
		return nil, "", err
	}
	return inv, html, nil
}
