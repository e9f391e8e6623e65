package pdf

import (
	"context"
	"fmt"
	"invoicer/internal/apperr"
	"invoicer/internal/metrics"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	modeBuffer = "buffer"
	modeSave   = "save"
)

// SavedFile describes a PDF written to the output directory.
type SavedFile struct {
	Path     string
	Filename string
}

// Exporter drives an Engine and owns the output directory.
type Exporter struct {
	engine    Engine
	outputDir string
	timeout   time.Duration
	logger    *zap.SugaredLogger
	metrics   *metrics.Metrics
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithTimeout bounds a single export; zero leaves it to the caller's context.
func WithTimeout(d time.Duration) Option {
	return func(e *Exporter) { e.timeout = d }
}

// WithMetrics records export counts and durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Exporter) { e.metrics = m }
}

// NewExporter creates an Exporter writing files into outputDir.
func NewExporter(engine Engine, outputDir string, logger *zap.SugaredLogger, opts ...Option) *Exporter {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	e := &Exporter{engine: engine, outputDir: outputDir, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Buffer prints html and returns the PDF bytes.
func (e *Exporter) Buffer(ctx context.Context, html string) ([]byte, error) {
	start := time.Now()
	data, err := e.print(ctx, html)
	e.metrics.ObserveExport(modeBuffer, err, time.Since(start))
	if err != nil {
		e.logger.Errorw("pdf export failed", "mode", modeBuffer, "error", err)
		return nil, err
	}
	return data, nil
}

// Save prints html into {outputDir}/{invoiceNumber}.pdf, replacing any
// previous file of the same name.
func (e *Exporter) Save(ctx context.Context, html, invoiceNumber string) (SavedFile, error) {
	start := time.Now()
	saved, err := e.save(ctx, html, invoiceNumber)
	e.metrics.ObserveExport(modeSave, err, time.Since(start))
	if err != nil {
		e.logger.Errorw("pdf export failed", "mode", modeSave, "invoice_number", invoiceNumber, "error", err)
		return SavedFile{}, err
	}
	e.logger.Infow("pdf saved", "path", saved.Path)
	return saved, nil
}

func (e *Exporter) save(ctx context.Context, html, invoiceNumber string) (SavedFile, error) {
	path, err := e.target(invoiceNumber)
	if err != nil {
		return SavedFile{}, err
	}
	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		return SavedFile{}, &apperr.RenderError{Op: "create output dir", Err: err}
	}
	data, err := e.print(ctx, html)
	if err != nil {
		return SavedFile{}, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return SavedFile{}, &apperr.RenderError{Op: "write pdf", Err: err}
	}
	return SavedFile{Path: path, Filename: filepath.Base(path)}, nil
}

// target builds the file path and refuses names that leave outputDir.
func (e *Exporter) target(invoiceNumber string) (string, error) {
	name := FileName(invoiceNumber)
	if invoiceNumber == "" || strings.ContainsAny(invoiceNumber, `/\`) || invoiceNumber == "." || invoiceNumber == ".." {
		return "", &apperr.RenderError{Op: "pdf filename", Err: fmt.Errorf("unsafe invoice number %q", invoiceNumber)}
	}
	path := filepath.Join(e.outputDir, name)
	rel, err := filepath.Rel(e.outputDir, path)
	if err != nil || rel != name {
		return "", &apperr.RenderError{Op: "pdf filename", Err: fmt.Errorf("unsafe invoice number %q", invoiceNumber)}
	}
	return path, nil
}

func (e *Exporter) print(ctx context.Context, html string) ([]byte, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}
	data, err := e.engine.PrintPDF(ctx, html)
	if err != nil {
		return nil, &apperr.RenderError{Op: "print pdf", Err: err}
	}
	return data, nil
}

// FileName is the download and on-disk name of an invoice PDF.
func FileName(invoiceNumber string) string {
	return invoiceNumber + ".pdf"
}
