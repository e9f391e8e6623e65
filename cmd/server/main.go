package main

import (
	"context"
	"errors"
	"invoicer/internal/config"
	"invoicer/internal/handlers"
	"invoicer/internal/metrics"
	"invoicer/internal/middleware"
	"invoicer/internal/pdf"
	"invoicer/internal/render"
	"invoicer/internal/repo"
	"invoicer/internal/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN, cfg.DBMaxConns)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	m := metrics.New()

	userRepo := repo.NewUserRepository(gormDB)
	invoiceRepo := repo.NewInvoiceRepository(gormDB)

	userService := service.NewUserService(userRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, sugar,
		service.WithMetrics(m),
		service.WithNumberRetries(cfg.NumberRetries),
	)

	exporter := pdf.NewExporter(pdf.NewChromeEngine(cfg.ChromePath), cfg.PDFOutputDir, sugar,
		pdf.WithTimeout(cfg.ExportTimeout),
		pdf.WithMetrics(m),
	)
	bank := render.BankInfo{Name: cfg.BankName, Account: cfg.BankAccount, AccountName: cfg.BankAccountName}
	documentService := service.NewDocumentService(invoiceService, render.NewDirRenderer(cfg.TemplateDir), exporter, bank, sugar)

	h := handlers.NewHandler(userService, invoiceService, documentService, m, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"DatabaseDSN", cfg.DatabaseDSN,
		"PDFOutputDir", cfg.PDFOutputDir,
		"TemplateDir", cfg.TemplateDir,
		"ExportTimeout", cfg.ExportTimeout,
		"NumberRetries", cfg.NumberRetries,
	)

	srv := &http.Server{Addr: addr, Handler: h.Router}
	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			sugar.Errorw("Server shutdown failed", "error", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Fatalw("Server failed", "error", err)
	}
}
