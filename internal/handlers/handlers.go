package handlers

import (
	"invoicer/internal/config"
	"invoicer/internal/metrics"
	"invoicer/internal/middleware"
	"invoicer/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Version отдаётся на GET /.
const Version = "1.0.0"

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	invoiceService *service.InvoiceService,
	documentService *service.DocumentService,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithMetrics(m))
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	infoHandler := NewInfoHandler()
	userHandler := NewUserHandler(userService, logger, config)
	invoiceHandler := NewInvoiceHandler(invoiceService, documentService, logger)

	// Service routes
	r.Get("/", infoHandler.Root)
	r.Get("/health", infoHandler.Health)
	r.Handle("/metrics", m.Handler())

	// Auth routes
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.With(middleware.RequireAuth).Get("/api/auth/me", userHandler.Me)

	// Invoice routes
	r.Route("/api/invoices", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", invoiceHandler.List)
		r.Post("/", invoiceHandler.Create)
		r.Get("/{id}", invoiceHandler.Get)
		r.Put("/{id}", invoiceHandler.Update)
		r.Delete("/{id}", invoiceHandler.Delete)
		r.Get("/{id}/preview", invoiceHandler.Preview)
		r.Get("/{id}/pdf", invoiceHandler.PDF)
	})

	return &Handler{Router: r}
}
