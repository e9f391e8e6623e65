package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"invoicer/internal/config"
	"invoicer/internal/handlers"
	"invoicer/internal/metrics"
	"invoicer/internal/pdf"
	"invoicer/internal/render"
	"invoicer/internal/repo"
	"invoicer/internal/service"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeEngine подменяет Chrome: возвращает заранее заданные байты.
type fakeEngine struct {
	out []byte
	err error
}

func (f *fakeEngine) PrintPDF(ctx context.Context, html string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.out, nil
}

type testEnv struct {
	router http.Handler
	cfg    *config.Config
	engine *fakeEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repo.InitDB("file:"+uuid.NewString()+"?mode=memory&cache=shared", 4)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{AuthSecret: "test-secret", TokenTTL: time.Hour, PDFOutputDir: t.TempDir()}
	logger := zap.NewNop().Sugar()
	engine := &fakeEngine{out: []byte("%PDF-1.4 test")}
	m := metrics.New()

	userSvc := service.NewUserService(repo.NewUserRepository(db))
	invoiceSvc := service.NewInvoiceService(repo.NewInvoiceRepository(db), logger, service.WithMetrics(m))
	exporter := pdf.NewExporter(engine, cfg.PDFOutputDir, logger, pdf.WithMetrics(m))
	bank := render.BankInfo{Name: "Bank Name", Account: "1234567890", AccountName: "Your Name"}
	docSvc := service.NewDocumentService(invoiceSvc, render.NewDirRenderer(""), exporter, bank, logger)

	h := handlers.NewHandler(userSvc, invoiceSvc, docSvc, m, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, engine: engine}
}

// do выполняет запрос через роутер; token может быть пустым.
func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

// register создаёт пользователя через API и возвращает его токен.
func (e *testEnv) register(t *testing.T, username string) string {
	t.Helper()
	rr := e.do(t, http.MethodPost, "/api/auth/register", "",
		`{"username":"`+username+`","email":"`+username+`@example.com","password":"secret"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.Token)
	return resp.Data.Token
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}
