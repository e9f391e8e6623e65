package handlers_test

import (
	"encoding/json"
	"errors"
	"invoicer/internal/middleware"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invoiceDTO struct {
	ID            string           `json:"id"`
	InvoiceNumber string           `json:"invoice_number"`
	ClientName    string           `json:"client_name"`
	Subtitle      string           `json:"subtitle"`
	Items         []map[string]any `json:"items"`
	TotalAmount   float64          `json:"total_amount"`
	OwnerID       int64            `json:"owner_id"`
}

const exampleInvoice = `{
	"client_name": "PT Maju",
	"subtitle": "Website",
	"items": [
		{"feature_title": "Design", "price": 100000},
		{"feature_title": "Logo", "is_free": true, "price": 50000}
	]
}`

func createInvoice(t *testing.T, env *testEnv, token, body string) invoiceDTO {
	t.Helper()
	rr := env.do(t, http.MethodPost, "/api/invoices", token, body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var inv invoiceDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &inv))
	return inv
}

func TestInvoices_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/api/invoices", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = env.do(t, http.MethodGet, "/api/invoices", "garbage", "")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	other, _ := middleware.BuildToken(1, "another-secret", time.Hour)
	rr = env.do(t, http.MethodGet, "/api/invoices", other, "")
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestInvoices_CRUD(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "owner")

	inv := createInvoice(t, env, token, exampleInvoice)
	assert.Regexp(t, `^INV-\d{4}-\d{2}-0001$`, inv.InvoiceNumber)
	assert.Equal(t, float64(100000), inv.TotalAmount)
	require.Len(t, inv.Items, 2)
	assert.Equal(t, float64(0), inv.Items[1]["price"])
	assert.Equal(t, true, inv.Items[1]["is_free"])

	// get
	rr := env.do(t, http.MethodGet, "/api/invoices/"+inv.ID, token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got invoiceDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(t, "PT Maju", got.ClientName)

	// list
	second := createInvoice(t, env, token, exampleInvoice)
	assert.Regexp(t, `-0002$`, second.InvoiceNumber)
	rr = env.do(t, http.MethodGet, "/api/invoices", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var list []invoiceDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &list))
	assert.Len(t, list, 2)

	// partial update
	rr = env.do(t, http.MethodPut, "/api/invoices/"+inv.ID, token, `{"subtitle":"v2"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated invoiceDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &updated))
	assert.Equal(t, "v2", updated.Subtitle)
	assert.Equal(t, "PT Maju", updated.ClientName)
	assert.Equal(t, float64(100000), updated.TotalAmount)
	assert.Len(t, updated.Items, 2)

	// nothing to update
	rr = env.do(t, http.MethodPut, "/api/invoices/"+inv.ID, token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, decodeEnvelope(t, rr).Message, "nothing to update")

	// delete
	rr = env.do(t, http.MethodDelete, "/api/invoices/"+inv.ID, token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	rr = env.do(t, http.MethodDelete, "/api/invoices/"+inv.ID, token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = env.do(t, http.MethodGet, "/api/invoices/"+inv.ID, token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestInvoices_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "empty")

	rr := env.do(t, http.MethodGet, "/api/invoices", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rr).Data))
}

func TestInvoices_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "v")

	cases := map[string]string{
		"missing client": `{"items":[{"feature_title":"A","price":1}]}`,
		"blank client":   `{"client_name":"  ","items":[{"feature_title":"A","price":1}]}`,
		"missing items":  `{"client_name":"A"}`,
		"empty items":    `{"client_name":"A","items":[]}`,
		"bad date":       `{"client_name":"A","items":[{"price":1}],"invoice_date":"tomorrow"}`,
		"invalid json":   `{"client_name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/api/invoices", token, body)
			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
			assert.False(t, decodeEnvelope(t, rr).Success)
		})
	}
}

func TestInvoices_DuplicateNumberConflict(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "dup")

	body := `{"client_name":"A","invoice_number":"CUSTOM-7","items":[{"price":1}]}`
	createInvoice(t, env, token, body)

	rr := env.do(t, http.MethodPost, "/api/invoices", token, body)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestInvoices_OwnerIsolation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")

	inv := createInvoice(t, env, alice, exampleInvoice)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/invoices/" + inv.ID, ""},
		{http.MethodPut, "/api/invoices/" + inv.ID, `{"subtitle":"pwned"}`},
		{http.MethodDelete, "/api/invoices/" + inv.ID, ""},
		{http.MethodGet, "/api/invoices/" + inv.ID + "/preview", ""},
		{http.MethodGet, "/api/invoices/" + inv.ID + "/pdf", ""},
	} {
		rr := env.do(t, tc.method, tc.path, mallory, tc.body)
		assert.Equal(t, http.StatusNotFound, rr.Code, "%s %s", tc.method, tc.path)
	}

	rr := env.do(t, http.MethodGet, "/api/invoices", mallory, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rr).Data))

	// счёт владельца не изменился
	rr = env.do(t, http.MethodGet, "/api/invoices/"+inv.ID, alice, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var got invoiceDTO
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &got))
	assert.Equal(t, "Website", got.Subtitle)
}

func TestInvoices_Preview(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "p")
	inv := createInvoice(t, env, token, exampleInvoice)

	rr := env.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/preview", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Header().Get("Content-Type"), "text/html"))
	body := rr.Body.String()
	assert.Contains(t, body, inv.InvoiceNumber)
	assert.Contains(t, body, "PT Maju")
	assert.Contains(t, body, "Rp\u00a0100.000")
	assert.Contains(t, body, "GRATIS")
	assert.Contains(t, body, "1234567890")
}

func TestInvoices_PDF(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "pdf")
	inv := createInvoice(t, env, token, exampleInvoice)

	rr := env.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="`+inv.InvoiceNumber+`.pdf"`, rr.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4 test", rr.Body.String())
}

func TestInvoices_PDFSave(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "save")
	inv := createInvoice(t, env, token, exampleInvoice)

	rr := env.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf?save=true", token, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var saved struct {
		Path     string `json:"path"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &saved))
	assert.Equal(t, inv.InvoiceNumber+".pdf", saved.Filename)

	b, err := os.ReadFile(filepath.Join(env.cfg.PDFOutputDir, saved.Filename))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(b))
}

func TestInvoices_PDFEngineFailure(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "fail")
	inv := createInvoice(t, env, token, exampleInvoice)
	env.engine.err = errors.New("chrome not found")

	rr := env.do(t, http.MethodGet, "/api/invoices/"+inv.ID+"/pdf", token, "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decodeEnvelope(t, rr)
	assert.False(t, resp.Success)
	assert.Equal(t, "Error generating PDF", resp.Message)
	assert.Contains(t, resp.Error, "chrome not found")
}
