package commands

import (
	"bytes"
	"encoding/json"
	"invoicer/internal/config"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

// newTestConfig points the client at ts and keeps the token file in a temp dir.
func newTestConfig(t *testing.T, ts *httptest.Server) *config.Config {
	t.Helper()
	url := ""
	if ts != nil {
		url = ts.URL
	}
	return &config.Config{ServerURL: url, TokenFile: filepath.Join(t.TempDir(), "token")}
}

// captureOut redirects Out into a buffer for the duration of the test.
func captureOut(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prev := Out
	Out = buf
	t.Cleanup(func() { Out = prev })
	return buf
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": success,
		"message": message,
		"data":    data,
	})
}
