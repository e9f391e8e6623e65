package commands

import (
	"errors"
	"fmt"
	"invoicer/internal/cli/api"
	"invoicer/internal/cli/repo"
	fsrepo "invoicer/internal/cli/repo/fs"
	"invoicer/internal/config"
	"net/http"
	"strings"
)

// tokenStore returns the bearer token store configured for this client.
func tokenStore(cfg *config.Config) repo.TokenStore {
	return fsrepo.NewAuthFSStore(cfg.TokenFile)
}

// endpoint joins the server URL and an API path.
func endpoint(cfg *config.Config, path string) string {
	return strings.TrimRight(cfg.ServerURL, "/") + path
}

// requireToken loads the stored token or explains how to get one.
func requireToken(cfg *config.Config) (string, error) {
	tok, err := tokenStore(cfg).Load()
	if errors.Is(err, fsrepo.ErrNoToken) {
		return "", errors.New("not logged in, run: invctl login <username|email> <password>")
	}
	return tok, err
}

// responseError turns a non-2xx response into an error with the server's message.
func responseError(resp *http.Response, body []byte) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("session expired or invalid (%d), please login again", resp.StatusCode)
	case http.StatusNotFound:
		return fmt.Errorf("not found: %s", api.ErrorMessage(body))
	}
	return fmt.Errorf("server error %d: %s", resp.StatusCode, api.ErrorMessage(body))
}
