package repo

// TokenStore keeps the bearer token between invctl runs.
type TokenStore interface {
	// Save replaces the stored token.
	Save(token string) error
	// Load returns the stored token or an error if there is none.
	Load() (string, error)
	// Clear forgets the token; clearing an empty store is not an error.
	Clear() error
}
