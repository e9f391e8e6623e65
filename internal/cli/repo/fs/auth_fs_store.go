package fs

import (
	"errors"
	"invoicer/internal/cli/repo"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoToken - токен ещё не сохранён или файл пуст.
var ErrNoToken = errors.New("not logged in")

// AuthFSStore - файловое хранилище bearer-токена для CLI.
type AuthFSStore struct {
	Path string
}

var _ repo.TokenStore = AuthFSStore{}

// NewAuthFSStore хранит токен в файле path.
func NewAuthFSStore(path string) AuthFSStore {
	return AuthFSStore{Path: path}
}

// Save сохраняет auth‑токен в файл, создавая каталог при необходимости.
func (s AuthFSStore) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(token), 0o600)
}

// Load читает auth‑токен из файла.
func (s AuthFSStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	// обрезаем завершающие переводы строки/пробелы
	tok := strings.TrimSpace(string(b))
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// Clear удаляет файл токена; отсутствие файла не ошибка.
func (s AuthFSStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
