package service

import (
	"context"
	"errors"
	"fmt"
	"invoicer/internal/apperr"
	"invoicer/internal/model"
	"invoicer/internal/repo"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrLoginTaken - имя пользователя или email уже заняты.
	ErrLoginTaken = fmt.Errorf("login already taken: %w", apperr.ErrConflict)
	// ErrInvalidCredentials - неверный логин или пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// UserService - регистрация и вход.
type UserService struct {
	repo repo.UserRepository
}

func NewUserService(r repo.UserRepository) *UserService {
	return &UserService{repo: r}
}

// Register создаёт пользователя с bcrypt-хешем пароля.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, apperr.NewValidationError("username", "is required")
	case email == "":
		return nil, apperr.NewValidationError("email", "is required")
	case password == "":
		return nil, apperr.NewValidationError("password", "is required")
	}

	for _, login := range []string{username, email} {
		taken, err := s.exists(ctx, login)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrLoginTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.CreateUser(ctx, &model.User{Username: username, Email: email, Password: string(hash)})
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrLoginTaken
	}
	if err != nil {
		return nil, apperr.Storage("create user", err)
	}
	return user, nil
}

// Login проверяет пароль пользователя, найденного по имени или email.
func (s *UserService) Login(ctx context.Context, login, password string) (*model.User, error) {
	user, err := s.repo.GetUserByLogin(ctx, strings.TrimSpace(login))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, apperr.Storage("get user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Get возвращает пользователя по id.
func (s *UserService) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user == nil) {
		return nil, fmt.Errorf("user %d: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, apperr.Storage("get user", err)
	}
	return user, nil
}

func (s *UserService) exists(ctx context.Context, login string) (bool, error) {
	user, err := s.repo.GetUserByLogin(ctx, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, apperr.Storage("get user", err)
	}
	return user != nil, nil
}
