package handlers

import (
	"encoding/json"
	"invoicer/internal/config"
	"invoicer/internal/middleware"
	"invoicer/internal/model"
	"invoicer/internal/service"
	"net/http"

	"go.uber.org/zap"
)

// UserHandler - регистрация, вход и текущий пользователь.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest принимает имя пользователя или email.
type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// Register создаёт пользователя и сразу выдаёт токен.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Register: invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: err.Error()})
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Error registering user", err)
		return
	}
	h.issueToken(w, http.StatusCreated, "User registered successfully", user)
}

// Login проверяет пароль и выдаёт токен.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Login: invalid request body", "error", err)
		writeJSON(w, http.StatusBadRequest, envelope{Message: "invalid request body", Error: err.Error()})
		return
	}
	login := firstNonEmpty(req.Login, req.Username, req.Email)
	if login == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, envelope{Message: "username or email and password are required"})
		return
	}

	user, err := h.UserService.Login(r.Context(), login, req.Password)
	if err != nil {
		writeError(w, h.Logger, "Error logging in", err)
		return
	}
	h.issueToken(w, http.StatusOK, "Login successful", user)
}

// Me возвращает текущего пользователя.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	user, err := h.UserService.Get(r.Context(), userID)
	if err != nil {
		writeError(w, h.Logger, "Error fetching user", err)
		return
	}
	writeOK(w, http.StatusOK, "", user)
}

func (h *UserHandler) issueToken(w http.ResponseWriter, status int, message string, user *model.User) {
	token, err := middleware.BuildToken(user.ID, h.Config.AuthSecret, h.Config.TokenTTL)
	if err != nil {
		writeError(w, h.Logger, "Error issuing token", err)
		return
	}
	writeOK(w, status, message, authResponse{Token: token, User: user})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
