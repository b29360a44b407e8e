// Package handlers provides HTTP request handlers for the escudo API.
// This file implements account signup and token login.
package handlers

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/anstrom/escudo/internal/api/middleware"
	"github.com/anstrom/escudo/internal/auth"
	"github.com/anstrom/escudo/internal/db"
	"github.com/anstrom/escudo/internal/errors"
	"github.com/anstrom/escudo/internal/logging"
)

//go:generate mockgen -destination=mocks/mock_auth_service.go -package=mocks github.com/anstrom/escudo/internal/api/handlers AuthService

// AuthService is the account logic behind AuthHandler. auth.Service
// implements it.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*db.User, error)
	Login(ctx context.Context, email, password string) (*auth.Token, error)
}

// AuthHandler handles /auth endpoints.
type AuthHandler struct {
	service   AuthService
	validator *validator.Validate
	logger    *logging.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service AuthService, logger *logging.Logger) *AuthHandler {
	return &AuthHandler{
		service:   service,
		validator: validator.New(),
		logger:    logger.WithFields("handler", "auth"),
	}
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRequest carries credentials as a URL-encoded form or JSON object.
// Username holds the account email.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /auth/signup.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, err.Error())
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := h.validator.Struct(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, validationMessage(err))
		return
	}

	user, err := h.service.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("User signed up",
		"request_id", middleware.GetRequestID(r),
		"user_id", user.ID)

	writeJSON(w, r, http.StatusCreated, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, err := parseLoginRequest(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, err.Error())
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, errors.CodeValidation, validationMessage(err))
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.IsCode(err, errors.CodeUnauthorized) {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		writeServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, r, http.StatusOK, token)
}

func parseLoginRequest(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("invalid form body: %w", err)
		}
		req.Username = r.PostForm.Get("username")
		req.Password = r.PostForm.Get("password")
		return req, nil
	}

	err := parseJSON(r, &req)
	return req, err
}

// validationMessage flattens validator errors into one client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		case "min":
			parts = append(parts, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			parts = append(parts, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
