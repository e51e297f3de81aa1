// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/auth"
	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/store"
)

type AuthHandler struct {
	users *store.UserStore
	cfg   cliparse.Config
}

func NewAuthHandler(pool *db.Pool, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{users: store.NewUserStore(pool), cfg: cfg}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	user, err := auth.AuthenticateWithPassword(r.Context(), h.users, req.Email, req.Password)
	if errors.Is(err, auth.ErrUserNotFound) {
		// Unknown accounts are reported as 401 like a wrong password
		middleware.WriteError(w, r, apperr.New(apperr.Unauthenticated, "User not found"))
		return
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	token, err := auth.IssueToken(user, h.cfg.JWTSecret, time.Now())
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Message: "Login successful",
		Token:   token,
		User:    *user,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), middleware.UserID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}

// LookupUser handles GET /api/users?email=
func (h *AuthHandler) LookupUser(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email query parameter is required")
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), email)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}
