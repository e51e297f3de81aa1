// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/travel-planner/auth"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/testutil"
)

func TestRegister(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	handler := NewAuthHandler(pool, testutil.GetTestConfig(t))
	testutil.CreateTestUser(t, pool, "taken@example.com", "Taken")

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{"valid", map[string]string{"email": "new@example.com", "password": "pw-123456", "name": "New"}, http.StatusCreated},
		{"duplicate email", map[string]string{"email": "taken@example.com", "password": "pw-123456", "name": "Dup"}, http.StatusConflict},
		{"invalid email", map[string]string{"email": "nope", "password": "pw-123456", "name": "Bad"}, http.StatusBadRequest},
		{"missing name", map[string]string{"email": "x@example.com", "password": "pw-123456"}, http.StatusBadRequest},
		{"missing password", map[string]string{"email": "y@example.com", "name": "Y"}, http.StatusBadRequest},
		{"hangul password over 72 bytes", map[string]string{"email": "ko@example.com", "password": strings.Repeat("비", 30), "name": "Ko"}, http.StatusBadRequest},
		{"hangul password at 72 bytes", map[string]string{"email": "ko2@example.com", "password": strings.Repeat("비", 24), "name": "Ko"}, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/register", tt.body, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.RegisterResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.UserID == "" {
					t.Error("Expected userId in response")
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewAuthHandler(pool, cfg)
	user := testutil.CreateTestUser(t, pool, "alice@example.com", "Alice")

	t.Run("valid credentials", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
			Email: "alice@example.com", Password: testutil.TestPassword,
		}, nil)
		w := httptest.NewRecorder()

		handler.Login(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.LoginResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.User.ID != user.ID {
			t.Errorf("Expected user %s, got %s", user.ID, resp.User.ID)
		}

		claims, err := auth.AuthenticateWithToken(resp.Token, cfg.JWTSecret)
		if err != nil {
			t.Fatalf("Issued token does not verify: %v", err)
		}
		if claims.UserID != user.ID || claims.Email != user.Email {
			t.Errorf("Unexpected claims %+v", claims)
		}
	})

	tests := []struct {
		name     string
		email    string
		password string
		status   int
	}{
		{"wrong password", "alice@example.com", "not-it", http.StatusUnauthorized},
		{"unknown user", "bob@example.com", testutil.TestPassword, http.StatusUnauthorized},
		{"missing password", "alice@example.com", "", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/api/auth/login", models.LoginRequest{
				Email: tt.email, Password: tt.password,
			}, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			testutil.AssertStatus(t, w, tt.status)
		})
	}
}

func TestMe(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewAuthHandler(pool, cfg)
	user := testutil.CreateTestUser(t, pool, "alice@example.com", "Alice")

	w := serveAuthed(cfg, handler.Me, testutil.MakeRequest("GET", "/api/auth/me", nil, as(t, cfg, user)))
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.User
	testutil.AssertJSON(t, w, &got)
	if got.Email != "alice@example.com" || got.Name != "Alice" {
		t.Errorf("Unexpected user %+v", got)
	}

	w = serveAuthed(cfg, handler.Me, testutil.MakeRequest("GET", "/api/auth/me", nil, nil))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)

	w = serveAuthed(cfg, handler.Me, testutil.MakeRequest("GET", "/api/auth/me", nil,
		map[string]string{"Authorization": "Bearer garbage"}))
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestLookupUser(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewAuthHandler(pool, cfg)
	alice := testutil.CreateTestUser(t, pool, "alice@example.com", "Alice")
	bob := testutil.CreateTestUser(t, pool, "bob@example.com", "Bob")

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"found", "/api/users?email=bob@example.com", http.StatusOK},
		{"unknown", "/api/users?email=carol@example.com", http.StatusNotFound},
		{"missing email", "/api/users", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAuthed(cfg, handler.LookupUser, testutil.MakeRequest("GET", tt.path, nil, as(t, cfg, alice)))
			testutil.AssertStatus(t, w, tt.status)

			if tt.status == http.StatusOK {
				var got models.User
				testutil.AssertJSON(t, w, &got)
				if got.ID != bob.ID {
					t.Errorf("Expected %s, got %s", bob.ID, got.ID)
				}
			}
		})
	}
}
