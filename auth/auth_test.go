// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/models"
)

func TestGenerateID(t *testing.T) {
	tests := []struct {
		name    string
		byteLen int
		wantLen int // hex encoded length = byteLen * 2
	}{
		{"8 bytes", 8, 16},
		{"16 bytes", 16, 32},
		{"24 bytes", 24, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := GenerateID(tt.byteLen)
			if err != nil {
				t.Fatalf("GenerateID() error = %v", err)
			}
			if len(id) != tt.wantLen {
				t.Errorf("GenerateID() length = %d, want %d", len(id), tt.wantLen)
			}
			// Verify it's valid hex
			for _, c := range id {
				if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
					t.Errorf("GenerateID() contains invalid hex char: %c", c)
				}
			}
		})
	}

	// Test randomness - two IDs should be different
	id1, _ := GenerateID(16)
	id2, _ := GenerateID(16)
	if id1 == id2 {
		t.Error("GenerateID() produced duplicate IDs (extremely unlikely)")
	}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "pw1" || strings.Contains(hash, "pw1") {
		t.Error("HashPassword() leaked the plaintext")
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost() error = %v", err)
	}
	if cost != PasswordCost {
		t.Errorf("cost = %d, want %d", cost, PasswordCost)
	}
}

func TestHashPasswordByteLimit(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"ascii at limit", strings.Repeat("a", MaxPasswordBytes), false},
		{"ascii over limit", strings.Repeat("a", MaxPasswordBytes+1), true},
		{"hangul at limit", strings.Repeat("비", 24), false},
		{"hangul under 72 runes but over 72 bytes", strings.Repeat("비", 30), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HashPassword(tt.password)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("HashPassword() error = %v", err)
				}
				return
			}
			if !errors.Is(err, ErrPasswordTooLong) || !errors.Is(err, apperr.ErrValidation) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f[email]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}
	return u, nil
}

func TestAuthenticateWithPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("pw1"), bcrypt.MinCost)
	users := fakeUsers{
		"a@x.com": {ID: "u1", Email: "a@x.com", Name: "Alice", PasswordHash: string(hash)},
	}

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"valid", "a@x.com", "pw1", nil},
		{"wrong password", "a@x.com", "pw2", ErrBadCredential},
		{"unknown email", "b@x.com", "pw1", ErrUserNotFound},
		{"email is case sensitive", "A@x.com", "pw1", ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := AuthenticateWithPassword(context.Background(), users, tt.email, tt.password)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("AuthenticateWithPassword() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("AuthenticateWithPassword() error = %v", err)
			}
			if user.ID != "u1" {
				t.Errorf("user.ID = %s, want u1", user.ID)
			}
		})
	}
}

func TestIssueAndAuthenticateToken(t *testing.T) {
	user := &models.User{ID: "u1", Email: "a@x.com"}
	token, err := IssueToken(user, "secret", time.Now())
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}

	claims, err := AuthenticateWithToken(token, "secret")
	if err != nil {
		t.Fatalf("AuthenticateWithToken() error = %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@x.com" {
		t.Errorf("claims = %+v", claims)
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining < TokenTTL-time.Minute || remaining > TokenTTL {
		t.Errorf("token expires in %v, want about %v", remaining, TokenTTL)
	}
}

func TestAuthenticateWithTokenRejects(t *testing.T) {
	user := &models.User{ID: "u1", Email: "a@x.com"}

	expired, _ := IssueToken(user, "secret", time.Now().Add(-8*24*time.Hour))
	otherSecret, _ := IssueToken(user, "other", time.Now())
	unsigned, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: "u1"}).SignedString([]byte("secret"))

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"unsigned", unsigned},
		{"no expiry", noExpiry},
		{"garbage", "not-a-token"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AuthenticateWithToken(tt.token, "secret")
			if !errors.Is(err, apperr.ErrUnauthenticated) {
				t.Errorf("AuthenticateWithToken() error = %v, want unauthenticated", err)
			}
		})
	}
}
