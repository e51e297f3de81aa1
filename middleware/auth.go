// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/auth"
)

type contextKey int

const claimsKey contextKey = iota

// RequireAuth rejects requests without a valid bearer token before next runs.
// The token is read from the Authorization header, or from the access_token
// query parameter so that <img> tags can load protected photo files.
func RequireAuth(secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				WriteError(w, r, apperr.New(apperr.Unauthenticated, "Authentication required"))
				return
			}

			claims, err := auth.AuthenticateWithToken(token, secret)
			if err != nil {
				WriteError(w, r, err)
				return
			}

			next(w, r.WithContext(WithClaims(r.Context(), claims)))
		}
	}
}

// WithClaims stores verified token claims on ctx.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ClaimsFrom returns the claims stored by RequireAuth.
func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// UserID returns the authenticated user's ID, or "" outside RequireAuth.
func UserID(r *http.Request) string {
	if claims, ok := ClaimsFrom(r.Context()); ok {
		return claims.UserID
	}
	return ""
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("access_token")
}
