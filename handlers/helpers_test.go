// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/testutil"
)

// serveAuthed runs h behind the bearer-token middleware, as the router does.
func serveAuthed(cfg cliparse.Config, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	middleware.RequireAuth(cfg.JWTSecret)(h)(w, req)
	return w
}

// as returns the Authorization header for user.
func as(t *testing.T, cfg cliparse.Config, user *models.User) map[string]string {
	t.Helper()
	return testutil.AuthHeader(testutil.TestToken(t, cfg, user))
}

// withPath sets path values on req and returns it.
func withPath(req *http.Request, kv ...string) *http.Request {
	for i := 0; i+1 < len(kv); i += 2 {
		req.SetPathValue(kv[i], kv[i+1])
	}
	return req
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
