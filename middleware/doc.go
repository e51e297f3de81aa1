// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Authentication

RequireAuth verifies the bearer token and stores its claims on the request
context:

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	mux.HandleFunc("GET /api/auth/me", requireAuth(authHandler.Me))

The token may also arrive as the access_token query parameter, which image
tags need. Handlers read the caller with UserID(r).

# CORS Middleware

Enable cross-origin requests for the frontend:

	handler := middleware.CORS(cfg.FrontendURL)(mux)

An empty origin echoes the request's Origin header.

# JSON Helpers

Decode and validate request bodies with go-playground/validator tags:

	var req models.CreateTravelRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

Write responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.WriteError(w, r, err)

WriteError maps apperr kinds to status codes and hides internal causes.

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used in request logs.
*/
package middleware
