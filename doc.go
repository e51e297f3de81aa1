// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the travel planner API server.

Users plan travels with day-by-day itineraries, link places from a shared
directory, upload photos, and share travels with groups.

# Starting the Server

The server reads a .env file if present, then environment variables or CLI
flags:

	JWT_SECRET=... DATABASE_URL=travel.db go run .

Or with flags:

	go run . -p 5000 -t postgres -d "postgres://..." -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Token signing secret

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - UPLOAD_DIR (-upload-dir): Photo storage root (default: uploads)
  - FRONTEND_URL (-frontend-url): Allowed CORS origin
  - DB_MAX_CONNS (-max-conns): Pool size (default: 10)
  - DB_ACQUIRE_TIMEOUT (-acquire-timeout): Wait for a free connection (default: 60s)

# Architecture

  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: Auth, CORS, logging, JSON and validation helpers
  - access: Travel access decisions
  - store: SQL persistence for every entity
  - photos: Image processing and upload ingestion
  - models: Entities and request/response types
  - auth: Password hashing and bearer tokens
  - apperr: Error kinds shared across layers
  - db: Connection pool and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
