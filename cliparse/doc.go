// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: SQLite file or PostgreSQL connection string (required)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - JWTSecret: Token signing secret (required)
  - UploadDir: Root for photos/ and thumbnails/ (default: uploads)
  - FrontendURL: Allowed CORS origin (empty echoes the request Origin)
  - MaxConns: Maximum open database connections (default: 10)
  - AcquireTimeout: Wait for a free connection before failing (default: 60s)

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	JWT_SECRET         → -jwt-secret
	UPLOAD_DIR         → -upload-dir
	FRONTEND_URL       → -frontend-url
	DB_MAX_CONNS       → -max-conns
	DB_ACQUIRE_TIMEOUT → -acquire-timeout

CLI flags take precedence over environment variables. main loads a .env
file into the environment before ParseFlags runs.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL and JWT_SECRET must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - DB_MAX_CONNS and DB_ACQUIRE_TIMEOUT must be positive

# Example

	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	pool, err := db.Open(cfg)
	// ...
	handler := router.NewRouter(pool, cfg)
*/
package cliparse
