// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/cliparse"
)

func init() {
	// modernc registers itself as "sqlite", which sqlx does not know by name
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Querier is the statement surface shared by *sqlx.Conn and *sqlx.Tx.
type Querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

// Pool is the database handle passed to every store constructor.
type Pool struct {
	*sqlx.DB
	acquireTimeout time.Duration
}

// NewPool wraps an open connection pool.
func NewPool(conn *sqlx.DB, acquireTimeout time.Duration) *Pool {
	return &Pool{DB: conn, acquireTimeout: acquireTimeout}
}

// Open connects to the configured database and bounds the pool size.
// SQLite URLs get the connection pragmas the stores rely on.
func Open(cfg cliparse.Config) (*Pool, error) {
	driver, dsn := "sqlite", SQLiteDSN(cfg.DatabaseURL, cfg.AcquireTimeout)
	if cfg.DatabaseType == "postgres" {
		driver, dsn = "postgres", cfg.DatabaseURL
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	conn.SetMaxOpenConns(cfg.MaxConns)
	conn.SetMaxIdleConns(cfg.MaxConns)

	return NewPool(conn, cfg.AcquireTimeout), nil
}

// SQLiteDSN adds the options every SQLite connection needs to dsn, keeping
// any the caller already set. Writers wait up to busy for the file lock,
// and transactions take the write lock at BEGIN so two readers cannot both
// try to upgrade.
func SQLiteDSN(dsn string, busy time.Duration) string {
	opts := []struct{ key, param string }{
		{"foreign_keys", "_pragma=foreign_keys(1)"},
		{"busy_timeout", "_pragma=busy_timeout(" + strconv.FormatInt(busy.Milliseconds(), 10) + ")"},
		{"_txlock", "_txlock=immediate"},
		{"_time_format", "_time_format=sqlite"},
	}

	var b strings.Builder
	b.WriteString(dsn)
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	for _, o := range opts {
		if strings.Contains(dsn, o.key) {
			continue
		}
		b.WriteString(sep)
		b.WriteString(o.param)
		sep = "&"
	}
	return b.String()
}

// Run acquires a connection and calls fn with it. Waiting longer than the
// acquire timeout yields an apperr.Timeout. Statements run on a context
// detached from ctx's cancellation, so a disconnecting client does not abort
// a statement midway.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context, q Querier) error) error {
	conn, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	return fn(context.WithoutCancel(ctx), conn)
}

// RunTx is Run inside a transaction. The transaction commits if fn returns
// nil and rolls back otherwise.
func (p *Pool) RunTx(ctx context.Context, fn func(ctx context.Context, tx Querier) error) error {
	conn, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx = context.WithoutCancel(ctx)
	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (p *Pool) acquire(ctx context.Context) (*sqlx.Conn, error) {
	actx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.Connx(actx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperr.Wrap(apperr.Timeout, "Database is busy, try again later", err)
		}
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	return conn, nil
}
