// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/auth"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
)

var ErrDuplicateEmail = apperr.New(apperr.Conflict, "Email is already registered")

// UserStore holds user accounts and credentials.
type UserStore struct {
	pool *db.Pool
}

func NewUserStore(pool *db.Pool) *UserStore {
	return &UserStore{pool: pool}
}

// Register creates a user with a bcrypt-hashed password. Emails are matched
// exactly (case-sensitive).
func (s *UserStore) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.CreateWithHash(ctx, email, hash, name)
}

// CreateWithHash inserts a user whose password is already hashed.
func (s *UserStore) CreateWithHash(ctx context.Context, email, passwordHash, name string) (*models.User, error) {
	id, err := newID()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    now(),
	}

	err = s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		var exists int
		err := q.QueryRowxContext(ctx, s.pool.Rebind(`SELECT COUNT(*) FROM app_user WHERE email = ?`), email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if exists > 0 {
			return ErrDuplicateEmail
		}

		_, err = q.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO app_user (id, email, password_hash, name, created_at)
			VALUES (?, ?, ?, ?, ?)
		`), user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt)
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return get(ctx, q, &user, "User not found", s.pool.Rebind(`
			SELECT id, email, password_hash, name, created_at FROM app_user WHERE email = ?
		`), email)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return get(ctx, q, &user, "User not found", s.pool.Rebind(`
			SELECT id, email, password_hash, name, created_at FROM app_user WHERE id = ?
		`), id)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
