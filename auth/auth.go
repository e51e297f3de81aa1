// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/models"
)

// PasswordCost is the bcrypt work factor for stored passwords
const PasswordCost = 12

// MaxPasswordBytes is bcrypt's input limit. It counts UTF-8 bytes, so a
// Hangul password reaches it at 24 characters.
const MaxPasswordBytes = 72

var (
	ErrUserNotFound    = apperr.New(apperr.NotFound, "User not found")
	ErrBadCredential   = apperr.New(apperr.Unauthenticated, "Password does not match")
	ErrPasswordTooLong = apperr.New(apperr.Validation, "password must be at most 72 bytes")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashPassword returns the bcrypt hash of password at PasswordCost
func HashPassword(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// UserFinder looks up users by their exact email.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// AuthenticateWithPassword checks an email/password pair. It returns
// ErrUserNotFound when no account has that email and ErrBadCredential when
// the password does not match.
func AuthenticateWithPassword(ctx context.Context, users UserFinder, email, password string) (*models.User, error) {
	user, err := users.GetUserByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrBadCredential
	}
	return user, nil
}
