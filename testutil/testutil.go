// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/travel-planner/auth"
	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/store"
)

// TestPassword is the plaintext password of every user made by CreateTestUser.
const TestPassword = "password123"

// SetupTestDB creates a fresh SQLite database file with the full schema,
// opened through db.Open exactly as the server opens it. The file lives in
// the test's temp dir and is removed with it.
func SetupTestDB(t *testing.T) *db.Pool {
	t.Helper()

	cfg := GetTestConfig(t)
	cfg.DatabaseURL = "file:" + filepath.Join(t.TempDir(), "test.db")
	pool, err := db.Open(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	if err := db.CreateSchema(context.Background(), pool); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return pool
}

// GetTestConfig returns a standard test configuration with a per-test
// upload directory.
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:           5000,
		DatabaseURL:    "file::memory:",
		DatabaseType:   "sqlite",
		JWTSecret:      "test-jwt-secret",
		UploadDir:      t.TempDir(),
		FrontendURL:    "http://localhost:3000",
		MaxConns:       4,
		AcquireTimeout: 5 * time.Second,
	}
}

// CreateTestUser inserts a user whose password is TestPassword. The hash
// uses the minimum bcrypt cost to keep tests fast.
func CreateTestUser(t *testing.T, pool *db.Pool, email, name string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user, err := store.NewUserStore(pool).CreateWithHash(context.Background(), email, string(hash), name)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// TestToken issues a bearer token for user signed with cfg's secret.
func TestToken(t *testing.T, cfg cliparse.Config, user *models.User) string {
	t.Helper()

	token, err := auth.IssueToken(user, cfg.JWTSecret, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}
	return token
}

// AuthHeader builds the Authorization header map for MakeRequest.
func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// CreateTestGroup creates a group with creator as its admin.
func CreateTestGroup(t *testing.T, pool *db.Pool, creator *models.User, name string) *models.Group {
	t.Helper()

	group, err := store.NewGroupStore(pool).CreateGroup(context.Background(), name, nil, creator.ID)
	if err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return group
}

// AddTestMember adds user to group with role, acting as the group creator.
func AddTestMember(t *testing.T, pool *db.Pool, group *models.Group, user *models.User, role string) {
	t.Helper()

	_, err := store.NewGroupStore(pool).InviteMember(context.Background(), group.ID, group.CreatorID, user.ID, role)
	if err != nil {
		t.Fatalf("Failed to add test member: %v", err)
	}
}

// CreateTestTravel creates a travel from 2025-06-01 to 2025-06-07 owned by
// owner. groupID may be empty.
func CreateTestTravel(t *testing.T, pool *db.Pool, owner *models.User, title, groupID string) *models.Travel {
	t.Helper()

	req := models.CreateTravelRequest{
		Title:     title,
		StartDate: "2025-06-01",
		EndDate:   "2025-06-07",
	}
	if groupID != "" {
		req.GroupID = &groupID
	}

	travel, err := store.NewTravelStore(pool).Create(context.Background(), owner.ID, req)
	if err != nil {
		t.Fatalf("Failed to create test travel: %v", err)
	}
	return travel
}

// CreateTestPlace adds a catalog place.
func CreateTestPlace(t *testing.T, pool *db.Pool, name, address, category string) *models.Place {
	t.Helper()

	req := models.CreatePlaceRequest{Name: name, Category: category}
	if address != "" {
		req.Address = &address
	}

	place, err := store.NewPlaceStore(pool).Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Failed to create test place: %v", err)
	}
	return place
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
