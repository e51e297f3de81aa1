// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	mux := NewRouter(pool, testutil.GetTestConfig(t))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	mux := NewRouter(pool, testutil.GetTestConfig(t))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if expected := "travel-planner API v1"; w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}

	// Unknown paths are not swallowed by the root handler
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", w.Code)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	mux := NewRouter(pool, testutil.GetTestConfig(t))

	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/api/auth/me"},
		{"GET", "/api/users?email=a@example.com"},
		{"GET", "/api/groups"},
		{"POST", "/api/groups"},
		{"GET", "/api/groups/g1"},
		{"PUT", "/api/groups/g1/members/u1/role"},
		{"DELETE", "/api/groups/g1/members/u1"},
		{"GET", "/api/travels"},
		{"DELETE", "/api/travels/t1"},
		{"POST", "/api/itineraries"},
		{"GET", "/api/itineraries/travel/t1"},
		{"GET", "/api/itineraries/i1/places"},
		{"PUT", "/api/itineraries/i1/places/l1"},
		{"POST", "/api/photos/upload/t1"},
		{"GET", "/api/photos/travel/t1"},
		{"GET", "/api/photos/place/p1"},
		{"GET", "/api/photos/file/x.jpg"},
		{"GET", "/api/photos/thumbnail/thumb-x.jpg"},
		{"DELETE", "/api/photos/ph1"},
		{"GET", "/api/places?search=tower"},
		{"PUT", "/api/places/p1"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != http.StatusUnauthorized {
				t.Errorf("Expected 401 for %s %s, got %d", tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	mux := NewRouter(pool, testutil.GetTestConfig(t))

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"PATCH a travel", "PATCH", "/api/travels/t1", http.StatusMethodNotAllowed},
		{"GET login", "GET", "/api/auth/login", http.StatusMethodNotAllowed},
		{"preflight", "OPTIONS", "/api/travels", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestCORSHeaderUsesFrontendURL(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	mux := NewRouter(pool, cfg)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != cfg.FrontendURL {
		t.Errorf("Expected Access-Control-Allow-Origin %q, got %q", cfg.FrontendURL, got)
	}
}

func TestPathParameterExtraction(t *testing.T) {
	pool := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	mux := NewRouter(pool, cfg)

	alice := testutil.CreateTestUser(t, pool, "alice@example.com", "Alice")
	travel := testutil.CreateTestTravel(t, pool, alice, "Lisbon", "")
	headers := testutil.AuthHeader(testutil.TestToken(t, cfg, alice))

	t.Run("travel ID", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/travels/"+travel.ID, nil, headers))

		testutil.AssertStatus(t, w, http.StatusOK)
		var got models.Travel
		testutil.AssertJSON(t, w, &got)
		if got.ID != travel.ID {
			t.Errorf("Expected travel %s, got %s", travel.ID, got.ID)
		}
	})

	t.Run("itineraries by travel through dispatcher", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/itineraries/travel/"+travel.ID, nil, headers))

		testutil.AssertStatus(t, w, http.StatusOK)
		var got []models.Itinerary
		testutil.AssertJSON(t, w, &got)
		if len(got) != 0 {
			t.Errorf("Expected no itineraries, got %d", len(got))
		}
	})

	t.Run("unknown nested itinerary path", func(t *testing.T) {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/itineraries/i1/bogus", nil, headers))

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}
