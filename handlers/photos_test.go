// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/photos"
	"github.com/danielhkuo/travel-planner/testutil"
)

type uploadFile struct {
	name string
	data []byte
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: 64, B: uint8(y), A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// uploadRequest builds a multipart upload for travelID with files and captions.
func uploadRequest(t *testing.T, travelID string, files []uploadFile, captions []string, headers map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("photos", f.name)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		part.Write(f.data)
	}
	for _, c := range captions {
		if err := mw.WriteField("captions", c); err != nil {
			t.Fatalf("Failed to write caption: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/photos/upload/"+travelID, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetPathValue("travelId", travelID)
	return req
}

type photoEnv struct {
	handler *PhotoHandler
	pool    *db.Pool
	cfg     cliparse.Config
	owner   *models.User
	travel  *models.Travel
}

func newPhotoEnv(t *testing.T) photoEnv {
	t.Helper()

	pool := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	if err := photos.NewProcessor(cfg.UploadDir).EnsureDirs(); err != nil {
		t.Fatalf("Failed to create upload dirs: %v", err)
	}
	alice := testutil.CreateTestUser(t, pool, "alice@example.com", "Alice")
	return photoEnv{
		handler: NewPhotoHandler(pool, cfg),
		pool:    pool,
		cfg:     cfg,
		owner:   alice,
		travel:  testutil.CreateTestTravel(t, pool, alice, "Lisbon", ""),
	}
}

func TestUploadPhotos(t *testing.T) {
	env := newPhotoEnv(t)
	handler, cfg, alice, travel := env.handler, env.cfg, env.owner, env.travel
	headers := as(t, cfg, alice)

	files := []uploadFile{
		{"tower.png", testPNG(t, 64, 48)},
		{"notes.txt", []byte("definitely not an image")},
		{"tram.png", testPNG(t, 32, 32)},
	}
	w := serveAuthed(cfg, handler.UploadPhotos, uploadRequest(t, travel.ID, files, []string{"Sunset"}, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.UploadPhotosResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.Photos) != 2 || len(resp.Failed) != 1 {
		t.Fatalf("Expected 2 stored and 1 failed, got %d and %d", len(resp.Photos), len(resp.Failed))
	}
	if resp.Failed[0].OriginalName != "notes.txt" {
		t.Errorf("Expected notes.txt to fail, got %s", resp.Failed[0].OriginalName)
	}
	for _, p := range resp.Photos {
		if p.Caption == nil || *p.Caption != "Sunset" {
			t.Errorf("Expected the single caption on every photo, got %v", p.Caption)
		}
		for _, path := range []string{
			filepath.Join(cfg.UploadDir, "photos", p.Filename),
			filepath.Join(cfg.UploadDir, "thumbnails", photos.ThumbPrefix+p.Filename),
		} {
			if _, err := os.Stat(path); err != nil {
				t.Errorf("Expected %s on disk: %v", path, err)
			}
		}
	}

	// Listing returns both rows
	req := withPath(testutil.MakeRequest("GET", "/api/photos/travel/"+travel.ID, nil, headers), "travelId", travel.ID)
	w = serveAuthed(cfg, handler.ListByTravel, req)
	testutil.AssertStatus(t, w, http.StatusOK)
	var list []models.Photo
	testutil.AssertJSON(t, w, &list)
	if len(list) != 2 {
		t.Errorf("Expected 2 photos listed, got %d", len(list))
	}
}

func TestUploadPhotosRejected(t *testing.T) {
	env := newPhotoEnv(t)
	handler, cfg, alice, travel := env.handler, env.cfg, env.owner, env.travel
	headers := as(t, cfg, alice)

	tooMany := make([]uploadFile, photos.MaxFiles+1)
	small := testPNG(t, 4, 4)
	for i := range tooMany {
		tooMany[i] = uploadFile{"p.png", small}
	}

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"only non-images", uploadRequest(t, travel.ID, []uploadFile{{"a.txt", []byte("hello")}}, nil, headers), http.StatusUnsupportedMediaType},
		{"no files", uploadRequest(t, travel.ID, nil, []string{"lonely caption"}, headers), http.StatusBadRequest},
		{"too many files", uploadRequest(t, travel.ID, tooMany, nil, headers), http.StatusBadRequest},
		{"unknown travel", uploadRequest(t, "missing", []uploadFile{{"a.png", small}}, nil, headers), http.StatusNotFound},
		{"not multipart", withPath(testutil.MakeRequest("POST", "/api/photos/upload/"+travel.ID, map[string]string{"a": "b"}, headers), "travelId", travel.ID), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveAuthed(cfg, handler.UploadPhotos, tt.req)
			testutil.AssertStatus(t, w, tt.status)
		})
	}

	entries, err := os.ReadDir(filepath.Join(cfg.UploadDir, "photos"))
	if err != nil {
		t.Fatalf("Failed to read photo dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no stored files after rejected uploads, got %d", len(entries))
	}
}

func TestPhotoMetadataAndFiles(t *testing.T) {
	env := newPhotoEnv(t)
	handler, cfg, alice, travel := env.handler, env.cfg, env.owner, env.travel
	headers := as(t, cfg, alice)

	w := serveAuthed(cfg, handler.UploadPhotos, uploadRequest(t, travel.ID, []uploadFile{{"a.png", testPNG(t, 20, 20)}}, nil, headers))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.UploadPhotosResponse
	testutil.AssertJSON(t, w, &resp)
	uploaded := resp.Photos[0]

	t.Run("serve file", func(t *testing.T) {
		req := withPath(testutil.MakeRequest("GET", "/api/photos/file/"+uploaded.Filename, nil, headers), "filename", uploaded.Filename)
		w := serveAuthed(cfg, handler.ServeFile, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("Expected image/jpeg, got %s", ct)
		}
	})

	t.Run("serve thumbnail with query token", func(t *testing.T) {
		name := photos.ThumbPrefix + uploaded.Filename
		token := testutil.TestToken(t, cfg, alice)
		req := withPath(testutil.MakeRequest("GET", "/api/photos/thumbnail/"+name+"?access_token="+token, nil, nil), "filename", name)
		testutil.AssertStatus(t, serveAuthed(cfg, handler.ServeThumbnail, req), http.StatusOK)
	})

	t.Run("outsider cannot fetch file", func(t *testing.T) {
		carol := testutil.CreateTestUser(t, env.pool, "carol@example.com", "Carol")
		req := withPath(testutil.MakeRequest("GET", "/api/photos/file/"+uploaded.Filename, nil, as(t, cfg, carol)), "filename", uploaded.Filename)
		testutil.AssertStatus(t, serveAuthed(cfg, handler.ServeFile, req), http.StatusForbidden)
	})

	t.Run("unknown file", func(t *testing.T) {
		req := withPath(testutil.MakeRequest("GET", "/api/photos/file/nope.jpg", nil, headers), "filename", "nope.jpg")
		testutil.AssertStatus(t, serveAuthed(cfg, handler.ServeFile, req), http.StatusNotFound)
	})

	t.Run("update caption", func(t *testing.T) {
		req := withPath(testutil.MakeRequest("PUT", "/api/photos/"+uploaded.ID, models.PhotoPatch{Caption: strPtr("Alfama")}, headers), "id", uploaded.ID)
		w := serveAuthed(cfg, handler.UpdatePhoto, req)
		testutil.AssertStatus(t, w, http.StatusOK)
		var got models.Photo
		testutil.AssertJSON(t, w, &got)
		if got.Caption == nil || *got.Caption != "Alfama" {
			t.Errorf("Expected caption Alfama, got %v", got.Caption)
		}
	})

	t.Run("tag unknown place", func(t *testing.T) {
		req := withPath(testutil.MakeRequest("PUT", "/api/photos/"+uploaded.ID, models.PhotoPatch{PlaceID: strPtr("missing")}, headers), "id", uploaded.ID)
		testutil.AssertStatus(t, serveAuthed(cfg, handler.UpdatePhoto, req), http.StatusNotFound)
	})

	t.Run("delete removes files", func(t *testing.T) {
		req := withPath(testutil.MakeRequest("DELETE", "/api/photos/"+uploaded.ID, nil, headers), "id", uploaded.ID)
		testutil.AssertStatus(t, serveAuthed(cfg, handler.DeletePhoto, req), http.StatusOK)

		if _, err := os.Stat(filepath.Join(cfg.UploadDir, "photos", uploaded.Filename)); !os.IsNotExist(err) {
			t.Errorf("Expected photo file removed, stat err = %v", err)
		}

		req = withPath(testutil.MakeRequest("GET", "/api/photos/"+uploaded.ID, nil, headers), "id", uploaded.ID)
		testutil.AssertStatus(t, serveAuthed(cfg, handler.GetPhoto, req), http.StatusNotFound)
	})
}
