// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photos

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/models"
)

type fakeRepo struct {
	rows      map[string]*models.Photo
	failWrite bool
	nextID    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[string]*models.Photo{}}
}

func (f *fakeRepo) Create(_ context.Context, photo *models.Photo) error {
	if f.failWrite {
		return errors.New("disk full")
	}
	f.nextID++
	photo.ID = string(rune('a' + f.nextID))
	f.rows[photo.ID] = photo
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) (*models.Photo, error) {
	photo, ok := f.rows[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Photo not found")
	}
	delete(f.rows, id)
	return photo, nil
}

func TestIngestRollsBackFilesWhenRowFails(t *testing.T) {
	proc := newTestProcessor(t)
	repo := newFakeRepo()
	repo.failWrite = true
	svc := NewService(repo, proc)

	_, err := svc.Ingest(context.Background(), "t1", Upload{OriginalName: "a.png", ContentType: "image/png", Data: pngBytes(t, 20, 20)}, "")
	if err == nil {
		t.Fatal("Expected error from failing repository")
	}
	if n := countFiles(t, proc.photoDir) + countFiles(t, proc.thumbDir); n != 0 {
		t.Errorf("Expected no files left behind, found %d", n)
	}
}

func TestIngestBatchPartialSuccess(t *testing.T) {
	proc := newTestProcessor(t)
	repo := newFakeRepo()
	svc := NewService(repo, proc)

	uploads := []Upload{
		{OriginalName: "one.png", ContentType: "image/png", Data: pngBytes(t, 30, 20)},
		{OriginalName: "readme.txt", ContentType: "text/plain", Data: []byte("hi")},
		{OriginalName: "two.png", ContentType: "image/png", Data: pngBytes(t, 20, 30)},
	}
	stored, failed, firstErr := svc.IngestBatch(context.Background(), "t1", uploads, []string{"first", "second", "third"})

	if len(stored) != 2 {
		t.Fatalf("Expected 2 stored photos, got %d", len(stored))
	}
	if stored[0].Caption == nil || *stored[0].Caption != "first" || *stored[1].Caption != "third" {
		t.Errorf("Captions not matched to files: %+v", stored)
	}
	if len(failed) != 1 || failed[0].OriginalName != "readme.txt" {
		t.Errorf("Expected readme.txt to fail, got %+v", failed)
	}
	if apperr.KindOf(firstErr) != apperr.UnsupportedMediaType {
		t.Errorf("Expected first error to be UnsupportedMediaType, got %v", firstErr)
	}
	if len(repo.rows) != 2 {
		t.Errorf("Expected 2 rows, got %d", len(repo.rows))
	}
	if n := countFiles(t, proc.photoDir); n != 2 {
		t.Errorf("Expected 2 photo files, got %d", n)
	}
}

func TestDeleteRemovesRowThenFiles(t *testing.T) {
	proc := newTestProcessor(t)
	repo := newFakeRepo()
	svc := NewService(repo, proc)
	ctx := context.Background()

	photo, err := svc.Ingest(ctx, "t1", Upload{OriginalName: "a.png", ContentType: "image/png", Data: pngBytes(t, 20, 20)}, "caption")
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if err := svc.Delete(ctx, photo.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(proc.photoDir, photo.Filename)); !os.IsNotExist(err) {
		t.Errorf("Expected photo file removed, stat err = %v", err)
	}
	if _, err := os.Stat(filepath.Join(proc.thumbDir, ThumbPrefix+photo.Filename)); !os.IsNotExist(err) {
		t.Errorf("Expected thumbnail removed, stat err = %v", err)
	}

	if err := svc.Delete(ctx, photo.ID); apperr.KindOf(err) != apperr.NotFound {
		t.Errorf("Expected NotFound on second delete, got %v", err)
	}
}

func TestCaptionFor(t *testing.T) {
	tests := []struct {
		captions []string
		i        int
		want     string
	}{
		{nil, 0, ""},
		{[]string{"all"}, 3, "all"},
		{[]string{"a", "b"}, 1, "b"},
		{[]string{"a", "b"}, 2, ""},
	}
	for _, tt := range tests {
		if got := captionFor(tt.captions, tt.i); got != tt.want {
			t.Errorf("captionFor(%v, %d) = %q, want %q", tt.captions, tt.i, got, tt.want)
		}
	}
}
