// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photos

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/danielhkuo/travel-planner/apperr"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

// oversizedPNG returns a tiny valid PNG whose header declares w x h pixels.
func oversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()

	data := pngBytes(t, 1, 1)
	// signature(8) length(4) then IHDR type and 13 data bytes, then CRC
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p := NewProcessor(t.TempDir())
	if err := p.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	return p
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", dir, err)
	}
	return len(entries)
}

func TestProcessLargeImage(t *testing.T) {
	p := newTestProcessor(t)

	out, err := p.Process(Upload{OriginalName: "wide.png", ContentType: "image/png", Data: pngBytes(t, 2400, 1200)})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if !strings.HasSuffix(out.Filename, ".jpg") {
		t.Errorf("Expected .jpg filename, got %s", out.Filename)
	}
	if out.Size <= 0 {
		t.Errorf("Expected positive size, got %d", out.Size)
	}

	full, err := imaging.Open(filepath.Join(p.photoDir, out.Filename))
	if err != nil {
		t.Fatalf("Failed to open stored photo: %v", err)
	}
	if b := full.Bounds(); b.Dx() != 1920 || b.Dy() != 960 {
		t.Errorf("Expected 1920x960, got %dx%d", b.Dx(), b.Dy())
	}

	thumb, err := imaging.Open(filepath.Join(p.thumbDir, ThumbPrefix+out.Filename))
	if err != nil {
		t.Fatalf("Failed to open thumbnail: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != ThumbSize || b.Dy() != ThumbSize {
		t.Errorf("Expected %dx%d thumbnail, got %dx%d", ThumbSize, ThumbSize, b.Dx(), b.Dy())
	}
}

func TestProcessSmallImageNotUpscaled(t *testing.T) {
	p := newTestProcessor(t)

	out, err := p.Process(Upload{OriginalName: "small.png", ContentType: "image/png", Data: pngBytes(t, 120, 80)})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	full, err := imaging.Open(filepath.Join(p.photoDir, out.Filename))
	if err != nil {
		t.Fatalf("Failed to open stored photo: %v", err)
	}
	if b := full.Bounds(); b.Dx() != 120 || b.Dy() != 80 {
		t.Errorf("Expected 120x80, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestProcessRejects(t *testing.T) {
	tests := []struct {
		name     string
		upload   Upload
		wantKind apperr.Kind
	}{
		{
			name:     "declared text",
			upload:   Upload{OriginalName: "notes.txt", ContentType: "text/plain", Data: []byte("hello")},
			wantKind: apperr.UnsupportedMediaType,
		},
		{
			name:     "sniffed text",
			upload:   Upload{OriginalName: "notes", Data: []byte("just some words")},
			wantKind: apperr.UnsupportedMediaType,
		},
		{
			name:     "corrupt image",
			upload:   Upload{OriginalName: "broken.png", ContentType: "image/png", Data: []byte("not really a png")},
			wantKind: apperr.UnsupportedMediaType,
		},
		{
			name:     "empty",
			upload:   Upload{OriginalName: "empty.png", ContentType: "image/png"},
			wantKind: apperr.Validation,
		},
		{
			name:     "too large",
			upload:   Upload{OriginalName: "huge.png", ContentType: "image/png", Data: make([]byte, MaxFileSize+1)},
			wantKind: apperr.Validation,
		},
		{
			name:     "too many pixels",
			upload:   Upload{OriginalName: "bomb.png", ContentType: "image/png", Data: oversizedPNG(t, 30000, 30000)},
			wantKind: apperr.Validation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProcessor(t)

			_, err := p.Process(tt.upload)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("Expected kind %v, got %v (%v)", tt.wantKind, got, err)
			}
			if n := countFiles(t, p.photoDir) + countFiles(t, p.thumbDir); n != 0 {
				t.Errorf("Expected no files after rejection, found %d", n)
			}
		})
	}
}

func TestProcessSniffsMissingContentType(t *testing.T) {
	p := newTestProcessor(t)

	if _, err := p.Process(Upload{OriginalName: "noheader", Data: pngBytes(t, 10, 10)}); err != nil {
		t.Errorf("Expected sniffed PNG to be accepted, got %v", err)
	}
}

func TestRemoveIgnoresMissingFiles(t *testing.T) {
	p := newTestProcessor(t)

	out, err := p.Process(Upload{OriginalName: "a.png", ContentType: "image/png", Data: pngBytes(t, 10, 10)})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if err := os.Remove(filepath.Join(p.thumbDir, ThumbPrefix+out.Filename)); err != nil {
		t.Fatalf("Failed to pre-remove thumbnail: %v", err)
	}

	if err := p.Remove(out.Filename); err != nil {
		t.Errorf("Remove() error = %v", err)
	}
	if n := countFiles(t, p.photoDir); n != 0 {
		t.Errorf("Expected photo removed, found %d files", n)
	}
}

func TestPathsRejectTraversal(t *testing.T) {
	p := NewProcessor("/srv/uploads")

	tests := []struct {
		name    string
		file    string
		thumb   bool
		wantErr bool
	}{
		{"plain photo", "123-abc.jpg", false, false},
		{"plain thumbnail", "thumb-123-abc.jpg", true, false},
		{"parent dir", "../secret", false, true},
		{"nested", "a/b.jpg", false, true},
		{"dotdot inside", "x..jpg", false, true},
		{"thumbnail without prefix", "123-abc.jpg", true, true},
		{"empty", "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			var err error
			if tt.thumb {
				path, err = p.ThumbnailPath(tt.file)
			} else {
				path, err = p.PhotoPath(tt.file)
			}
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if err == nil && !strings.HasPrefix(path, "/srv/uploads/") {
				t.Errorf("Path %s escaped the upload dir", path)
			}
		})
	}
}
