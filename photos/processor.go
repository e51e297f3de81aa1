// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photos

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/danielhkuo/travel-planner/apperr"
)

// Upload limits and output geometry
const (
	MaxFiles    = 10
	MaxFileSize = 10 << 20
	MaxPixels   = 50_000_000

	MaxWidth    = 1920
	MaxHeight   = 1080
	FullQuality = 85

	ThumbSize    = 300
	ThumbQuality = 70
	ThumbPrefix  = "thumb-"
)

// Upload is one received file, fully buffered.
type Upload struct {
	OriginalName string
	ContentType  string // from the multipart header, may be empty
	Data         []byte
}

// Processed describes the files written for one upload.
type Processed struct {
	Filename string
	Size     int64
}

// Processor turns uploads into a bounded JPEG plus a square thumbnail on
// disk. It never leaves a half-written pair behind.
type Processor struct {
	photoDir string
	thumbDir string
}

func NewProcessor(uploadDir string) *Processor {
	return &Processor{
		photoDir: filepath.Join(uploadDir, "photos"),
		thumbDir: filepath.Join(uploadDir, "thumbnails"),
	}
}

// EnsureDirs creates the photo and thumbnail directories.
func (p *Processor) EnsureDirs() error {
	for _, dir := range []string{p.photoDir, p.thumbDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Process validates, transcodes and thumbnails u. Validation happens before
// any file is written; if the thumbnail fails the full image is removed.
func (p *Processor) Process(u Upload) (*Processed, error) {
	if err := checkUpload(u); err != nil {
		return nil, err
	}

	// Header only; a small compressed file can declare a huge canvas
	cfg, _, err := image.DecodeConfig(bytes.NewReader(u.Data))
	if err != nil {
		return nil, apperr.Wrap(apperr.UnsupportedMediaType, "File is not a readable image", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, apperr.New(apperr.Validation, "Image dimensions exceed the 50 megapixel limit")
	}

	img, err := imaging.Decode(bytes.NewReader(u.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Wrap(apperr.UnsupportedMediaType, "File is not a readable image", err)
	}

	filename := fmt.Sprintf("%d-%s.jpg", time.Now().UnixMilli(), uuid.NewString())
	fullPath := filepath.Join(p.photoDir, filename)
	thumbPath := filepath.Join(p.thumbDir, ThumbPrefix+filename)

	// Fit leaves images that already fit untouched
	full := imaging.Fit(img, MaxWidth, MaxHeight, imaging.Lanczos)
	if err := imaging.Save(full, fullPath, imaging.JPEGQuality(FullQuality)); err != nil {
		removeQuietly(fullPath)
		return nil, fmt.Errorf("failed to write photo: %w", err)
	}

	thumb := imaging.Fill(img, ThumbSize, ThumbSize, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, thumbPath, imaging.JPEGQuality(ThumbQuality)); err != nil {
		removeQuietly(thumbPath)
		removeQuietly(fullPath)
		return nil, fmt.Errorf("failed to write thumbnail: %w", err)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		removeQuietly(thumbPath)
		removeQuietly(fullPath)
		return nil, fmt.Errorf("failed to stat photo: %w", err)
	}

	return &Processed{Filename: filename, Size: info.Size()}, nil
}

// Remove deletes a photo and its thumbnail. Missing files are not an error.
func (p *Processor) Remove(filename string) error {
	var errs []error
	for _, path := range []string{
		filepath.Join(p.photoDir, filename),
		filepath.Join(p.thumbDir, ThumbPrefix+filename),
	} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PhotoPath resolves a stored photo name to its path on disk.
func (p *Processor) PhotoPath(filename string) (string, error) {
	if err := checkFilename(filename); err != nil {
		return "", err
	}
	return filepath.Join(p.photoDir, filename), nil
}

// ThumbnailPath resolves a thumbnail name (with its thumb- prefix) to its
// path on disk.
func (p *Processor) ThumbnailPath(name string) (string, error) {
	if err := checkFilename(name); err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, ThumbPrefix) {
		return "", apperr.New(apperr.NotFound, "Thumbnail not found")
	}
	return filepath.Join(p.thumbDir, name), nil
}

// checkUpload enforces size and media type. A missing or generic declared
// type falls back to sniffing the content.
func checkUpload(u Upload) error {
	if len(u.Data) == 0 {
		return apperr.New(apperr.Validation, "File is empty")
	}
	if len(u.Data) > MaxFileSize {
		return apperr.New(apperr.Validation, "File exceeds the 10 MB limit")
	}

	contentType := u.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(u.Data).String()
	}
	if !strings.HasPrefix(contentType, "image/") {
		return apperr.New(apperr.UnsupportedMediaType, "Only image files can be uploaded")
	}
	return nil
}

func checkFilename(name string) error {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return apperr.New(apperr.Validation, "Invalid filename")
	}
	return nil
}

func removeQuietly(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to remove file", "path", path, "error", err)
	}
}
