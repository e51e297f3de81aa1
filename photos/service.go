// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package photos

import (
	"context"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/models"
)

// Repository is the part of the photo store the pipeline writes through.
type Repository interface {
	Create(ctx context.Context, photo *models.Photo) error
	Delete(ctx context.Context, id string) (*models.Photo, error)
}

// Service ties image processing to photo rows: a photo is either fully
// stored (both files and the row) or not at all.
type Service struct {
	repo Repository
	proc *Processor
}

func NewService(repo Repository, proc *Processor) *Service {
	return &Service{repo: repo, proc: proc}
}

func (s *Service) Processor() *Processor {
	return s.proc
}

// Ingest processes one upload and records it against travelID.
func (s *Service) Ingest(ctx context.Context, travelID string, u Upload, caption string) (*models.Photo, error) {
	processed, err := s.proc.Process(u)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		TravelID:     travelID,
		Filename:     processed.Filename,
		OriginalName: u.OriginalName,
		Size:         processed.Size,
	}
	if caption != "" {
		photo.Caption = &caption
	}

	if err := s.repo.Create(ctx, photo); err != nil {
		if rmErr := s.proc.Remove(processed.Filename); rmErr != nil {
			slog.Warn("failed to clean up photo files", "filename", processed.Filename, "error", rmErr)
		}
		return nil, err
	}

	slog.Info("photo stored",
		"travel_id", travelID,
		"filename", photo.Filename,
		"original_name", u.OriginalName,
		"received", humanize.Bytes(uint64(len(u.Data))),
		"stored", humanize.Bytes(uint64(photo.Size)),
	)
	return photo, nil
}

// IngestBatch ingests each upload independently. captions[i] belongs to
// uploads[i]; a single caption applies to every upload. The returned error is
// the first failure, if any, for callers that need a status when nothing was
// stored.
func (s *Service) IngestBatch(ctx context.Context, travelID string, uploads []Upload, captions []string) ([]models.Photo, []models.FailedUpload, error) {
	stored := []models.Photo{}
	failed := []models.FailedUpload{}
	var firstErr error

	for i, u := range uploads {
		caption := captionFor(captions, i)
		photo, err := s.Ingest(ctx, travelID, u, caption)
		if err != nil {
			if apperr.KindOf(err) == apperr.Internal {
				slog.Error("failed to ingest photo", "travel_id", travelID, "original_name", u.OriginalName, "error", err)
			}
			if firstErr == nil {
				firstErr = err
			}
			failed = append(failed, models.FailedUpload{
				OriginalName: u.OriginalName,
				Error:        apperr.MessageOf(err),
			})
			continue
		}
		stored = append(stored, *photo)
	}
	return stored, failed, firstErr
}

// Delete removes the row first, then both files.
func (s *Service) Delete(ctx context.Context, id string) error {
	photo, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.RemoveFiles([]string{photo.Filename})
	return nil
}

// RemoveFiles deletes stored files for rows that are already gone. Failures
// are logged, not returned.
func (s *Service) RemoveFiles(filenames []string) {
	for _, name := range filenames {
		if err := s.proc.Remove(name); err != nil {
			slog.Warn("failed to remove photo files", "filename", name, "error", err)
		}
	}
}

func captionFor(captions []string, i int) string {
	switch {
	case len(captions) == 1:
		return captions[0]
	case i < len(captions):
		return captions[i]
	}
	return ""
}
