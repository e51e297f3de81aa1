// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/danielhkuo/travel-planner/access"
	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/photos"
	"github.com/danielhkuo/travel-planner/store"
)

// maxCaptionBytes bounds a single caption form value.
const maxCaptionBytes = 4 << 10

type PhotoHandler struct {
	photos *store.PhotoStore
	svc    *photos.Service
	gate   *access.Gate
	cfg    cliparse.Config
}

func NewPhotoHandler(pool *db.Pool, cfg cliparse.Config) *PhotoHandler {
	photoStore := store.NewPhotoStore(pool)
	return &PhotoHandler{
		photos: photoStore,
		svc:    photos.NewService(photoStore, photos.NewProcessor(cfg.UploadDir)),
		gate:   access.NewGate(store.NewTravelStore(pool), store.NewGroupStore(pool)),
		cfg:    cfg,
	}
}

// authorizePhoto checks action on the travel that owns photo.
func (h *PhotoHandler) authorizePhoto(ctx context.Context, photo *models.Photo, userID string, action access.Action) error {
	_, err := h.gate.Authorize(ctx, photo.TravelID, userID, action)
	return err
}

// UploadPhotos handles POST /api/photos/upload/{travelId}
//
// Expects multipart/form-data with up to 10 "photos" file parts and optional
// "captions" values matched to files by position. Each file is stored or
// rejected on its own.
func (h *PhotoHandler) UploadPhotos(w http.ResponseWriter, r *http.Request) {
	travelID := r.PathValue("travelId")
	if _, err := h.gate.Authorize(r.Context(), travelID, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, photos.MaxFiles*(photos.MaxFileSize+1)+1<<20)
	uploads, captions, err := readUploads(r)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	stored, failed, firstErr := h.svc.IngestBatch(r.Context(), travelID, uploads, captions)
	if len(stored) == 0 {
		middleware.WriteError(w, r, firstErr)
		return
	}

	resp := models.UploadPhotosResponse{
		Message: fmt.Sprintf("%d photos uploaded", len(stored)),
		Photos:  make([]models.UploadedPhoto, 0, len(stored)),
		Failed:  failed,
	}
	for _, p := range stored {
		resp.Photos = append(resp.Photos, models.UploadedPhoto{
			ID:           p.ID,
			Filename:     p.Filename,
			OriginalName: p.OriginalName,
			Size:         p.Size,
			Caption:      p.Caption,
		})
	}
	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// readUploads buffers the "photos" parts and collects "captions" values. A
// file larger than the limit is buffered only up to one byte past it, which
// the processor then rejects.
func readUploads(r *http.Request) ([]photos.Upload, []string, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, nil, apperr.Wrap(apperr.Validation, "Expected multipart/form-data", err)
	}

	var uploads []photos.Upload
	var captions []string
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, apperr.Wrap(apperr.Validation, "Malformed multipart body", err)
		}

		switch part.FormName() {
		case "photos":
			if len(uploads) == photos.MaxFiles {
				part.Close()
				return nil, nil, apperr.New(apperr.Validation, fmt.Sprintf("At most %d files can be uploaded at once", photos.MaxFiles))
			}
			data, err := io.ReadAll(io.LimitReader(part, photos.MaxFileSize+1))
			if err != nil {
				part.Close()
				return nil, nil, apperr.Wrap(apperr.Validation, "Failed to read uploaded file", err)
			}
			uploads = append(uploads, photos.Upload{
				OriginalName: part.FileName(),
				ContentType:  part.Header.Get("Content-Type"),
				Data:         data,
			})
		case "captions":
			value, err := io.ReadAll(io.LimitReader(part, maxCaptionBytes))
			if err != nil {
				part.Close()
				return nil, nil, apperr.Wrap(apperr.Validation, "Failed to read caption", err)
			}
			captions = append(captions, strings.TrimSpace(string(value)))
		}
		part.Close()
	}

	if len(uploads) == 0 {
		return nil, nil, apperr.New(apperr.Validation, "No photos to upload")
	}
	return uploads, captions, nil
}

// ListByTravel handles GET /api/photos/travel/{travelId}
func (h *PhotoHandler) ListByTravel(w http.ResponseWriter, r *http.Request) {
	travelID := r.PathValue("travelId")
	if _, err := h.gate.Authorize(r.Context(), travelID, middleware.UserID(r), access.Read); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	list, err := h.photos.ListByTravel(r.Context(), travelID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// ListByPlace handles GET /api/photos/place/{placeId}. Only photos from
// travels the caller can read are returned.
func (h *PhotoHandler) ListByPlace(w http.ResponseWriter, r *http.Request) {
	list, err := h.photos.ListByPlaceForUser(r.Context(), r.PathValue("placeId"), middleware.UserID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, list)
}

// GetPhoto handles GET /api/photos/{id}
func (h *PhotoHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.photos.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if err := h.authorizePhoto(r.Context(), photo, middleware.UserID(r), access.Read); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, photo)
}

// UpdatePhoto handles PUT /api/photos/{id}
func (h *PhotoHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	var patch models.PhotoPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	photo, err := h.photos.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if err := h.authorizePhoto(r.Context(), photo, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	updated, err := h.photos.Update(r.Context(), photo.ID, patch)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// DeletePhoto handles DELETE /api/photos/{id}
func (h *PhotoHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	photo, err := h.photos.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if err := h.authorizePhoto(r.Context(), photo, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := h.svc.Delete(r.Context(), photo.ID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Photo deleted successfully"})
}

// ServeFile handles GET /api/photos/file/{filename}
func (h *PhotoHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	path, err := h.svc.Processor().PhotoPath(name)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.serve(w, r, name, path)
}

// ServeThumbnail handles GET /api/photos/thumbnail/{filename}, where
// filename carries the thumb- prefix.
func (h *PhotoHandler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	path, err := h.svc.Processor().ThumbnailPath(name)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.serve(w, r, strings.TrimPrefix(name, photos.ThumbPrefix), path)
}

// serve checks read access to the photo stored as filename and streams path.
func (h *PhotoHandler) serve(w http.ResponseWriter, r *http.Request, filename, path string) {
	photo, err := h.photos.GetByFilename(r.Context(), filename)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	if err := h.authorizePhoto(r.Context(), photo, middleware.UserID(r), access.Read); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=86400")
	http.ServeFile(w, r, path)
}
