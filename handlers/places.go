// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/store"
)

// PlaceHandler serves the shared place catalog. Any authenticated user may
// read and edit it.
type PlaceHandler struct {
	places *store.PlaceStore
	cfg    cliparse.Config
}

func NewPlaceHandler(pool *db.Pool, cfg cliparse.Config) *PlaceHandler {
	return &PlaceHandler{places: store.NewPlaceStore(pool), cfg: cfg}
}

// SearchPlaces handles GET /api/places?search=
func (h *PlaceHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	places, err := h.places.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, places)
}

// CreatePlace handles POST /api/places
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePlaceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	place, err := h.places.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("place created", "place_id", place.ID, "user_id", middleware.UserID(r))

	middleware.JSONResponse(w, http.StatusCreated, models.CreatePlaceResponse{
		Message: "Place created successfully",
		PlaceID: place.ID,
		Place:   *place,
	})
}

// GetPlace handles GET /api/places/{id}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	place, err := h.places.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, place)
}

// UpdatePlace handles PUT /api/places/{id}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var patch models.PlacePatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	place, err := h.places.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, place)
}

// DeletePlace handles DELETE /api/places/{id}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID := r.PathValue("id")
	if err := h.places.Delete(r.Context(), placeID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("place deleted", "place_id", placeID, "user_id", middleware.UserID(r))
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Place deleted successfully"})
}
