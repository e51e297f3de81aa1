// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/travel-planner/access"
	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/photos"
	"github.com/danielhkuo/travel-planner/store"
)

type TravelHandler struct {
	travels *store.TravelStore
	gate    *access.Gate
	photos  *photos.Service
	cfg     cliparse.Config
}

func NewTravelHandler(pool *db.Pool, cfg cliparse.Config) *TravelHandler {
	travels := store.NewTravelStore(pool)
	return &TravelHandler{
		travels: travels,
		gate:    access.NewGate(travels, store.NewGroupStore(pool)),
		photos:  photos.NewService(store.NewPhotoStore(pool), photos.NewProcessor(cfg.UploadDir)),
		cfg:     cfg,
	}
}

// ListTravels handles GET /api/travels
func (h *TravelHandler) ListTravels(w http.ResponseWriter, r *http.Request) {
	travels, err := h.travels.List(r.Context(), middleware.UserID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, travels)
}

// CreateTravel handles POST /api/travels
func (h *TravelHandler) CreateTravel(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTravelRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	userID := middleware.UserID(r)
	travel, err := h.travels.Create(r.Context(), userID, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("travel created", "travel_id", travel.ID, "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateTravelResponse{
		Message:  "Travel created successfully",
		TravelID: travel.ID,
		Travel:   *travel,
	})
}

// GetTravel handles GET /api/travels/{id}
func (h *TravelHandler) GetTravel(w http.ResponseWriter, r *http.Request) {
	travel, err := h.gate.Authorize(r.Context(), r.PathValue("id"), middleware.UserID(r), access.Read)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, travel)
}

// UpdateTravel handles PUT /api/travels/{id}
func (h *TravelHandler) UpdateTravel(w http.ResponseWriter, r *http.Request) {
	var patch models.TravelPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	travelID := r.PathValue("id")
	userID := middleware.UserID(r)
	if _, err := h.gate.Authorize(r.Context(), travelID, userID, access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	travel, err := h.travels.Update(r.Context(), travelID, userID, patch)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, travel)
}

// DeleteTravel handles DELETE /api/travels/{id}. Rows go first in one
// transaction; photo files are removed afterwards.
func (h *TravelHandler) DeleteTravel(w http.ResponseWriter, r *http.Request) {
	travelID := r.PathValue("id")
	userID := middleware.UserID(r)
	if _, err := h.gate.Authorize(r.Context(), travelID, userID, access.Delete); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	filenames, err := h.travels.Delete(r.Context(), travelID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	h.photos.RemoveFiles(filenames)

	slog.Info("travel deleted", "travel_id", travelID, "user_id", userID, "photos", len(filenames))
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Travel deleted successfully"})
}
