// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"

	"github.com/danielhkuo/travel-planner/access"
	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/store"
)

type ItineraryHandler struct {
	itineraries *store.ItineraryStore
	gate        *access.Gate
	cfg         cliparse.Config
}

func NewItineraryHandler(pool *db.Pool, cfg cliparse.Config) *ItineraryHandler {
	return &ItineraryHandler{
		itineraries: store.NewItineraryStore(pool),
		gate:        access.NewGate(store.NewTravelStore(pool), store.NewGroupStore(pool)),
		cfg:         cfg,
	}
}

// authorizeItinerary loads an itinerary and checks action on its travel.
func (h *ItineraryHandler) authorizeItinerary(ctx context.Context, id, userID string, action access.Action) (*models.Itinerary, error) {
	it, err := h.itineraries.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := h.gate.Authorize(ctx, it.TravelID, userID, action); err != nil {
		return nil, err
	}
	return it, nil
}

// CreateItinerary handles POST /api/itineraries
func (h *ItineraryHandler) CreateItinerary(w http.ResponseWriter, r *http.Request) {
	var req models.CreateItineraryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if _, err := h.gate.Authorize(r.Context(), req.TravelID, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	it, err := h.itineraries.Create(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateItineraryResponse{
		Message:     "Itinerary created successfully",
		ItineraryID: it.ID,
		Itinerary:   *it,
	})
}

// GetNested handles GET /api/itineraries/{id}/{sub}, which serves both
// /api/itineraries/travel/{travelId} and /api/itineraries/{id}/places.
func (h *ItineraryHandler) GetNested(w http.ResponseWriter, r *http.Request) {
	id, sub := r.PathValue("id"), r.PathValue("sub")
	switch {
	case id == "travel":
		h.listByTravel(w, r, sub)
	case sub == "places":
		h.listPlaces(w, r, id)
	default:
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
	}
}

func (h *ItineraryHandler) listByTravel(w http.ResponseWriter, r *http.Request, travelID string) {
	if _, err := h.gate.Authorize(r.Context(), travelID, middleware.UserID(r), access.Read); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	items, err := h.itineraries.ListByTravel(r.Context(), travelID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, items)
}

func (h *ItineraryHandler) listPlaces(w http.ResponseWriter, r *http.Request, itineraryID string) {
	if _, err := h.authorizeItinerary(r.Context(), itineraryID, middleware.UserID(r), access.Read); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	links, err := h.itineraries.ListPlaces(r.Context(), itineraryID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, links)
}

// GetItinerary handles GET /api/itineraries/{id}
func (h *ItineraryHandler) GetItinerary(w http.ResponseWriter, r *http.Request) {
	it, err := h.authorizeItinerary(r.Context(), r.PathValue("id"), middleware.UserID(r), access.Read)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, it)
}

// UpdateItinerary handles PUT /api/itineraries/{id}
func (h *ItineraryHandler) UpdateItinerary(w http.ResponseWriter, r *http.Request) {
	var patch models.ItineraryPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.authorizeItinerary(r.Context(), id, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	it, err := h.itineraries.Update(r.Context(), id, patch)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, it)
}

// DeleteItinerary handles DELETE /api/itineraries/{id}
func (h *ItineraryHandler) DeleteItinerary(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.authorizeItinerary(r.Context(), id, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := h.itineraries.Delete(r.Context(), id); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Itinerary deleted successfully"})
}

// AddPlace handles POST /api/itineraries/{id}/places
func (h *ItineraryHandler) AddPlace(w http.ResponseWriter, r *http.Request) {
	var req models.AddItineraryPlaceRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.authorizeItinerary(r.Context(), id, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	link, err := h.itineraries.AddPlace(r.Context(), id, req)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddItineraryPlaceResponse{
		Message:          "Place added to itinerary",
		ItineraryPlaceID: link.ID,
		ItineraryPlace:   *link,
	})
}

// UpdatePlace handles PUT /api/itineraries/{id}/places/{linkId}
func (h *ItineraryHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	var patch models.ItineraryPlacePatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	id := r.PathValue("id")
	if _, err := h.authorizeItinerary(r.Context(), id, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	link, err := h.itineraries.UpdatePlace(r.Context(), id, r.PathValue("linkId"), patch)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, link)
}

// RemovePlace handles DELETE /api/itineraries/{id}/places/{linkId}
func (h *ItineraryHandler) RemovePlace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.authorizeItinerary(r.Context(), id, middleware.UserID(r), access.Write); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	if err := h.itineraries.RemovePlace(r.Context(), id, r.PathValue("linkId")); err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Place removed from itinerary"})
}
