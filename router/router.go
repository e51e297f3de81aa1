// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/handlers"
	"github.com/danielhkuo/travel-planner/middleware"
)

func NewRouter(pool *db.Pool, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(pool, cfg)
	groupHandler := handlers.NewGroupHandler(pool, cfg)
	travelHandler := handlers.NewTravelHandler(pool, cfg)
	itineraryHandler := handlers.NewItineraryHandler(pool, cfg)
	placeHandler := handlers.NewPlaceHandler(pool, cfg)
	photoHandler := handlers.NewPhotoHandler(pool, cfg)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret)
	public := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(h))
	}
	private := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(requireAuth(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Identity
	public("POST /api/auth/register", authHandler.Register)
	public("POST /api/auth/login", authHandler.Login)
	private("GET /api/auth/me", authHandler.Me)
	private("GET /api/users", authHandler.LookupUser)

	// Groups
	private("GET /api/groups", groupHandler.ListGroups)
	private("POST /api/groups", groupHandler.CreateGroup)
	private("GET /api/groups/{id}", groupHandler.GetGroup)
	private("PUT /api/groups/{id}", groupHandler.UpdateGroup)
	private("DELETE /api/groups/{id}", groupHandler.DeleteGroup)
	private("GET /api/groups/{id}/members", groupHandler.ListMembers)
	private("POST /api/groups/{id}/members", groupHandler.InviteMember)
	private("DELETE /api/groups/{id}/members/{userId}", groupHandler.RemoveMember)
	private("PUT /api/groups/{id}/members/{userId}/role", groupHandler.UpdateMemberRole)

	// Travels
	private("GET /api/travels", travelHandler.ListTravels)
	private("POST /api/travels", travelHandler.CreateTravel)
	private("GET /api/travels/{id}", travelHandler.GetTravel)
	private("PUT /api/travels/{id}", travelHandler.UpdateTravel)
	private("DELETE /api/travels/{id}", travelHandler.DeleteTravel)

	// Itineraries. "travel/{travelId}" and "{id}/places" overlap as
	// patterns, so both GETs go through one dispatcher.
	private("POST /api/itineraries", itineraryHandler.CreateItinerary)
	private("GET /api/itineraries/{id}", itineraryHandler.GetItinerary)
	private("PUT /api/itineraries/{id}", itineraryHandler.UpdateItinerary)
	private("DELETE /api/itineraries/{id}", itineraryHandler.DeleteItinerary)
	private("GET /api/itineraries/{id}/{sub}", itineraryHandler.GetNested)
	private("POST /api/itineraries/{id}/places", itineraryHandler.AddPlace)
	private("PUT /api/itineraries/{id}/places/{linkId}", itineraryHandler.UpdatePlace)
	private("DELETE /api/itineraries/{id}/places/{linkId}", itineraryHandler.RemovePlace)

	// Photos
	private("POST /api/photos/upload/{travelId}", photoHandler.UploadPhotos)
	private("GET /api/photos/travel/{travelId}", photoHandler.ListByTravel)
	private("GET /api/photos/place/{placeId}", photoHandler.ListByPlace)
	private("GET /api/photos/file/{filename}", photoHandler.ServeFile)
	private("GET /api/photos/thumbnail/{filename}", photoHandler.ServeThumbnail)
	private("GET /api/photos/{id}", photoHandler.GetPhoto)
	private("PUT /api/photos/{id}", photoHandler.UpdatePhoto)
	private("DELETE /api/photos/{id}", photoHandler.DeletePhoto)

	// Places
	private("GET /api/places", placeHandler.SearchPlaces)
	private("POST /api/places", placeHandler.CreatePlace)
	private("GET /api/places/{id}", placeHandler.GetPlace)
	private("PUT /api/places/{id}", placeHandler.UpdatePlace)
	private("DELETE /api/places/{id}", placeHandler.DeletePlace)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("travel-planner API v1"))
	})

	return middleware.CORS(cfg.FrontendURL)(mux)
}
