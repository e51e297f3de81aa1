// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the travel planner API.

# Handler Types

Each handler is a struct built from the shared pool and config:

  - AuthHandler: registration, login, current user, user lookup
  - GroupHandler: groups and their members
  - TravelHandler: travels, gated by owner and group membership
  - ItineraryHandler: itinerary entries and the places linked to them
  - PlaceHandler: the shared place directory
  - PhotoHandler: multipart upload, metadata, authorized file serving

Handlers are created via constructor functions that accept *db.Pool and Config:

	travelHandler := handlers.NewTravelHandler(pool, cfg)

# Authentication

Every handler except Register and Login expects to run behind
middleware.RequireAuth and reads the caller with middleware.UserID.

# Access Control

Anything scoped to a travel goes through access.Gate first. Owners may do
anything; group members may read and write; deleting a travel also needs the
group admin role. Itinerary, link and photo routes resolve their travel before
asking the gate.

# Errors

Stores return *apperr.Error values. Handlers pass them to
middleware.WriteError, which picks the status code from the error kind.

# Photo Uploads

	POST /api/photos/upload/{travelId}

Takes up to 10 "photos" file parts and optional "captions" values. Files are
stored or rejected one by one; the response lists both. If nothing could be
stored, the first failure decides the status (for example 415 for a file
that is not an image).
*/
package handlers
