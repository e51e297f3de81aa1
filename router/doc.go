// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the travel planner API.

# Route Registration

NewRouter builds the ServeMux and wraps it in CORS:

	handler := router.NewRouter(pool, cfg)

# Endpoints

Public:

	GET  /health
	POST /api/auth/register
	POST /api/auth/login

Everything else needs a bearer token:

	GET /api/auth/me
	GET /api/users?email=

	GET, POST          /api/groups
	GET, PUT, DELETE   /api/groups/{id}
	GET, POST          /api/groups/{id}/members
	DELETE             /api/groups/{id}/members/{userId}
	PUT                /api/groups/{id}/members/{userId}/role

	GET, POST          /api/travels
	GET, PUT, DELETE   /api/travels/{id}

	POST               /api/itineraries
	GET                /api/itineraries/travel/{travelId}
	GET, PUT, DELETE   /api/itineraries/{id}
	GET, POST          /api/itineraries/{id}/places
	PUT, DELETE        /api/itineraries/{id}/places/{linkId}

	POST               /api/photos/upload/{travelId}
	GET                /api/photos/travel/{travelId}
	GET                /api/photos/place/{placeId}
	GET                /api/photos/file/{filename}
	GET                /api/photos/thumbnail/{filename}
	GET, PUT, DELETE   /api/photos/{id}

	GET, POST          /api/places
	GET, PUT, DELETE   /api/places/{id}

The two nested itinerary GETs overlap as ServeMux patterns, so both are
registered as GET /api/itineraries/{id}/{sub} and split by the handler.
*/
package router
