// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

Rows as stored in the database (sqlx `db` tags) and returned as JSON:

  - User: account with bcrypt password hash (never serialized)
  - Group, GroupMember, GroupWithMembers: travel groups and roles
  - Travel: a trip, personal or shared with a group
  - Itinerary: a dated entry within a travel
  - ItineraryPlace: link between an itinerary entry and a catalog place
  - Place: shared point-of-interest catalog entry
  - Photo: uploaded image metadata

# Request Types

Create requests carry `validate` tags checked at the HTTP boundary:

  - RegisterRequest, LoginRequest
  - CreateGroupRequest, InviteMemberRequest, UpdateMemberRoleRequest
  - CreateTravelRequest, CreateItineraryRequest, AddItineraryPlaceRequest
  - CreatePlaceRequest

Updates use patch structs whose pointer fields are nil when absent:

  - GroupPatch, TravelPatch, ItineraryPatch, ItineraryPlacePatch,
    PlacePatch, PhotoPatch

Only fields set in a patch are written; everything else keeps its value.

# Constants

Travel status:

	StatusPlanning  = "planning"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"

Group roles:

	RoleAdmin  = "admin"
	RoleMember = "member"

Place categories: attraction, restaurant, accommodation, shopping, activity.

Dates use DateLayout (2006-01-02); times of day use TimeLayout (15:04).
*/
package models
