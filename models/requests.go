// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Request types

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type CreateGroupRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
}

// GroupPatch lists the updatable group fields. Nil means "leave unchanged".
type GroupPatch struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// InviteMemberRequest identifies the invitee by user_id or, failing that, email.
type InviteMemberRequest struct {
	UserID string `json:"user_id" validate:"required_without=Email"`
	Email  string `json:"email" validate:"omitempty,email"`
	Role   string `json:"role"`
}

// UpdateMemberRoleRequest carries the new role. It is checked after the
// caller's admin rights, not by the validator.
type UpdateMemberRoleRequest struct {
	Role string `json:"role"`
}

type CreateTravelRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	StartDate   string   `json:"start_date" validate:"required"`
	EndDate     string   `json:"end_date" validate:"required"`
	Status      string   `json:"status" validate:"omitempty,oneof=planning ongoing completed"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
	CoverImage  *string  `json:"cover_image"`
	GroupID     *string  `json:"group_id"`
}

// TravelPatch lists the updatable travel fields. An empty GroupID detaches
// the travel from its group.
type TravelPatch struct {
	Title       *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	Status      *string  `json:"status" validate:"omitempty,oneof=planning ongoing completed"`
	Budget      *float64 `json:"budget" validate:"omitempty,gte=0"`
	CoverImage  *string  `json:"cover_image"`
	GroupID     *string  `json:"group_id"`
}

type CreateItineraryRequest struct {
	TravelID      string   `json:"travel_id" validate:"required"`
	Date          string   `json:"date" validate:"required"`
	OrderIndex    int      `json:"order_index"`
	Title         string   `json:"title" validate:"required,max=200"`
	Description   *string  `json:"description"`
	StartTime     *string  `json:"start_time"`
	EndTime       *string  `json:"end_time"`
	EstimatedCost float64  `json:"estimated_cost" validate:"gte=0"`
	ActualCost    float64  `json:"actual_cost" validate:"gte=0"`
	IsCompleted   bool     `json:"is_completed"`
	Notes         *string  `json:"notes"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,longitude"`
	LocationName  *string  `json:"location_name"`
}

// ItineraryPatch lists the updatable itinerary fields. An empty StartTime or
// EndTime clears the stored value.
type ItineraryPatch struct {
	Date          *string  `json:"date"`
	OrderIndex    *int     `json:"order_index"`
	Title         *string  `json:"title" validate:"omitempty,min=1,max=200"`
	Description   *string  `json:"description"`
	StartTime     *string  `json:"start_time"`
	EndTime       *string  `json:"end_time"`
	EstimatedCost *float64 `json:"estimated_cost" validate:"omitempty,gte=0"`
	ActualCost    *float64 `json:"actual_cost" validate:"omitempty,gte=0"`
	IsCompleted   *bool    `json:"is_completed"`
	Notes         *string  `json:"notes"`
	Latitude      *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude" validate:"omitempty,longitude"`
	LocationName  *string  `json:"location_name"`
}

type AddItineraryPlaceRequest struct {
	PlaceID       string  `json:"place_id" validate:"required"`
	OrderIndex    int     `json:"order_index"`
	ArrivalTime   *string `json:"arrival_time"`
	DepartureTime *string `json:"departure_time"`
}

type ItineraryPlacePatch struct {
	OrderIndex    *int     `json:"order_index"`
	ArrivalTime   *string  `json:"arrival_time"`
	DepartureTime *string  `json:"departure_time"`
	ActualCost    *float64 `json:"actual_cost" validate:"omitempty,gte=0"`
	Rating        *int     `json:"rating" validate:"omitempty,min=1,max=5"`
	Review        *string  `json:"review"`
}

type CreatePlaceRequest struct {
	Name           string   `json:"name" validate:"required,max=200"`
	Address        *string  `json:"address"`
	Category       string   `json:"category" validate:"required,oneof=attraction restaurant accommodation shopping activity"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
	Phone          *string  `json:"phone"`
	Website        *string  `json:"website"`
	OperatingHours *string  `json:"operating_hours"`
	AverageCost    *float64 `json:"average_cost" validate:"omitempty,gte=0"`
}

type PlacePatch struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Address        *string  `json:"address"`
	Category       *string  `json:"category" validate:"omitempty,oneof=attraction restaurant accommodation shopping activity"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,longitude"`
	Phone          *string  `json:"phone"`
	Website        *string  `json:"website"`
	OperatingHours *string  `json:"operating_hours"`
	AverageCost    *float64 `json:"average_cost" validate:"omitempty,gte=0"`
}

// PhotoPatch lists the updatable photo metadata. An empty PlaceID unlinks
// the photo from its place.
type PhotoPatch struct {
	Caption   *string    `json:"caption"`
	PlaceID   *string    `json:"place_id"`
	TakenAt   *time.Time `json:"taken_at"`
	Latitude  *float64   `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64   `json:"longitude" validate:"omitempty,longitude"`
}

// Response types

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type CreateTravelResponse struct {
	Message  string `json:"message"`
	TravelID string `json:"travelId"`
	Travel   Travel `json:"travel"`
}

type CreateItineraryResponse struct {
	Message     string    `json:"message"`
	ItineraryID string    `json:"itineraryId"`
	Itinerary   Itinerary `json:"itinerary"`
}

type AddItineraryPlaceResponse struct {
	Message          string         `json:"message"`
	ItineraryPlaceID string         `json:"itineraryPlaceId"`
	ItineraryPlace   ItineraryPlace `json:"itinerary_place"`
}

type CreatePlaceResponse struct {
	Message string `json:"message"`
	PlaceID string `json:"placeId"`
	Place   Place  `json:"place"`
}

type UploadedPhoto struct {
	ID           string  `json:"id"`
	Filename     string  `json:"filename"`
	OriginalName string  `json:"originalName"`
	Size         int64   `json:"size"`
	Caption      *string `json:"caption,omitempty"`
}

type FailedUpload struct {
	OriginalName string `json:"originalName"`
	Error        string `json:"error"`
}

type UploadPhotosResponse struct {
	Message string          `json:"message"`
	Photos  []UploadedPhoto `json:"photos"`
	Failed  []FailedUpload  `json:"failed"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
