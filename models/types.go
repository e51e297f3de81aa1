// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Travel status constants
const (
	StatusPlanning  = "planning"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
)

// Group role constants
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Place category constants
const (
	CategoryAttraction    = "attraction"
	CategoryRestaurant    = "restaurant"
	CategoryAccommodation = "accommodation"
	CategoryShopping      = "shopping"
	CategoryActivity      = "activity"
)

// Date and time-of-day layouts used for itinerary scheduling
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Domain types

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never expose in JSON
	Name         string    `json:"name" db:"name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type Group struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatorID   string    `json:"creator_id" db:"creator_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type GroupMember struct {
	ID        string    `json:"id" db:"id"`
	GroupID   string    `json:"group_id" db:"group_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
	UserName  string    `json:"user_name" db:"user_name"`
	UserEmail string    `json:"user_email" db:"user_email"`
}

type GroupWithMembers struct {
	Group
	Members []GroupMember `json:"members"`
}

type Travel struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	StartDate   string    `json:"start_date" db:"start_date"`
	EndDate     string    `json:"end_date" db:"end_date"`
	Status      string    `json:"status" db:"status"`
	Budget      float64   `json:"budget" db:"budget"`
	CoverImage  *string   `json:"cover_image,omitempty" db:"cover_image"`
	UserID      string    `json:"user_id" db:"user_id"`
	GroupID     *string   `json:"group_id,omitempty" db:"group_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Itinerary struct {
	ID            string    `json:"id" db:"id"`
	TravelID      string    `json:"travel_id" db:"travel_id"`
	Date          string    `json:"date" db:"date"`
	OrderIndex    int       `json:"order_index" db:"order_index"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description,omitempty" db:"description"`
	StartTime     *string   `json:"start_time,omitempty" db:"start_time"`
	EndTime       *string   `json:"end_time,omitempty" db:"end_time"`
	EstimatedCost float64   `json:"estimated_cost" db:"estimated_cost"`
	ActualCost    float64   `json:"actual_cost" db:"actual_cost"`
	IsCompleted   bool      `json:"is_completed" db:"is_completed"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	Latitude      *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64  `json:"longitude,omitempty" db:"longitude"`
	LocationName  *string   `json:"location_name,omitempty" db:"location_name"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// PlaceSummary is the subset of a Place embedded in itinerary place links.
type PlaceSummary struct {
	ID        string   `json:"id" db:"id"`
	Name      string   `json:"name" db:"name"`
	Address   *string  `json:"address,omitempty" db:"address"`
	Category  string   `json:"category" db:"category"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
}

type ItineraryPlace struct {
	ID            string       `json:"id" db:"id"`
	ItineraryID   string       `json:"itinerary_id" db:"itinerary_id"`
	PlaceID       string       `json:"place_id" db:"place_id"`
	OrderIndex    int          `json:"order_index" db:"order_index"`
	ArrivalTime   *string      `json:"arrival_time,omitempty" db:"arrival_time"`
	DepartureTime *string      `json:"departure_time,omitempty" db:"departure_time"`
	ActualCost    *float64     `json:"actual_cost,omitempty" db:"actual_cost"`
	Rating        *int         `json:"rating,omitempty" db:"rating"`
	Review        *string      `json:"review,omitempty" db:"review"`
	CreatedAt     time.Time    `json:"created_at" db:"created_at"`
	Place         PlaceSummary `json:"place" db:"place"`
}

type Place struct {
	ID             string    `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Address        *string   `json:"address,omitempty" db:"address"`
	Category       string    `json:"category" db:"category"`
	Latitude       *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64  `json:"longitude,omitempty" db:"longitude"`
	Phone          *string   `json:"phone,omitempty" db:"phone"`
	Website        *string   `json:"website,omitempty" db:"website"`
	OperatingHours *string   `json:"operating_hours,omitempty" db:"operating_hours"`
	AverageCost    *float64  `json:"average_cost,omitempty" db:"average_cost"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

type Photo struct {
	ID           string     `json:"id" db:"id"`
	TravelID     string     `json:"travel_id" db:"travel_id"`
	PlaceID      *string    `json:"place_id,omitempty" db:"place_id"`
	Filename     string     `json:"filename" db:"filename"`
	OriginalName string     `json:"original_name" db:"original_name"`
	Size         int64      `json:"size" db:"size"`
	TakenAt      *time.Time `json:"taken_at,omitempty" db:"taken_at"`
	Latitude     *float64   `json:"latitude,omitempty" db:"latitude"`
	Longitude    *float64   `json:"longitude,omitempty" db:"longitude"`
	Caption      *string    `json:"caption,omitempty" db:"caption"`
	UploadDate   time.Time  `json:"upload_date" db:"upload_date"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
