// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(ctx context.Context, p *Pool) error {
	for i, stmt := range schema {
		if _, err := p.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema (statement %d): %w", i, err)
		}
	}

	return nil
}

// Statements are kept portable between PostgreSQL and SQLite: no serial
// columns, no dialect-specific functions, timestamps supplied by the caller.
var schema = []string{
	// Users
	`CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	// Groups
	`CREATE TABLE IF NOT EXISTS travel_group (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    description TEXT,
    creator_id TEXT NOT NULL REFERENCES app_user(id),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,

	`CREATE TABLE IF NOT EXISTS group_member (
    id TEXT PRIMARY KEY,
    group_id TEXT NOT NULL REFERENCES travel_group(id) ON DELETE CASCADE,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
    joined_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE (group_id, user_id)
)`,
	`CREATE INDEX IF NOT EXISTS idx_group_member_user_id ON group_member(user_id)`,

	// Travels
	`CREATE TABLE IF NOT EXISTS travel (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    start_date TEXT NOT NULL,
    end_date TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'planning' CHECK (status IN ('planning', 'ongoing', 'completed')),
    budget DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (budget >= 0),
    cover_image TEXT,
    user_id TEXT NOT NULL REFERENCES app_user(id),
    group_id TEXT REFERENCES travel_group(id) ON DELETE SET NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (start_date <= end_date)
)`,
	`CREATE INDEX IF NOT EXISTS idx_travel_user_id ON travel(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_travel_group_id ON travel(group_id)`,

	// Places
	`CREATE TABLE IF NOT EXISTS place (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    address TEXT,
    category TEXT NOT NULL CHECK (category IN ('attraction', 'restaurant', 'accommodation', 'shopping', 'activity')),
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    phone TEXT,
    website TEXT,
    operating_hours TEXT,
    average_cost DOUBLE PRECISION,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_place_name ON place(name)`,

	// Itineraries
	`CREATE TABLE IF NOT EXISTS itinerary (
    id TEXT PRIMARY KEY,
    travel_id TEXT NOT NULL REFERENCES travel(id) ON DELETE CASCADE,
    date TEXT NOT NULL,
    order_index INTEGER NOT NULL DEFAULT 0,
    title TEXT NOT NULL,
    description TEXT,
    start_time TEXT,
    end_time TEXT,
    estimated_cost DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (estimated_cost >= 0),
    actual_cost DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (actual_cost >= 0),
    is_completed BOOLEAN NOT NULL DEFAULT FALSE,
    notes TEXT,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    location_name TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_itinerary_travel_order ON itinerary(travel_id, date, order_index)`,

	// Itinerary <-> place links (duplicates allowed)
	`CREATE TABLE IF NOT EXISTS itinerary_place (
    id TEXT PRIMARY KEY,
    itinerary_id TEXT NOT NULL REFERENCES itinerary(id) ON DELETE CASCADE,
    place_id TEXT NOT NULL REFERENCES place(id) ON DELETE CASCADE,
    order_index INTEGER NOT NULL DEFAULT 0,
    arrival_time TEXT,
    departure_time TEXT,
    actual_cost DOUBLE PRECISION,
    rating INTEGER CHECK (rating BETWEEN 1 AND 5),
    review TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_itinerary_place_itinerary_id ON itinerary_place(itinerary_id)`,

	// Photos
	`CREATE TABLE IF NOT EXISTS photo (
    id TEXT PRIMARY KEY,
    travel_id TEXT NOT NULL REFERENCES travel(id) ON DELETE CASCADE,
    place_id TEXT REFERENCES place(id) ON DELETE SET NULL,
    filename TEXT NOT NULL UNIQUE,
    original_name TEXT NOT NULL,
    size BIGINT NOT NULL,
    taken_at TIMESTAMP,
    latitude DOUBLE PRECISION,
    longitude DOUBLE PRECISION,
    caption TEXT,
    upload_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
	`CREATE INDEX IF NOT EXISTS idx_photo_travel_id ON photo(travel_id)`,
	`CREATE INDEX IF NOT EXISTS idx_photo_place_id ON photo(place_id)`,
}
