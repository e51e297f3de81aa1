// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
)

// SearchLimit caps the number of places a non-empty search returns.
const SearchLimit = 20

// PlaceStore is the shared place catalog. Any authenticated user may read or
// edit it.
type PlaceStore struct {
	pool *db.Pool
}

func NewPlaceStore(pool *db.Pool) *PlaceStore {
	return &PlaceStore{pool: pool}
}

const placeColumns = `id, name, address, category, latitude, longitude, phone, website,
	operating_hours, average_cost, created_at, updated_at`

// Search matches query case-insensitively against name or address. An empty
// query lists the whole catalog.
func (s *PlaceStore) Search(ctx context.Context, query string) ([]models.Place, error) {
	places := []models.Place{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		if query == "" {
			return sqlx.SelectContext(ctx, q, &places, `SELECT `+placeColumns+` FROM place ORDER BY name`)
		}

		pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
		return sqlx.SelectContext(ctx, q, &places, s.pool.Rebind(`
			SELECT `+placeColumns+`
			FROM place
			WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(COALESCE(address, '')) LIKE ? ESCAPE '\'
			ORDER BY name
			LIMIT ?
		`), pattern, pattern, SearchLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search places: %w", err)
	}
	return places, nil
}

func (s *PlaceStore) Create(ctx context.Context, req models.CreatePlaceRequest) (*models.Place, error) {
	if req.Name == "" {
		return nil, apperr.New(apperr.Validation, "Name is required")
	}
	if err := checkCategory(req.Category); err != nil {
		return nil, err
	}
	if req.AverageCost != nil {
		if err := checkNonNegative("average_cost", *req.AverageCost); err != nil {
			return nil, err
		}
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	ts := now()
	place := &models.Place{
		ID:             id,
		Name:           req.Name,
		Address:        emptyToNil(req.Address),
		Category:       req.Category,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Phone:          emptyToNil(req.Phone),
		Website:        emptyToNil(req.Website),
		OperatingHours: emptyToNil(req.OperatingHours),
		AverageCost:    req.AverageCost,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}

	err = s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		_, err := q.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO place (`+placeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), place.ID, place.Name, place.Address, place.Category, place.Latitude, place.Longitude,
			place.Phone, place.Website, place.OperatingHours, place.AverageCost, place.CreatedAt, place.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert place: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

func (s *PlaceStore) Get(ctx context.Context, id string) (*models.Place, error) {
	var place *models.Place
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		place, err = s.load(ctx, q, id)
		return err
	})
	return place, err
}

func (s *PlaceStore) Update(ctx context.Context, id string, patch models.PlacePatch) (*models.Place, error) {
	var set setList
	if patch.Name != nil {
		if *patch.Name == "" {
			return nil, apperr.New(apperr.Validation, "Name is required")
		}
		set.add("name", *patch.Name)
	}
	if patch.Address != nil {
		set.add("address", nullIfEmpty(patch.Address))
	}
	if patch.Category != nil {
		if err := checkCategory(*patch.Category); err != nil {
			return nil, err
		}
		set.add("category", *patch.Category)
	}
	if patch.Latitude != nil {
		set.add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		set.add("longitude", *patch.Longitude)
	}
	if patch.Phone != nil {
		set.add("phone", nullIfEmpty(patch.Phone))
	}
	if patch.Website != nil {
		set.add("website", nullIfEmpty(patch.Website))
	}
	if patch.OperatingHours != nil {
		set.add("operating_hours", nullIfEmpty(patch.OperatingHours))
	}
	if patch.AverageCost != nil {
		if err := checkNonNegative("average_cost", *patch.AverageCost); err != nil {
			return nil, err
		}
		set.add("average_cost", *patch.AverageCost)
	}
	set.add("updated_at", now())

	var place *models.Place
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		res, err := tx.ExecContext(ctx, s.pool.Rebind(`UPDATE place SET `+set.clause()+` WHERE id = ?`),
			append(set.args, id)...)
		if err != nil {
			return fmt.Errorf("failed to update place: %w", err)
		}
		if err := affectedOne(res, "Place not found"); err != nil {
			return err
		}
		place, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return place, nil
}

// Delete removes a place together with its itinerary links. Photos tagged
// with the place keep existing, untagged.
func (s *PlaceStore) Delete(ctx context.Context, id string) error {
	return s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		stmts := []string{
			`DELETE FROM itinerary_place WHERE place_id = ?`,
			`UPDATE photo SET place_id = NULL WHERE place_id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, s.pool.Rebind(stmt), id); err != nil {
				return fmt.Errorf("failed to detach place: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, s.pool.Rebind(`DELETE FROM place WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete place: %w", err)
		}
		return affectedOne(res, "Place not found")
	})
}

func (s *PlaceStore) load(ctx context.Context, q db.Querier, id string) (*models.Place, error) {
	var place models.Place
	err := get(ctx, q, &place, "Place not found", s.pool.Rebind(`
		SELECT `+placeColumns+` FROM place WHERE id = ?
	`), id)
	if err != nil {
		return nil, err
	}
	return &place, nil
}

func checkCategory(category string) error {
	switch category {
	case models.CategoryAttraction, models.CategoryRestaurant, models.CategoryAccommodation,
		models.CategoryShopping, models.CategoryActivity:
		return nil
	}
	return apperr.New(apperr.Validation, "Category must be attraction, restaurant, accommodation, shopping or activity")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
