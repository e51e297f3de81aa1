// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
)

// ItineraryStore holds the dated entries of a travel and the catalog places
// attached to each entry.
type ItineraryStore struct {
	pool *db.Pool
}

func NewItineraryStore(pool *db.Pool) *ItineraryStore {
	return &ItineraryStore{pool: pool}
}

const itineraryColumns = `id, travel_id, date, order_index, title, description, start_time, end_time,
	estimated_cost, actual_cost, is_completed, notes, latitude, longitude, location_name, created_at, updated_at`

const itineraryPlaceColumns = `ip.id, ip.itinerary_id, ip.place_id, ip.order_index, ip.arrival_time,
	ip.departure_time, ip.actual_cost, ip.rating, ip.review, ip.created_at,
	p.id AS "place.id", p.name AS "place.name", p.address AS "place.address",
	p.category AS "place.category", p.latitude AS "place.latitude", p.longitude AS "place.longitude"`

// Create adds an entry to a travel. The date must fall inside the travel's
// range; order_index is stored as given.
func (s *ItineraryStore) Create(ctx context.Context, req models.CreateItineraryRequest) (*models.Itinerary, error) {
	if req.Title == "" {
		return nil, apperr.New(apperr.Validation, "Title is required")
	}
	if req.Date == "" {
		return nil, apperr.New(apperr.Validation, "Date is required")
	}
	d, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	start, err := optionalTime("start_time", req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := optionalTime("end_time", req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := checkTimeOrder("start_time", start, "end_time", end); err != nil {
		return nil, err
	}
	if err := checkNonNegative("estimated_cost", req.EstimatedCost); err != nil {
		return nil, err
	}
	if err := checkNonNegative("actual_cost", req.ActualCost); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	ts := now()
	it := &models.Itinerary{
		ID:            id,
		TravelID:      req.TravelID,
		Date:          d.Format(models.DateLayout),
		OrderIndex:    req.OrderIndex,
		Title:         req.Title,
		Description:   emptyToNil(req.Description),
		StartTime:     start,
		EndTime:       end,
		EstimatedCost: req.EstimatedCost,
		ActualCost:    req.ActualCost,
		IsCompleted:   req.IsCompleted,
		Notes:         emptyToNil(req.Notes),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		LocationName:  emptyToNil(req.LocationName),
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	err = s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		travel, err := loadTravel(ctx, tx, s.pool, req.TravelID)
		if err != nil {
			return err
		}
		if err := checkWithinTravel(it.Date, travel); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO itinerary (`+itineraryColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), it.ID, it.TravelID, it.Date, it.OrderIndex, it.Title, it.Description, it.StartTime, it.EndTime,
			it.EstimatedCost, it.ActualCost, it.IsCompleted, it.Notes, it.Latitude, it.Longitude, it.LocationName,
			it.CreatedAt, it.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert itinerary: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ListByTravel returns a travel's entries ordered by date, then order_index,
// then creation time.
func (s *ItineraryStore) ListByTravel(ctx context.Context, travelID string) ([]models.Itinerary, error) {
	items := []models.Itinerary{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return sqlx.SelectContext(ctx, q, &items, s.pool.Rebind(`
			SELECT `+itineraryColumns+`
			FROM itinerary
			WHERE travel_id = ?
			ORDER BY date, order_index, created_at
		`), travelID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list itineraries: %w", err)
	}
	return items, nil
}

func (s *ItineraryStore) Get(ctx context.Context, id string) (*models.Itinerary, error) {
	var it *models.Itinerary
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		it, err = s.load(ctx, q, id)
		return err
	})
	return it, err
}

// Update merges patch into the stored entry. An empty start_time or end_time
// clears it.
func (s *ItineraryStore) Update(ctx context.Context, id string, patch models.ItineraryPatch) (*models.Itinerary, error) {
	var it *models.Itinerary
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}

		var set setList
		if patch.Date != nil {
			d, err := parseDate("date", *patch.Date)
			if err != nil {
				return err
			}
			travel, err := loadTravel(ctx, tx, s.pool, current.TravelID)
			if err != nil {
				return err
			}
			date := d.Format(models.DateLayout)
			if err := checkWithinTravel(date, travel); err != nil {
				return err
			}
			set.add("date", date)
		}
		if patch.OrderIndex != nil {
			set.add("order_index", *patch.OrderIndex)
		}
		if patch.Title != nil {
			if *patch.Title == "" {
				return apperr.New(apperr.Validation, "Title is required")
			}
			set.add("title", *patch.Title)
		}
		if patch.Description != nil {
			set.add("description", nullIfEmpty(patch.Description))
		}

		start, end := current.StartTime, current.EndTime
		if patch.StartTime != nil {
			if start, err = optionalTime("start_time", patch.StartTime); err != nil {
				return err
			}
			set.add("start_time", start)
		}
		if patch.EndTime != nil {
			if end, err = optionalTime("end_time", patch.EndTime); err != nil {
				return err
			}
			set.add("end_time", end)
		}
		if err := checkTimeOrder("start_time", start, "end_time", end); err != nil {
			return err
		}

		if patch.EstimatedCost != nil {
			if err := checkNonNegative("estimated_cost", *patch.EstimatedCost); err != nil {
				return err
			}
			set.add("estimated_cost", *patch.EstimatedCost)
		}
		if patch.ActualCost != nil {
			if err := checkNonNegative("actual_cost", *patch.ActualCost); err != nil {
				return err
			}
			set.add("actual_cost", *patch.ActualCost)
		}
		if patch.IsCompleted != nil {
			set.add("is_completed", *patch.IsCompleted)
		}
		if patch.Notes != nil {
			set.add("notes", nullIfEmpty(patch.Notes))
		}
		if patch.Latitude != nil {
			set.add("latitude", *patch.Latitude)
		}
		if patch.Longitude != nil {
			set.add("longitude", *patch.Longitude)
		}
		if patch.LocationName != nil {
			set.add("location_name", nullIfEmpty(patch.LocationName))
		}
		set.add("updated_at", now())

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`UPDATE itinerary SET `+set.clause()+` WHERE id = ?`),
			append(set.args, id)...)
		if err != nil {
			return fmt.Errorf("failed to update itinerary: %w", err)
		}

		it, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

// Delete removes an entry and its place links.
func (s *ItineraryStore) Delete(ctx context.Context, id string) error {
	return s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if _, err := tx.ExecContext(ctx, s.pool.Rebind(`DELETE FROM itinerary_place WHERE itinerary_id = ?`), id); err != nil {
			return fmt.Errorf("failed to delete itinerary places: %w", err)
		}
		res, err := tx.ExecContext(ctx, s.pool.Rebind(`DELETE FROM itinerary WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete itinerary: %w", err)
		}
		return affectedOne(res, "Itinerary not found")
	})
}

// AddPlace links a catalog place to an entry. The same place may be linked
// more than once.
func (s *ItineraryStore) AddPlace(ctx context.Context, itineraryID string, req models.AddItineraryPlaceRequest) (*models.ItineraryPlace, error) {
	if req.PlaceID == "" {
		return nil, apperr.New(apperr.Validation, "Place ID is required")
	}
	arrival, err := optionalTime("arrival_time", req.ArrivalTime)
	if err != nil {
		return nil, err
	}
	departure, err := optionalTime("departure_time", req.DepartureTime)
	if err != nil {
		return nil, err
	}
	if err := checkTimeOrder("arrival_time", arrival, "departure_time", departure); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	var link *models.ItineraryPlace
	err = s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if _, err := s.load(ctx, tx, itineraryID); err != nil {
			return err
		}
		var places int
		err := tx.QueryRowxContext(ctx, s.pool.Rebind(`SELECT COUNT(*) FROM place WHERE id = ?`), req.PlaceID).Scan(&places)
		if err != nil {
			return fmt.Errorf("failed to look up place: %w", err)
		}
		if places == 0 {
			return apperr.New(apperr.NotFound, "Place not found")
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO itinerary_place (id, itinerary_id, place_id, order_index, arrival_time, departure_time, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), id, itineraryID, req.PlaceID, req.OrderIndex, arrival, departure, now())
		if err != nil {
			return fmt.Errorf("failed to insert itinerary place: %w", err)
		}

		link, err = s.loadLink(ctx, tx, itineraryID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// ListPlaces returns an entry's place links in order_index order, each with
// a summary of the linked place.
func (s *ItineraryStore) ListPlaces(ctx context.Context, itineraryID string) ([]models.ItineraryPlace, error) {
	links := []models.ItineraryPlace{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return sqlx.SelectContext(ctx, q, &links, s.pool.Rebind(`
			SELECT `+itineraryPlaceColumns+`
			FROM itinerary_place ip
			JOIN place p ON p.id = ip.place_id
			WHERE ip.itinerary_id = ?
			ORDER BY ip.order_index, ip.created_at
		`), itineraryID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list itinerary places: %w", err)
	}
	return links, nil
}

// UpdatePlace applies a patch to one link of itineraryID.
func (s *ItineraryStore) UpdatePlace(ctx context.Context, itineraryID, linkID string, patch models.ItineraryPlacePatch) (*models.ItineraryPlace, error) {
	var link *models.ItineraryPlace
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		current, err := s.loadLink(ctx, tx, itineraryID, linkID)
		if err != nil {
			return err
		}

		var set setList
		if patch.OrderIndex != nil {
			set.add("order_index", *patch.OrderIndex)
		}
		arrival, departure := current.ArrivalTime, current.DepartureTime
		if patch.ArrivalTime != nil {
			if arrival, err = optionalTime("arrival_time", patch.ArrivalTime); err != nil {
				return err
			}
			set.add("arrival_time", arrival)
		}
		if patch.DepartureTime != nil {
			if departure, err = optionalTime("departure_time", patch.DepartureTime); err != nil {
				return err
			}
			set.add("departure_time", departure)
		}
		if err := checkTimeOrder("arrival_time", arrival, "departure_time", departure); err != nil {
			return err
		}
		if patch.ActualCost != nil {
			if err := checkNonNegative("actual_cost", *patch.ActualCost); err != nil {
				return err
			}
			set.add("actual_cost", *patch.ActualCost)
		}
		if patch.Rating != nil {
			if *patch.Rating < 1 || *patch.Rating > 5 {
				return apperr.New(apperr.Validation, "Rating must be between 1 and 5")
			}
			set.add("rating", *patch.Rating)
		}
		if patch.Review != nil {
			set.add("review", nullIfEmpty(patch.Review))
		}
		if len(set.cols) == 0 {
			link = current
			return nil
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`UPDATE itinerary_place SET `+set.clause()+` WHERE id = ?`),
			append(set.args, linkID)...)
		if err != nil {
			return fmt.Errorf("failed to update itinerary place: %w", err)
		}

		link, err = s.loadLink(ctx, tx, itineraryID, linkID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// RemovePlace deletes one link of itineraryID.
func (s *ItineraryStore) RemovePlace(ctx context.Context, itineraryID, linkID string) error {
	return s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		res, err := q.ExecContext(ctx, s.pool.Rebind(`DELETE FROM itinerary_place WHERE id = ? AND itinerary_id = ?`),
			linkID, itineraryID)
		if err != nil {
			return fmt.Errorf("failed to remove itinerary place: %w", err)
		}
		return affectedOne(res, "Itinerary place not found")
	})
}

func (s *ItineraryStore) load(ctx context.Context, q db.Querier, id string) (*models.Itinerary, error) {
	var it models.Itinerary
	err := get(ctx, q, &it, "Itinerary not found", s.pool.Rebind(`
		SELECT `+itineraryColumns+` FROM itinerary WHERE id = ?
	`), id)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (s *ItineraryStore) loadLink(ctx context.Context, q db.Querier, itineraryID, linkID string) (*models.ItineraryPlace, error) {
	var link models.ItineraryPlace
	err := get(ctx, q, &link, "Itinerary place not found", s.pool.Rebind(`
		SELECT `+itineraryPlaceColumns+`
		FROM itinerary_place ip
		JOIN place p ON p.id = ip.place_id
		WHERE ip.id = ? AND ip.itinerary_id = ?
	`), linkID, itineraryID)
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func checkWithinTravel(date string, travel *models.Travel) error {
	if date < travel.StartDate || date > travel.EndDate {
		return apperr.New(apperr.Validation, "Date must fall within the travel's dates")
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
