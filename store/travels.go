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

// TravelStore holds trips. Authorization is the caller's job (see
// access.Gate); the store only enforces data rules and group membership on
// group_id changes.
type TravelStore struct {
	pool *db.Pool
}

func NewTravelStore(pool *db.Pool) *TravelStore {
	return &TravelStore{pool: pool}
}

const travelColumns = `t.id, t.title, t.description, t.start_date, t.end_date, t.status, t.budget,
	t.cover_image, t.user_id, t.group_id, t.created_at, t.updated_at`

// Create inserts a travel owned by ownerID.
func (s *TravelStore) Create(ctx context.Context, ownerID string, req models.CreateTravelRequest) (*models.Travel, error) {
	if req.Title == "" {
		return nil, apperr.New(apperr.Validation, "Title is required")
	}
	start, end, err := checkTravelDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusPlanning
	}
	if err := checkStatus(status); err != nil {
		return nil, err
	}

	var budget float64
	if req.Budget != nil {
		budget = *req.Budget
	}
	if err := checkNonNegative("budget", budget); err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	ts := now()
	travel := &models.Travel{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		Budget:      budget,
		UserID:      ownerID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if req.CoverImage != nil && *req.CoverImage != "" {
		travel.CoverImage = req.CoverImage
	}
	if req.GroupID != nil && *req.GroupID != "" {
		travel.GroupID = req.GroupID
	}

	err = s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if travel.GroupID != nil {
			if err := s.requireMembership(ctx, tx, *travel.GroupID, ownerID); err != nil {
				return err
			}
		}

		_, err := tx.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO travel (id, title, description, start_date, end_date, status, budget,
				cover_image, user_id, group_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), travel.ID, travel.Title, travel.Description, travel.StartDate, travel.EndDate, travel.Status,
			travel.Budget, travel.CoverImage, travel.UserID, travel.GroupID, travel.CreatedAt, travel.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert travel: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return travel, nil
}

// List returns the travels userID owns or can see through a group, newest
// first. Each travel appears once.
func (s *TravelStore) List(ctx context.Context, userID string) ([]models.Travel, error) {
	travels := []models.Travel{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return sqlx.SelectContext(ctx, q, &travels, s.pool.Rebind(`
			SELECT `+travelColumns+`
			FROM travel t
			LEFT JOIN group_member gm ON gm.group_id = t.group_id AND gm.user_id = ?
			WHERE t.user_id = ? OR gm.user_id IS NOT NULL
			ORDER BY t.created_at DESC
		`), userID, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list travels: %w", err)
	}
	return travels, nil
}

func (s *TravelStore) Get(ctx context.Context, id string) (*models.Travel, error) {
	var travel *models.Travel
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		travel, err = s.load(ctx, q, id)
		return err
	})
	return travel, err
}

// Update merges patch into the stored travel. The merged record must still
// satisfy every create-time rule. Only the owner may change group_id.
func (s *TravelStore) Update(ctx context.Context, id, requesterID string, patch models.TravelPatch) (*models.Travel, error) {
	var travel *models.Travel
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		current, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}

		var set setList
		if patch.Title != nil {
			if *patch.Title == "" {
				return apperr.New(apperr.Validation, "Title is required")
			}
			set.add("title", *patch.Title)
		}
		if patch.Description != nil {
			set.add("description", *patch.Description)
		}

		start, end := current.StartDate, current.EndDate
		if patch.StartDate != nil {
			start = *patch.StartDate
		}
		if patch.EndDate != nil {
			end = *patch.EndDate
		}
		if patch.StartDate != nil || patch.EndDate != nil {
			start, end, err = checkTravelDates(start, end)
			if err != nil {
				return err
			}
			// Dates are stored as YYYY-MM-DD, so text comparison orders them
			var outside int
			err = tx.QueryRowxContext(ctx, s.pool.Rebind(`
				SELECT COUNT(*) FROM itinerary WHERE travel_id = ? AND (date < ? OR date > ?)
			`), id, start, end).Scan(&outside)
			if err != nil {
				return fmt.Errorf("failed to check itinerary dates: %w", err)
			}
			if outside > 0 {
				return apperr.New(apperr.Conflict, fmt.Sprintf("%d itinerary entries fall outside the new dates", outside))
			}
			set.add("start_date", start)
			set.add("end_date", end)
		}

		if patch.Status != nil {
			if err := checkStatus(*patch.Status); err != nil {
				return err
			}
			set.add("status", *patch.Status)
		}
		if patch.Budget != nil {
			if err := checkNonNegative("budget", *patch.Budget); err != nil {
				return err
			}
			set.add("budget", *patch.Budget)
		}
		if patch.CoverImage != nil {
			set.add("cover_image", nullIfEmpty(patch.CoverImage))
		}

		if patch.GroupID != nil && !sameGroup(current.GroupID, *patch.GroupID) {
			if requesterID != current.UserID {
				return apperr.New(apperr.Forbidden, "Only the owner can change the travel's group")
			}
			if *patch.GroupID != "" {
				if err := s.requireMembership(ctx, tx, *patch.GroupID, current.UserID); err != nil {
					return err
				}
			}
			set.add("group_id", nullIfEmpty(patch.GroupID))
		}

		set.add("updated_at", now())

		res, err := tx.ExecContext(ctx, s.pool.Rebind(`UPDATE travel SET `+set.clause()+` WHERE id = ?`),
			append(set.args, id)...)
		if err != nil {
			return fmt.Errorf("failed to update travel: %w", err)
		}
		if err := affectedOne(res, "Travel not found"); err != nil {
			return err
		}

		travel, err = s.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return travel, nil
}

// Delete removes a travel with its itineraries, place links and photo rows
// in one transaction. It returns the stored photo filenames so the caller can
// remove the files once the rows are gone.
func (s *TravelStore) Delete(ctx context.Context, id string) ([]string, error) {
	filenames := []string{}
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if _, err := s.load(ctx, tx, id); err != nil {
			return err
		}

		err := sqlx.SelectContext(ctx, tx, &filenames, s.pool.Rebind(`SELECT filename FROM photo WHERE travel_id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to list photos: %w", err)
		}

		stmts := []string{
			`DELETE FROM itinerary_place WHERE itinerary_id IN (SELECT id FROM itinerary WHERE travel_id = ?)`,
			`DELETE FROM itinerary WHERE travel_id = ?`,
			`DELETE FROM photo WHERE travel_id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, s.pool.Rebind(stmt), id); err != nil {
				return fmt.Errorf("failed to delete travel children: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, s.pool.Rebind(`DELETE FROM travel WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete travel: %w", err)
		}
		return affectedOne(res, "Travel not found")
	})
	if err != nil {
		return nil, err
	}
	return filenames, nil
}

func (s *TravelStore) load(ctx context.Context, q db.Querier, id string) (*models.Travel, error) {
	return loadTravel(ctx, q, s.pool, id)
}

func loadTravel(ctx context.Context, q db.Querier, pool *db.Pool, id string) (*models.Travel, error) {
	var travel models.Travel
	err := get(ctx, q, &travel, "Travel not found", pool.Rebind(`
		SELECT `+travelColumns+` FROM travel t WHERE t.id = ?
	`), id)
	if err != nil {
		return nil, err
	}
	return &travel, nil
}

func (s *TravelStore) requireMembership(ctx context.Context, q db.Querier, groupID, userID string) error {
	var groups int
	err := q.QueryRowxContext(ctx, s.pool.Rebind(`SELECT COUNT(*) FROM travel_group WHERE id = ?`), groupID).Scan(&groups)
	if err != nil {
		return fmt.Errorf("failed to look up group: %w", err)
	}
	if groups == 0 {
		return apperr.New(apperr.NotFound, "Group not found")
	}

	role, err := roleIn(ctx, q, s.pool, groupID, userID)
	if err != nil {
		return err
	}
	if role == "" {
		return apperr.New(apperr.Forbidden, "Travel owner is not a member of this group")
	}
	return nil
}

// checkTravelDates validates both dates and returns them in canonical form.
func checkTravelDates(start, end string) (string, string, error) {
	if start == "" || end == "" {
		return "", "", apperr.New(apperr.Validation, "Start date and end date are required")
	}
	s, err := parseDate("start_date", start)
	if err != nil {
		return "", "", err
	}
	e, err := parseDate("end_date", end)
	if err != nil {
		return "", "", err
	}
	if s.After(e) {
		return "", "", apperr.New(apperr.Validation, "start_date must not be after end_date")
	}
	return s.Format(models.DateLayout), e.Format(models.DateLayout), nil
}

func checkStatus(status string) error {
	switch status {
	case models.StatusPlanning, models.StatusOngoing, models.StatusCompleted:
		return nil
	}
	return apperr.New(apperr.Validation, "Status must be planning, ongoing or completed")
}

func sameGroup(current *string, next string) bool {
	if current == nil {
		return next == ""
	}
	return *current == next
}
