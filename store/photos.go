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

// PhotoStore holds photo metadata rows. Image files live on disk and are
// managed by the photos package.
type PhotoStore struct {
	pool *db.Pool
}

func NewPhotoStore(pool *db.Pool) *PhotoStore {
	return &PhotoStore{pool: pool}
}

const photoColumns = `ph.id, ph.travel_id, ph.place_id, ph.filename, ph.original_name, ph.size, ph.taken_at,
	ph.latitude, ph.longitude, ph.caption, ph.upload_date`

// Create inserts a photo row. ID and UploadDate are filled in.
func (s *PhotoStore) Create(ctx context.Context, photo *models.Photo) error {
	id, err := newID()
	if err != nil {
		return err
	}
	photo.ID = id
	photo.UploadDate = now()
	photo.Caption = emptyToNil(photo.Caption)

	return s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		_, err := q.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO photo (id, travel_id, place_id, filename, original_name, size, taken_at,
				latitude, longitude, caption, upload_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), photo.ID, photo.TravelID, photo.PlaceID, photo.Filename, photo.OriginalName, photo.Size, photo.TakenAt,
			photo.Latitude, photo.Longitude, photo.Caption, photo.UploadDate)
		if err != nil {
			return fmt.Errorf("failed to insert photo: %w", err)
		}
		return nil
	})
}

// ListByTravel returns a travel's photos, newest upload first.
func (s *PhotoStore) ListByTravel(ctx context.Context, travelID string) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return sqlx.SelectContext(ctx, q, &photos, s.pool.Rebind(`
			SELECT `+photoColumns+`
			FROM photo ph
			WHERE ph.travel_id = ?
			ORDER BY ph.upload_date DESC
		`), travelID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

// ListByPlaceForUser returns photos tagged with placeID whose travel userID
// owns or shares through a group, newest upload first.
func (s *PhotoStore) ListByPlaceForUser(ctx context.Context, placeID, userID string) ([]models.Photo, error) {
	photos := []models.Photo{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return sqlx.SelectContext(ctx, q, &photos, s.pool.Rebind(`
			SELECT `+photoColumns+`
			FROM photo ph
			JOIN travel t ON t.id = ph.travel_id
			LEFT JOIN group_member gm ON gm.group_id = t.group_id AND gm.user_id = ?
			WHERE ph.place_id = ? AND (t.user_id = ? OR gm.user_id IS NOT NULL)
			ORDER BY ph.upload_date DESC
		`), userID, placeID, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return photos, nil
}

func (s *PhotoStore) Get(ctx context.Context, id string) (*models.Photo, error) {
	return s.getBy(ctx, "ph.id", id)
}

// GetByFilename finds the row for a stored image or thumbnail name.
func (s *PhotoStore) GetByFilename(ctx context.Context, filename string) (*models.Photo, error) {
	return s.getBy(ctx, "ph.filename", filename)
}

// Update applies a metadata patch. An empty place_id untags the photo.
func (s *PhotoStore) Update(ctx context.Context, id string, patch models.PhotoPatch) (*models.Photo, error) {
	var set setList
	if patch.Caption != nil {
		set.add("caption", nullIfEmpty(patch.Caption))
	}
	if patch.PlaceID != nil {
		set.add("place_id", nullIfEmpty(patch.PlaceID))
	}
	if patch.TakenAt != nil {
		set.add("taken_at", patch.TakenAt.UTC())
	}
	if patch.Latitude != nil {
		set.add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		set.add("longitude", *patch.Longitude)
	}

	var photo models.Photo
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if patch.PlaceID != nil && *patch.PlaceID != "" {
			var places int
			err := tx.QueryRowxContext(ctx, s.pool.Rebind(`SELECT COUNT(*) FROM place WHERE id = ?`), *patch.PlaceID).Scan(&places)
			if err != nil {
				return fmt.Errorf("failed to look up place: %w", err)
			}
			if places == 0 {
				return apperr.New(apperr.NotFound, "Place not found")
			}
		}

		if len(set.cols) > 0 {
			res, err := tx.ExecContext(ctx, s.pool.Rebind(`UPDATE photo SET `+set.clause()+` WHERE id = ?`),
				append(set.args, id)...)
			if err != nil {
				return fmt.Errorf("failed to update photo: %w", err)
			}
			if err := affectedOne(res, "Photo not found"); err != nil {
				return err
			}
		}

		return get(ctx, tx, &photo, "Photo not found", s.pool.Rebind(`
			SELECT `+photoColumns+` FROM photo ph WHERE ph.id = ?
		`), id)
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// Delete removes the row and returns it so the caller can remove its files.
func (s *PhotoStore) Delete(ctx context.Context, id string) (*models.Photo, error) {
	var photo models.Photo
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		err := get(ctx, tx, &photo, "Photo not found", s.pool.Rebind(`
			SELECT `+photoColumns+` FROM photo ph WHERE ph.id = ?
		`), id)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, s.pool.Rebind(`DELETE FROM photo WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("failed to delete photo: %w", err)
		}
		return affectedOne(res, "Photo not found")
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

// getBy looks a photo up by a fixed column name.
func (s *PhotoStore) getBy(ctx context.Context, column, value string) (*models.Photo, error) {
	var photo models.Photo
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return get(ctx, q, &photo, "Photo not found", s.pool.Rebind(`
			SELECT `+photoColumns+` FROM photo ph WHERE `+column+` = ?
		`), value)
	})
	if err != nil {
		return nil, err
	}
	return &photo, nil
}
