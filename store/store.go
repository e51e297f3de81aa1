// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/auth"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
)

// Stores bundles every store built on one pool.
type Stores struct {
	Users       *UserStore
	Groups      *GroupStore
	Travels     *TravelStore
	Itineraries *ItineraryStore
	Places      *PlaceStore
	Photos      *PhotoStore
}

// New builds all stores over pool.
func New(pool *db.Pool) *Stores {
	return &Stores{
		Users:       NewUserStore(pool),
		Groups:      NewGroupStore(pool),
		Travels:     NewTravelStore(pool),
		Itineraries: NewItineraryStore(pool),
		Places:      NewPlaceStore(pool),
		Photos:      NewPhotoStore(pool),
	}
}

func newID() (string, error) {
	return auth.GenerateID(16)
}

func now() time.Time {
	return time.Now().UTC()
}

// get runs a single-row query, mapping no rows to a NotFound error.
func get(ctx context.Context, q db.Querier, dest interface{}, notFound string, query string, args ...interface{}) error {
	err := sqlx.GetContext(ctx, q, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, notFound)
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	return nil
}

// affectedOne turns a zero-row update or delete into a NotFound error.
func affectedOne(res sql.Result, notFound string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return apperr.New(apperr.NotFound, notFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// setList accumulates the SET clause of a patch update. Column names are
// always literals chosen in code, never taken from the request.
type setList struct {
	cols []string
	args []interface{}
}

func (s *setList) add(col string, v interface{}) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setList) clause() string {
	return strings.Join(s.cols, ", ")
}

// nullIfEmpty maps "" to SQL NULL.
func nullIfEmpty(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func parseDate(field, v string) (time.Time, error) {
	d, err := time.Parse(models.DateLayout, v)
	if err != nil {
		return time.Time{}, apperr.New(apperr.Validation, field+" must be a date in YYYY-MM-DD format")
	}
	return d, nil
}

// canonicalTime parses an HH:MM (or HH:MM:SS) value and returns it as
// zero-padded HH:MM so stored times compare correctly as text.
func canonicalTime(field, v string) (string, error) {
	for _, layout := range []string{models.TimeLayout, "15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(models.TimeLayout), nil
		}
	}
	return "", apperr.New(apperr.Validation, field+" must be a time in HH:MM format")
}

// optionalTime canonicalizes an optional time for inserts; nil and "" both
// mean unset.
func optionalTime(field string, v *string) (*string, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	c, err := canonicalTime(field, *v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// checkTimeOrder requires start < end when both are set. Both values must
// already be canonical.
func checkTimeOrder(startField string, start *string, endField string, end *string) error {
	if start == nil || end == nil {
		return nil
	}
	if *start >= *end {
		return apperr.New(apperr.Validation, startField+" must be before "+endField)
	}
	return nil
}

func checkNonNegative(field string, v float64) error {
	if v < 0 {
		return apperr.New(apperr.Validation, field+" must not be negative")
	}
	return nil
}
