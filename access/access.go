// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import (
	"context"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/models"
)

// Action is what a caller wants to do with a travel or one of its children.
type Action int

const (
	Read Action = iota
	Write
	Delete
)

func (a Action) String() string {
	switch a {
	case Write:
		return "write"
	case Delete:
		return "delete"
	}
	return "read"
}

var ErrAccessDenied = apperr.New(apperr.Forbidden, "Access denied")

// TravelFinder loads a travel by ID, returning a NotFound error if absent.
type TravelFinder interface {
	Get(ctx context.Context, id string) (*models.Travel, error)
}

// RoleFinder reports a user's role in a group, "" for non-members.
type RoleFinder interface {
	RoleOf(ctx context.Context, groupID, userID string) (string, error)
}

// Gate decides whether a user may act on a travel. It keeps no state between
// calls; every decision reads the current owner and membership.
type Gate struct {
	travels TravelFinder
	groups  RoleFinder
}

func NewGate(travels TravelFinder, groups RoleFinder) *Gate {
	return &Gate{travels: travels, groups: groups}
}

// Authorize returns the travel when userID may perform action on it.
//
// The owner may do anything. Members of the travel's group may read and
// write; only group admins may delete. Everyone else is denied.
func (g *Gate) Authorize(ctx context.Context, travelID, userID string, action Action) (*models.Travel, error) {
	travel, err := g.travels.Get(ctx, travelID)
	if err != nil {
		return nil, err
	}

	if travel.UserID == userID {
		return travel, nil
	}
	if travel.GroupID == nil {
		return nil, ErrAccessDenied
	}

	role, err := g.groups.RoleOf(ctx, *travel.GroupID, userID)
	if err != nil {
		return nil, err
	}

	switch {
	case role == "":
		return nil, ErrAccessDenied
	case action == Delete && role != models.RoleAdmin:
		return nil, apperr.New(apperr.Forbidden, "Only the owner or a group admin can delete this travel")
	}
	return travel, nil
}
