// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package access

import (
	"context"
	"errors"
	"testing"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/models"
)

type fakeTravels map[string]*models.Travel

func (f fakeTravels) Get(_ context.Context, id string) (*models.Travel, error) {
	t, ok := f[id]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "Travel not found")
	}
	return t, nil
}

// fakeRoles maps groupID/userID to a role.
type fakeRoles map[string]string

func (f fakeRoles) RoleOf(_ context.Context, groupID, userID string) (string, error) {
	if groupID == "broken" {
		return "", errors.New("connection reset")
	}
	return f[groupID+"/"+userID], nil
}

func TestAuthorize(t *testing.T) {
	group := "g1"
	broken := "broken"
	travels := fakeTravels{
		"solo":   {ID: "solo", UserID: "alice"},
		"shared": {ID: "shared", UserID: "alice", GroupID: &group},
		"flaky":  {ID: "flaky", UserID: "alice", GroupID: &broken},
	}
	roles := fakeRoles{
		"g1/alice": models.RoleAdmin,
		"g1/bob":   models.RoleMember,
		"g1/dana":  models.RoleAdmin,
	}
	gate := NewGate(travels, roles)

	tests := []struct {
		name     string
		travel   string
		user     string
		action   Action
		wantKind apperr.Kind
		wantOK   bool
	}{
		{"owner reads", "solo", "alice", Read, 0, true},
		{"owner deletes", "solo", "alice", Delete, 0, true},
		{"stranger reads private", "solo", "bob", Read, apperr.Forbidden, false},
		{"member reads shared", "shared", "bob", Read, 0, true},
		{"member writes shared", "shared", "bob", Write, 0, true},
		{"member deletes shared", "shared", "bob", Delete, apperr.Forbidden, false},
		{"group admin deletes shared", "shared", "dana", Delete, 0, true},
		{"non-member reads shared", "shared", "carol", Read, apperr.Forbidden, false},
		{"missing travel", "nope", "alice", Read, apperr.NotFound, false},
		{"role lookup fails", "flaky", "bob", Read, apperr.Internal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			travel, err := gate.Authorize(context.Background(), tt.travel, tt.user, tt.action)
			if tt.wantOK {
				if err != nil {
					t.Fatalf("Expected access, got %v", err)
				}
				if travel.ID != tt.travel {
					t.Errorf("Expected travel %s, got %s", tt.travel, travel.ID)
				}
				return
			}
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if got := apperr.KindOf(err); got != tt.wantKind {
				t.Errorf("Expected kind %v, got %v", tt.wantKind, got)
			}
		})
	}
}

func TestAuthorizeFollowsMembershipChanges(t *testing.T) {
	group := "g1"
	travels := fakeTravels{"shared": {ID: "shared", UserID: "alice", GroupID: &group}}
	roles := fakeRoles{"g1/bob": models.RoleMember}
	gate := NewGate(travels, roles)
	ctx := context.Background()

	if _, err := gate.Authorize(ctx, "shared", "bob", Write); err != nil {
		t.Fatalf("Expected member access, got %v", err)
	}

	delete(roles, "g1/bob")
	if _, err := gate.Authorize(ctx, "shared", "bob", Read); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("Expected ErrAccessDenied after leaving the group, got %v", err)
	}
}

func TestActionString(t *testing.T) {
	for action, want := range map[Action]string{Read: "read", Write: "write", Delete: "delete"} {
		if got := action.String(); got != want {
			t.Errorf("Action(%d).String() = %q, want %q", action, got, want)
		}
	}
}
