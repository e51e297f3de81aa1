// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/travel-planner/apperr"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/models"
)

var (
	ErrAlreadyMember = apperr.New(apperr.Conflict, "User is already a member of this group")
	ErrNotMember     = apperr.New(apperr.NotFound, "Member not found in group")
	ErrLastAdmin     = apperr.New(apperr.Conflict, "A group must keep at least one admin")
	ErrAdminRequired = apperr.New(apperr.Forbidden, "Admin access required")
)

// GroupStore manages groups and their memberships. Every mutation that
// touches both tables, or that depends on the current set of admins, runs in
// one transaction.
type GroupStore struct {
	pool *db.Pool
}

func NewGroupStore(pool *db.Pool) *GroupStore {
	return &GroupStore{pool: pool}
}

const memberColumns = `gm.id, gm.group_id, gm.user_id, gm.role, gm.joined_at, u.name AS user_name, u.email AS user_email`

// CreateGroup inserts the group and its creator's admin membership together.
func (s *GroupStore) CreateGroup(ctx context.Context, name string, description *string, creatorID string) (*models.Group, error) {
	groupID, err := newID()
	if err != nil {
		return nil, err
	}
	memberID, err := newID()
	if err != nil {
		return nil, err
	}

	ts := now()
	group := &models.Group{
		ID:          groupID,
		Name:        name,
		Description: description,
		CreatorID:   creatorID,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}

	err = s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		_, err := tx.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO travel_group (id, name, description, creator_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`), group.ID, group.Name, nullIfEmpty(group.Description), group.CreatorID, ts, ts)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO group_member (id, group_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?, ?)
		`), memberID, group.ID, creatorID, models.RoleAdmin, ts)
		if err != nil {
			return fmt.Errorf("failed to insert creator membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if group.Description != nil && *group.Description == "" {
		group.Description = nil
	}
	return group, nil
}

// ListGroups returns the groups userID belongs to, newest first.
func (s *GroupStore) ListGroups(ctx context.Context, userID string) ([]models.Group, error) {
	groups := []models.Group{}
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		return sqlx.SelectContext(ctx, q, &groups, s.pool.Rebind(`
			SELECT g.id, g.name, g.description, g.creator_id, g.created_at, g.updated_at
			FROM travel_group g
			JOIN group_member gm ON gm.group_id = g.id
			WHERE gm.user_id = ?
			ORDER BY g.created_at DESC
		`), userID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

func (s *GroupStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var group *models.Group
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		group, err = s.loadGroup(ctx, q, groupID)
		return err
	})
	return group, err
}

// GetGroupWithMembers returns the group and its members. Only members may
// read a group.
func (s *GroupStore) GetGroupWithMembers(ctx context.Context, groupID, requesterID string) (*models.GroupWithMembers, error) {
	var out models.GroupWithMembers
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		group, err := s.loadGroup(ctx, q, groupID)
		if err != nil {
			return err
		}
		role, err := s.roleOf(ctx, q, groupID, requesterID)
		if err != nil {
			return err
		}
		if role == "" {
			return apperr.New(apperr.Forbidden, "Access denied")
		}

		members, err := s.listMembers(ctx, q, groupID)
		if err != nil {
			return err
		}
		out = models.GroupWithMembers{Group: *group, Members: members}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateGroup applies a patch to the group's name and description. Admins only.
func (s *GroupStore) UpdateGroup(ctx context.Context, groupID, requesterID string, patch models.GroupPatch) (*models.Group, error) {
	var group *models.Group
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if _, err := s.loadGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if err := s.requireAdmin(ctx, tx, groupID, requesterID); err != nil {
			return err
		}

		var set setList
		if patch.Name != nil {
			if *patch.Name == "" {
				return apperr.New(apperr.Validation, "Group name is required")
			}
			set.add("name", *patch.Name)
		}
		if patch.Description != nil {
			set.add("description", nullIfEmpty(patch.Description))
		}
		set.add("updated_at", now())

		_, err := tx.ExecContext(ctx, s.pool.Rebind(`UPDATE travel_group SET `+set.clause()+` WHERE id = ?`),
			append(set.args, groupID)...)
		if err != nil {
			return fmt.Errorf("failed to update group: %w", err)
		}

		group, err = s.loadGroup(ctx, tx, groupID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteGroup removes the group and all its memberships. Shared travels are
// detached and stay with their owners. Only the creator may delete.
func (s *GroupStore) DeleteGroup(ctx context.Context, groupID, requesterID string) error {
	return s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		group, err := s.loadGroup(ctx, tx, groupID)
		if err != nil {
			return err
		}
		if group.CreatorID != requesterID {
			return apperr.New(apperr.Forbidden, "Only the group creator can delete the group")
		}

		stmts := []string{
			`UPDATE travel SET group_id = NULL WHERE group_id = ?`,
			`DELETE FROM group_member WHERE group_id = ?`,
			`DELETE FROM travel_group WHERE id = ?`,
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, s.pool.Rebind(stmt), groupID); err != nil {
				return fmt.Errorf("failed to delete group: %w", err)
			}
		}
		return nil
	})
}

// ListMembers returns the members of a group in join order. Only members may
// list.
func (s *GroupStore) ListMembers(ctx context.Context, groupID, requesterID string) ([]models.GroupMember, error) {
	g, err := s.GetGroupWithMembers(ctx, groupID, requesterID)
	if err != nil {
		return nil, err
	}
	return g.Members, nil
}

// InviteMember adds targetUserID to the group with role. The requester must
// be an admin of the group.
func (s *GroupStore) InviteMember(ctx context.Context, groupID, requesterID, targetUserID, role string) (*models.GroupMember, error) {
	return s.invite(ctx, groupID, requesterID, role, func(ctx context.Context, tx db.Querier) (string, error) {
		var userCount int
		err := tx.QueryRowxContext(ctx, s.pool.Rebind(`SELECT COUNT(*) FROM app_user WHERE id = ?`), targetUserID).Scan(&userCount)
		if err != nil {
			return "", fmt.Errorf("failed to look up user: %w", err)
		}
		if userCount == 0 {
			return "", apperr.New(apperr.NotFound, "User not found")
		}
		return targetUserID, nil
	})
}

// InviteMemberByEmail is InviteMember with the invitee given by exact email.
// The email is resolved only after the admin check, so non-admins cannot
// tell which addresses are registered.
func (s *GroupStore) InviteMemberByEmail(ctx context.Context, groupID, requesterID, email, role string) (*models.GroupMember, error) {
	return s.invite(ctx, groupID, requesterID, role, func(ctx context.Context, tx db.Querier) (string, error) {
		var id string
		if err := get(ctx, tx, &id, "User not found", s.pool.Rebind(`SELECT id FROM app_user WHERE email = ?`), email); err != nil {
			return "", err
		}
		return id, nil
	})
}

func (s *GroupStore) invite(ctx context.Context, groupID, requesterID, role string, resolve func(ctx context.Context, tx db.Querier) (string, error)) (*models.GroupMember, error) {
	if role == "" {
		role = models.RoleMember
	}

	memberID, err := newID()
	if err != nil {
		return nil, err
	}

	var member models.GroupMember
	err = s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if _, err := s.loadGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if err := s.requireAdmin(ctx, tx, groupID, requesterID); err != nil {
			return err
		}
		if err := checkRole(role); err != nil {
			return err
		}

		targetUserID, err := resolve(ctx, tx)
		if err != nil {
			return err
		}

		existing, err := s.roleOf(ctx, tx, groupID, targetUserID)
		if err != nil {
			return err
		}
		if existing != "" {
			return ErrAlreadyMember
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`
			INSERT INTO group_member (id, group_id, user_id, role, joined_at)
			VALUES (?, ?, ?, ?, ?)
		`), memberID, groupID, targetUserID, role, now())
		if isUniqueViolation(err) {
			return ErrAlreadyMember
		}
		if err != nil {
			return fmt.Errorf("failed to insert membership: %w", err)
		}

		return get(ctx, tx, &member, "Member not found in group", s.pool.Rebind(`
			SELECT `+memberColumns+`
			FROM group_member gm JOIN app_user u ON u.id = gm.user_id
			WHERE gm.id = ?
		`), memberID)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// RemoveMember deletes targetUserID's membership. Admins may remove anyone;
// anyone may remove themselves. The last admin cannot be removed.
func (s *GroupStore) RemoveMember(ctx context.Context, groupID, requesterID, targetUserID string) error {
	return s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if err := s.lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if requesterID != targetUserID {
			role, err := s.roleOf(ctx, tx, groupID, requesterID)
			if err != nil {
				return err
			}
			if role != models.RoleAdmin {
				return apperr.New(apperr.Forbidden, "Admin access required or can only remove yourself")
			}
		}

		targetRole, err := s.roleOf(ctx, tx, groupID, targetUserID)
		if err != nil {
			return err
		}
		if targetRole == "" {
			return ErrNotMember
		}
		if targetRole == models.RoleAdmin {
			if err := s.requireAnotherAdmin(ctx, tx, groupID); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`DELETE FROM group_member WHERE group_id = ? AND user_id = ?`),
			groupID, targetUserID)
		if err != nil {
			return fmt.Errorf("failed to remove member: %w", err)
		}
		return nil
	})
}

// UpdateRole changes targetUserID's role. Admins only, whatever the payload;
// demoting the last admin is refused.
func (s *GroupStore) UpdateRole(ctx context.Context, groupID, requesterID, targetUserID, newRole string) (*models.GroupMember, error) {
	var member models.GroupMember
	err := s.pool.RunTx(ctx, func(ctx context.Context, tx db.Querier) error {
		if err := s.lockGroup(ctx, tx, groupID); err != nil {
			return err
		}
		if err := s.requireAdmin(ctx, tx, groupID, requesterID); err != nil {
			return err
		}
		if err := checkRole(newRole); err != nil {
			return err
		}

		targetRole, err := s.roleOf(ctx, tx, groupID, targetUserID)
		if err != nil {
			return err
		}
		if targetRole == "" {
			return ErrNotMember
		}
		if targetRole == models.RoleAdmin && newRole != models.RoleAdmin {
			if err := s.requireAnotherAdmin(ctx, tx, groupID); err != nil {
				return err
			}
		}

		_, err = tx.ExecContext(ctx, s.pool.Rebind(`UPDATE group_member SET role = ? WHERE group_id = ? AND user_id = ?`),
			newRole, groupID, targetUserID)
		if err != nil {
			return fmt.Errorf("failed to update role: %w", err)
		}

		return get(ctx, tx, &member, "Member not found in group", s.pool.Rebind(`
			SELECT `+memberColumns+`
			FROM group_member gm JOIN app_user u ON u.id = gm.user_id
			WHERE gm.group_id = ? AND gm.user_id = ?
		`), groupID, targetUserID)
	})
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// IsMember reports whether userID belongs to groupID.
func (s *GroupStore) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	role, err := s.RoleOf(ctx, groupID, userID)
	return role != "", err
}

// RoleOf returns userID's role in groupID, or "" if not a member.
func (s *GroupStore) RoleOf(ctx context.Context, groupID, userID string) (string, error) {
	var role string
	err := s.pool.Run(ctx, func(ctx context.Context, q db.Querier) error {
		var err error
		role, err = s.roleOf(ctx, q, groupID, userID)
		return err
	})
	return role, err
}

func (s *GroupStore) loadGroup(ctx context.Context, q db.Querier, groupID string) (*models.Group, error) {
	var group models.Group
	err := get(ctx, q, &group, "Group not found", s.pool.Rebind(`
		SELECT id, name, description, creator_id, created_at, updated_at
		FROM travel_group WHERE id = ?
	`), groupID)
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// lockGroup takes the group row's write lock for the rest of tx, so admin
// counts read afterwards cannot be invalidated by a concurrent demotion or
// removal in the same group.
func (s *GroupStore) lockGroup(ctx context.Context, tx db.Querier, groupID string) error {
	res, err := tx.ExecContext(ctx, s.pool.Rebind(`UPDATE travel_group SET updated_at = updated_at WHERE id = ?`), groupID)
	if err != nil {
		return fmt.Errorf("failed to lock group: %w", err)
	}
	return affectedOne(res, "Group not found")
}

func (s *GroupStore) roleOf(ctx context.Context, q db.Querier, groupID, userID string) (string, error) {
	return roleIn(ctx, q, s.pool, groupID, userID)
}

// roleIn looks up a membership role on q; "" means not a member.
func roleIn(ctx context.Context, q db.Querier, pool *db.Pool, groupID, userID string) (string, error) {
	var role string
	err := q.QueryRowxContext(ctx, pool.Rebind(`SELECT role FROM group_member WHERE group_id = ? AND user_id = ?`),
		groupID, userID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up role: %w", err)
	}
	return role, nil
}

func (s *GroupStore) requireAdmin(ctx context.Context, q db.Querier, groupID, userID string) error {
	role, err := s.roleOf(ctx, q, groupID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return ErrAdminRequired
	}
	return nil
}

func (s *GroupStore) requireAnotherAdmin(ctx context.Context, q db.Querier, groupID string) error {
	var admins int
	err := q.QueryRowxContext(ctx, s.pool.Rebind(`SELECT COUNT(*) FROM group_member WHERE group_id = ? AND role = ?`),
		groupID, models.RoleAdmin).Scan(&admins)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if admins <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func (s *GroupStore) listMembers(ctx context.Context, q db.Querier, groupID string) ([]models.GroupMember, error) {
	members := []models.GroupMember{}
	err := sqlx.SelectContext(ctx, q, &members, s.pool.Rebind(`
		SELECT `+memberColumns+`
		FROM group_member gm JOIN app_user u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.joined_at
	`), groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func checkRole(role string) error {
	if role != models.RoleAdmin && role != models.RoleMember {
		return apperr.New(apperr.Validation, "Valid role is required (admin or member)")
	}
	return nil
}
