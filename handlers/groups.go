// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/travel-planner/cliparse"
	"github.com/danielhkuo/travel-planner/db"
	"github.com/danielhkuo/travel-planner/middleware"
	"github.com/danielhkuo/travel-planner/models"
	"github.com/danielhkuo/travel-planner/store"
)

type GroupHandler struct {
	groups *store.GroupStore
	cfg    cliparse.Config
}

func NewGroupHandler(pool *db.Pool, cfg cliparse.Config) *GroupHandler {
	return &GroupHandler{
		groups: store.NewGroupStore(pool),
		cfg:    cfg,
	}
}

// ListGroups handles GET /api/groups
func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListGroups(r.Context(), middleware.UserID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, groups)
}

// CreateGroup handles POST /api/groups
func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req models.CreateGroupRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	userID := middleware.UserID(r)
	group, err := h.groups.CreateGroup(r.Context(), req.Name, req.Description, userID)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("group created", "group_id", group.ID, "creator_id", userID)
	middleware.JSONResponse(w, http.StatusCreated, group)
}

// GetGroup handles GET /api/groups/{id}
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.groups.GetGroupWithMembers(r.Context(), r.PathValue("id"), middleware.UserID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, group)
}

// UpdateGroup handles PUT /api/groups/{id}
func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var patch models.GroupPatch
	if err := middleware.DecodeAndValidate(r, &patch); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	group, err := h.groups.UpdateGroup(r.Context(), r.PathValue("id"), middleware.UserID(r), patch)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, group)
}

// DeleteGroup handles DELETE /api/groups/{id}
func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	if err := h.groups.DeleteGroup(r.Context(), groupID, middleware.UserID(r)); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("group deleted", "group_id", groupID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Group deleted successfully"})
}

// ListMembers handles GET /api/groups/{id}/members
func (h *GroupHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.groups.ListMembers(r.Context(), r.PathValue("id"), middleware.UserID(r))
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, members)
}

// InviteMember handles POST /api/groups/{id}/members. The invitee is given by
// user_id or, if that is empty, by exact email.
func (h *GroupHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	var req models.InviteMemberRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	groupID := r.PathValue("id")
	var member *models.GroupMember
	var err error
	if req.UserID != "" {
		member, err = h.groups.InviteMember(r.Context(), groupID, middleware.UserID(r), req.UserID, req.Role)
	} else {
		member, err = h.groups.InviteMemberByEmail(r.Context(), groupID, middleware.UserID(r), req.Email, req.Role)
	}
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("member invited", "group_id", groupID, "user_id", member.UserID, "role", member.Role)
	middleware.JSONResponse(w, http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/groups/{id}/members/{userId}
func (h *GroupHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := r.PathValue("id")
	targetID := r.PathValue("userId")
	if err := h.groups.RemoveMember(r.Context(), groupID, middleware.UserID(r), targetID); err != nil {
		middleware.WriteError(w, r, err)
		return
	}

	slog.Info("member removed", "group_id", groupID, "user_id", targetID)
	middleware.JSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Member removed successfully"})
}

// UpdateMemberRole handles PUT /api/groups/{id}/members/{userId}/role. The
// role is checked by the store after the admin check, so a non-admin gets 403
// whatever the body holds.
func (h *GroupHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMemberRoleRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		// Unreadable bodies carry no role
		req = models.UpdateMemberRoleRequest{}
	}

	member, err := h.groups.UpdateRole(r.Context(), r.PathValue("id"), middleware.UserID(r), r.PathValue("userId"), req.Role)
	if err != nil {
		middleware.WriteError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, member)
}
