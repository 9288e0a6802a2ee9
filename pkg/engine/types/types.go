//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package types defines the value types that describe an authorization
// request: who is asking ([UserContext]) and what they are acting on
// ([EntityContext]).
//
// All types in this package are plain values. The engine never mutates
// them and never retains references beyond cache-key derivation, so
// callers are free to construct them fresh for every decision.
package types

// Role is a user's organization-wide authority level.
//
// Exactly one Role exists per (user, organization) pair. It is assigned
// at membership creation and changed only by an explicit role-change
// action outside this engine; within a single evaluation it is immutable.
type Role string

// The closed set of organization roles.
const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the enumerated organization roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember:
		return true
	}
	return false
}

// Global reports whether r grants every permission in the organization
// unconditionally.
func (r Role) Global() bool {
	return r == RoleOwner || r == RoleAdmin
}

// TeamRole is a user's authority within one specific team.
type TeamRole string

// The closed set of team roles.
const (
	TeamRoleManager    TeamRole = "manager"
	TeamRoleTechnician TeamRole = "technician"
)

// Valid reports whether r is one of the enumerated team roles.
func (r TeamRole) Valid() bool {
	return r == TeamRoleManager || r == TeamRoleTechnician
}

// TeamMembership binds a user to a team with a single [TeamRole].
//
// A [UserContext] holds at most one membership per team; a user cannot
// hold two roles on the same team simultaneously.
type TeamMembership struct {
	TeamID string   `json:"teamId" yaml:"teamId"`
	Role   TeamRole `json:"role" yaml:"role"`
}

// UserContext describes the principal of an authorization request.
//
// Callers assemble a UserContext from their own sources of truth (session,
// organization membership, team directory) for each decision. An empty
// TeamMemberships slice simply means the user belongs to no teams.
type UserContext struct {
	UserID          string           `json:"userId" yaml:"userId"`
	OrganizationID  string           `json:"organizationId" yaml:"organizationId"`
	Role            Role             `json:"role" yaml:"role"`
	TeamMemberships []TeamMembership `json:"teamMemberships,omitempty" yaml:"teamMemberships,omitempty"`
}

// MembershipOn returns the user's role on the given team, if any.
func (u UserContext) MembershipOn(teamID string) (TeamRole, bool) {
	if teamID == "" {
		return "", false
	}
	for _, m := range u.TeamMemberships {
		if m.TeamID == teamID {
			return m.Role, true
		}
	}
	return "", false
}

// EntityContext describes the minimal attributes of the thing being acted
// upon that team- and assignee-scoped rules need. All fields are optional;
// an empty string means the attribute is absent. Many permissions (e.g.
// [PermissionOrganizationManage]) are context-free and are evaluated with
// a nil *EntityContext.
type EntityContext struct {
	TeamID         string `json:"teamId,omitempty" yaml:"teamId,omitempty"`
	AssigneeID     string `json:"assigneeId,omitempty" yaml:"assigneeId,omitempty"`
	OrganizationID string `json:"organizationId,omitempty" yaml:"organizationId,omitempty"`
}

// Permission is a named capability the engine can grant or deny,
// namespaced by resource type and action (e.g. "workorder.assign").
//
// Unrecognized permissions are a normal, deniable input, never an error.
type Permission string

// The permission catalog.
const (
	PermissionOrganizationManage   Permission = "organization.manage"
	PermissionOrganizationInvite   Permission = "organization.invite"
	PermissionEquipmentView        Permission = "equipment.view"
	PermissionEquipmentEdit        Permission = "equipment.edit"
	PermissionWorkOrderView        Permission = "workorder.view"
	PermissionWorkOrderEdit        Permission = "workorder.edit"
	PermissionWorkOrderAssign      Permission = "workorder.assign"
	PermissionWorkOrderChangeState Permission = "workorder.changestatus"
	PermissionTeamView             Permission = "team.view"
	PermissionTeamManage           Permission = "team.manage"
)

// Catalog returns the complete permission catalog in a fixed order.
//
// The engine validates at construction time that every catalogued
// permission has decision rules, so a missing rule set is caught when the
// engine is built rather than discovered at call time.
func Catalog() []Permission {
	return []Permission{
		PermissionOrganizationManage,
		PermissionOrganizationInvite,
		PermissionEquipmentView,
		PermissionEquipmentEdit,
		PermissionWorkOrderView,
		PermissionWorkOrderEdit,
		PermissionWorkOrderAssign,
		PermissionWorkOrderChangeState,
		PermissionTeamView,
		PermissionTeamManage,
	}
}
