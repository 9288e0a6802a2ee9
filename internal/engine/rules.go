//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package engine

import (
	"sort"

	"github.com/fieldworks/permengine/pkg/common"
	"github.com/fieldworks/permengine/pkg/engine/types"
)

// Effect is what a rule yields when its predicate matches.
type Effect int

// The two rule effects. A matched Deny and an unmatched rule set both
// collapse to false at the engine boundary; the distinction exists so the
// table can state the permission matrix explicitly where that aids
// readability.
const (
	Deny Effect = iota
	Allow
)

// Predicate reports whether a rule is applicable to the given contexts.
// Predicates must be total and side-effect free; a predicate that needs
// entity attributes simply returns false when they are absent.
type Predicate func(user types.UserContext, entity *types.EntityContext) bool

// Rule is one prioritized decision step for a permission.
type Rule struct {
	// Band names the precedence band for decision log records.
	Band string
	// Priority orders rules within a permission, highest first. The
	// ordering is fixed at table construction and identical across runs.
	Priority int
	// Effect is the decision produced when the rule matches.
	Effect Effect
	// When is the predicate that determines whether the rule matches.
	When Predicate
}

// Priority bands, highest to lowest. Making the precedence an explicit
// declared value (rather than relying on registration order) means adding
// a new permission cannot accidentally invert it.
const (
	PriorityGlobalRole = 400
	PriorityTeamRole   = 300
	PriorityAssignee   = 200
)

// Band names recorded in decision logs.
const (
	BandGlobalRole  = "global-role"
	BandTeamManager = "team-manager"
	BandTeamMember  = "team-member"
	BandAssignee    = "assignee"
	BandDefault     = "default"
)

// globalRole matches Owner and Admin unconditionally, independent of any
// entity context, including contexts referencing teams the engine has no
// knowledge of. It short-circuits every lower band.
func globalRole(user types.UserContext, _ *types.EntityContext) bool {
	return user.Role.Global()
}

// teamManager matches users holding a Manager membership on the entity's
// owning team. No entity team means no match, never an error.
func teamManager(user types.UserContext, entity *types.EntityContext) bool {
	if entity == nil {
		return false
	}
	role, ok := user.MembershipOn(entity.TeamID)
	return ok && role == types.TeamRoleManager
}

// teamMember matches users holding any membership on the entity's owning
// team. Membership on a different team never matches.
func teamMember(user types.UserContext, entity *types.EntityContext) bool {
	if entity == nil {
		return false
	}
	_, ok := user.MembershipOn(entity.TeamID)
	return ok
}

// selfAssigned matches when the entity is personally assigned to the
// user, independent of team membership.
func selfAssigned(user types.UserContext, entity *types.EntityContext) bool {
	return entity != nil && entity.AssigneeID != "" && entity.AssigneeID == user.UserID
}

var (
	grantGlobalRole  = Rule{Band: BandGlobalRole, Priority: PriorityGlobalRole, Effect: Allow, When: globalRole}
	grantTeamManager = Rule{Band: BandTeamManager, Priority: PriorityTeamRole, Effect: Allow, When: teamManager}
	grantTeamMember  = Rule{Band: BandTeamMember, Priority: PriorityTeamRole, Effect: Allow, When: teamMember}
	grantAssignee    = Rule{Band: BandAssignee, Priority: PriorityAssignee, Effect: Allow, When: selfAssigned}
)

// ruleTable holds the ordered decision rules per permission. It is built
// once at engine construction and immutable thereafter.
type ruleTable map[types.Permission][]Rule

// newRuleTable encodes the permission matrix:
//
//	organization.manage    Owner/Admin
//	organization.invite    Owner/Admin
//	equipment.view         Owner/Admin, team member
//	equipment.edit         Owner/Admin, team manager
//	workorder.view         Owner/Admin, team member
//	workorder.edit         Owner/Admin, team manager
//	workorder.assign       Owner/Admin, team manager
//	workorder.changestatus Owner/Admin, team member, assignee
//	team.view              Owner/Admin, team member
//	team.manage            Owner/Admin, team manager
//
// Everything else denies.
func newRuleTable() ruleTable {
	t := ruleTable{
		types.PermissionOrganizationManage:   {grantGlobalRole},
		types.PermissionOrganizationInvite:   {grantGlobalRole},
		types.PermissionEquipmentView:        {grantGlobalRole, grantTeamMember},
		types.PermissionEquipmentEdit:        {grantGlobalRole, grantTeamManager},
		types.PermissionWorkOrderView:        {grantGlobalRole, grantTeamMember},
		types.PermissionWorkOrderEdit:        {grantGlobalRole, grantTeamManager},
		types.PermissionWorkOrderAssign:      {grantGlobalRole, grantTeamManager},
		types.PermissionWorkOrderChangeState: {grantGlobalRole, grantTeamMember, grantAssignee},
		types.PermissionTeamView:             {grantGlobalRole, grantTeamMember},
		types.PermissionTeamManage:           {grantGlobalRole, grantTeamManager},
	}

	// Evaluation order must be deterministic and reproducible across runs.
	// SliceStable preserves registration order among equal priorities.
	for _, rules := range t {
		sort.SliceStable(rules, func(i, j int) bool {
			return rules[i].Priority > rules[j].Priority
		})
	}

	return t
}

// validate checks that every catalogued permission has at least one rule,
// so a missing rule set is an engine-construction error rather than a
// call-time discovery.
func (t ruleTable) validate(catalog []types.Permission) *common.AuthzError {
	for _, p := range catalog {
		if len(t[p]) == 0 {
			return common.NewErrorf(common.ReasonCatalogIncomplete, "permission %q has no rules", p)
		}
	}
	return nil
}

// evaluate walks the permission's rules strictly in descending priority
// order and returns the decision of the first matching rule along with
// the band that produced it. Unknown permissions and unmatched rule sets
// both deny.
func (t ruleTable) evaluate(permission types.Permission, user types.UserContext, entity *types.EntityContext) (bool, string) {
	for _, r := range t[permission] {
		if r.When(user, entity) {
			return r.Effect == Allow, r.Band
		}
	}
	return false, BandDefault
}
