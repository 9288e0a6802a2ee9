//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package engine

import (
	"testing"

	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/stretchr/testify/assert"
)

func TestMembershipSignatureOrderIndependent(t *testing.T) {
	a := []types.TeamMembership{
		{TeamID: "field", Role: types.TeamRoleTechnician},
		{TeamID: "maintenance", Role: types.TeamRoleManager},
	}
	b := []types.TeamMembership{
		{TeamID: "maintenance", Role: types.TeamRoleManager},
		{TeamID: "field", Role: types.TeamRoleTechnician},
	}

	assert.Equal(t, membershipSignature(a), membershipSignature(b))
}

func TestMembershipSignatureDoesNotMutateInput(t *testing.T) {
	ms := []types.TeamMembership{
		{TeamID: "z-team", Role: types.TeamRoleManager},
		{TeamID: "a-team", Role: types.TeamRoleTechnician},
	}
	membershipSignature(ms)

	assert.Equal(t, "z-team", ms[0].TeamID)
	assert.Equal(t, "a-team", ms[1].TeamID)
}

func TestMembershipSignatureDistinguishesRoles(t *testing.T) {
	mgr := []types.TeamMembership{{TeamID: "maintenance", Role: types.TeamRoleManager}}
	tech := []types.TeamMembership{{TeamID: "maintenance", Role: types.TeamRoleTechnician}}

	assert.NotEqual(t, membershipSignature(mgr), membershipSignature(tech))
}

func TestEntitySignature(t *testing.T) {
	// nil and zero-valued contexts carry the same (absent) attributes
	assert.Equal(t, entitySignature(nil), entitySignature(&types.EntityContext{}))

	// distinct team ids must produce distinct signatures; team isolation
	// in the cache depends on it
	assert.NotEqual(t,
		entitySignature(&types.EntityContext{TeamID: "maintenance"}),
		entitySignature(&types.EntityContext{TeamID: "field"}))

	// a team id and an assignee id in the same position must not collide
	assert.NotEqual(t,
		entitySignature(&types.EntityContext{TeamID: "x"}),
		entitySignature(&types.EntityContext{AssigneeID: "x"}))
}

func TestEntitySignatureDelimiterIDsStayDistinct(t *testing.T) {
	// an id containing a field delimiter must not shift the remaining
	// fields into colliding with a different context
	assert.NotEqual(t,
		entitySignature(&types.EntityContext{TeamID: "a;b"}),
		entitySignature(&types.EntityContext{TeamID: "a", AssigneeID: "b;-"}))

	// a literal "-" id is a real value, not an absent attribute
	assert.NotEqual(t,
		entitySignature(&types.EntityContext{TeamID: "-"}),
		entitySignature(nil))

	assert.NotEqual(t,
		entitySignature(&types.EntityContext{TeamID: `a\;b`}),
		entitySignature(&types.EntityContext{TeamID: `a\`, AssigneeID: "b"}))
}

func TestContextSignatureDelimiterIDsStayDistinct(t *testing.T) {
	a := types.UserContext{
		UserID:         "u1",
		OrganizationID: "org-1",
		Role:           types.RoleMember,
		TeamMemberships: []types.TeamMembership{
			{TeamID: "a,b=manager", Role: types.TeamRoleManager},
		},
	}
	b := types.UserContext{
		UserID:         "u1",
		OrganizationID: "org-1",
		Role:           types.RoleMember,
		TeamMemberships: []types.TeamMembership{
			{TeamID: "a", Role: types.TeamRoleManager},
			{TeamID: "b", Role: types.TeamRoleManager},
		},
	}

	assert.NotEqual(t, contextSignature(a, nil), contextSignature(b, nil))

	c := types.UserContext{UserID: "u1|org-1", Role: types.RoleMember}
	d := types.UserContext{UserID: "u1", OrganizationID: "org-1", Role: types.RoleMember}
	assert.NotEqual(t, contextSignature(c, nil), contextSignature(d, nil))
}

func TestContextSignatureStable(t *testing.T) {
	u := types.UserContext{
		UserID:         "u1",
		OrganizationID: "org-1",
		Role:           types.RoleMember,
		TeamMemberships: []types.TeamMembership{
			{TeamID: "maintenance", Role: types.TeamRoleManager},
		},
	}
	e := &types.EntityContext{TeamID: "maintenance"}

	assert.Equal(t, contextSignature(u, e), contextSignature(u, e))
}

func TestCacheKeyIncludesPermission(t *testing.T) {
	u := types.UserContext{UserID: "u1", OrganizationID: "org-1", Role: types.RoleMember}
	sig := contextSignature(u, nil)

	assert.NotEqual(t,
		cacheKey(sig, types.PermissionEquipmentView),
		cacheKey(sig, types.PermissionEquipmentEdit))
}

func TestCacheKeyIncludesOrganization(t *testing.T) {
	// identical users in different organizations must never share entries
	a := types.UserContext{UserID: "u1", OrganizationID: "org-1", Role: types.RoleAdmin}
	b := types.UserContext{UserID: "u1", OrganizationID: "org-2", Role: types.RoleAdmin}

	assert.NotEqual(t,
		cacheKey(contextSignature(a, nil), types.PermissionOrganizationManage),
		cacheKey(contextSignature(b, nil), types.PermissionOrganizationManage))
}
