//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package static

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldworks/permengine/pkg/common"
	"github.com/fieldworks/permengine/pkg/directory"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFixture = `
users:
  u1:
    organizationId: org-1
    role: member
    teamMemberships:
      - teamId: maintenance
        role: manager
      - teamId: field
        role: technician
  owner:
    organizationId: org-1
    role: owner
entities:
  workorder:
    wo-100:
      teamId: maintenance
      assigneeId: u1
  equipment:
    pump-7:
      teamId: maintenance
`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sampleFixture))
	require.NoError(t, err)

	ctx := context.Background()

	u, aerr := d.UserContext(ctx, "u1")
	require.Nil(t, aerr)
	assert.Equal(t, "u1", u.UserID)
	assert.Equal(t, "org-1", u.OrganizationID)
	assert.Equal(t, types.RoleMember, u.Role)
	require.Len(t, u.TeamMemberships, 2)
	assert.Equal(t, types.TeamRoleManager, u.TeamMemberships[0].Role)

	e, aerr := d.EntityContext(ctx, directory.KindWorkOrder, "wo-100")
	require.Nil(t, aerr)
	assert.Equal(t, "maintenance", e.TeamID)
	assert.Equal(t, "u1", e.AssigneeID)
}

func TestLookupNotFound(t *testing.T) {
	d, err := Parse([]byte(sampleFixture))
	require.NoError(t, err)

	ctx := context.Background()

	_, aerr := d.UserContext(ctx, "nobody")
	require.NotNil(t, aerr)
	assert.Equal(t, common.ReasonNotFound, aerr.Code)

	_, aerr = d.EntityContext(ctx, directory.KindEquipment, "pump-8")
	require.NotNil(t, aerr)
	assert.Equal(t, common.ReasonNotFound, aerr.Code)

	// unknown kind behaves like a missing entity
	_, aerr = d.EntityContext(ctx, "vehicle", "pump-7")
	require.NotNil(t, aerr)
	assert.Equal(t, common.ReasonNotFound, aerr.Code)
}

func TestParseRejectsInvalidRole(t *testing.T) {
	_, err := Parse([]byte(`
users:
  u1:
    organizationId: org-1
    role: superuser
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid role")
}

func TestParseRejectsInvalidTeamRole(t *testing.T) {
	_, err := Parse([]byte(`
users:
  u1:
    organizationId: org-1
    role: member
    teamMemberships:
      - teamId: maintenance
        role: lead
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid team role")
}

func TestParseRejectsDuplicateMembership(t *testing.T) {
	_, err := Parse([]byte(`
users:
  u1:
    organizationId: org-1
    role: member
    teamMemberships:
      - teamId: maintenance
        role: manager
      - teamId: maintenance
        role: technician
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two roles")
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("users: ["))
	assert.Error(t, err)
}

func TestLookupsReturnCopies(t *testing.T) {
	d, err := Parse([]byte(sampleFixture))
	require.NoError(t, err)

	ctx := context.Background()

	u1, _ := d.UserContext(ctx, "u1")
	u1.TeamMemberships[0].Role = types.TeamRoleTechnician
	u1.Role = types.RoleOwner

	fresh, _ := d.UserContext(ctx, "u1")
	assert.Equal(t, types.RoleMember, fresh.Role)
	assert.Equal(t, types.TeamRoleManager, fresh.TeamMemberships[0].Role)
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFixture), 0o600))

	d, err := New(path)
	require.NoError(t, err)

	u, aerr := d.UserContext(context.Background(), "owner")
	require.Nil(t, aerr)
	assert.Equal(t, types.RoleOwner, u.Role)
}

func TestNewMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
