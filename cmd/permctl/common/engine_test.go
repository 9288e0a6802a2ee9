//
//  Copyright © Fieldworks Inc. All rights reserved.
//

package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fieldworks/permengine/pkg/directory"
	"github.com/fieldworks/permengine/pkg/directory/static"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `
users:
  u1:
    organizationId: org-1
    role: member
    teamMemberships:
      - teamId: maintenance
        role: manager
entities:
  workorder:
    wo-100:
      teamId: maintenance
      assigneeId: u1
`

func createTempFixture(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "directory.yml")
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0600))
	return path
}

func createTestDirectory(t *testing.T) directory.Service {
	dir, err := static.New(createTempFixture(t))
	require.NoError(t, err)
	return dir
}

func TestResolveContexts(t *testing.T) {
	dir := createTestDirectory(t)

	user, entity, err := ResolveContexts(context.Background(), dir, "u1", "workorder/wo-100")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Equal(t, types.RoleMember, user.Role)
	require.NotNil(t, entity)
	assert.Equal(t, "maintenance", entity.TeamID)
	assert.Equal(t, "u1", entity.AssigneeID)
}

func TestResolveContexts_NoEntity(t *testing.T) {
	dir := createTestDirectory(t)

	user, entity, err := ResolveContexts(context.Background(), dir, "u1", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	assert.Nil(t, entity)
}

func TestResolveContexts_RequiresDirectory(t *testing.T) {
	_, _, err := ResolveContexts(context.Background(), nil, "u1", "")
	assert.ErrorContains(t, err, "--directory")
}

func TestResolveContexts_RequiresUser(t *testing.T) {
	dir := createTestDirectory(t)

	_, _, err := ResolveContexts(context.Background(), dir, "", "")
	assert.ErrorContains(t, err, "--user")
}

func TestResolveContexts_UnknownUser(t *testing.T) {
	dir := createTestDirectory(t)

	_, _, err := ResolveContexts(context.Background(), dir, "nobody", "")
	assert.Error(t, err)
}

func TestResolveContexts_BadEntityRef(t *testing.T) {
	dir := createTestDirectory(t)

	for _, ref := range []string{"workorder", "/wo-100", "workorder/"} {
		_, _, err := ResolveContexts(context.Background(), dir, "u1", ref)
		assert.Error(t, err, "ref %q", ref)
	}
}

func TestSplitEntityRef(t *testing.T) {
	kind, id, ok := splitEntityRef("equipment/pump-7")
	require.True(t, ok)
	assert.Equal(t, "equipment", kind)
	assert.Equal(t, "pump-7", id)

	// only the first slash splits; ids may contain slashes
	kind, id, ok = splitEntityRef("workorder/a/b")
	require.True(t, ok)
	assert.Equal(t, "workorder", kind)
	assert.Equal(t, "a/b", id)
}
