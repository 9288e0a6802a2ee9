//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package static provides a [directory.Service] backed by a YAML fixture
// file. It is used by the permctl CLI and by tests; production deployments
// implement [directory.Service] against their own sources of truth.
//
// Fixture format:
//
//	users:
//	  u1:
//	    organizationId: org-1
//	    role: member
//	    teamMemberships:
//	      - teamId: maintenance
//	        role: manager
//	entities:
//	  workorder:
//	    wo-100:
//	      teamId: maintenance
//	      assigneeId: u1
//	  equipment:
//	    pump-7:
//	      teamId: maintenance
package static

import (
	"context"
	"os"

	"github.com/fieldworks/permengine/internal/logging"
	"github.com/fieldworks/permengine/pkg/common"
	"github.com/fieldworks/permengine/pkg/directory"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var logger = logging.GetLogger("directory.static")

const agent = "static"

type fixture struct {
	Users    map[string]types.UserContext              `yaml:"users"`
	Entities map[string]map[string]types.EntityContext `yaml:"entities"`
}

// Directory is an immutable, in-memory [directory.Service] loaded from a
// YAML fixture. Lookups return deep copies, so callers can never mutate
// directory state through a returned context.
type Directory struct {
	users    map[string]types.UserContext
	entities map[string]map[string]types.EntityContext
}

// New loads a directory fixture from the given YAML file.
func New(path string) (*Directory, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is an operator-supplied fixture
	if err != nil {
		return nil, errors.Wrapf(err, "error reading directory fixture %s", path)
	}
	return Parse(data)
}

// Parse builds a directory from raw fixture YAML.
//
// Role values are validated here: an invalid role in a fixture is a
// configuration error surfaced at load time, so the engine never sees a
// context outside the enumerated role sets.
func Parse(data []byte) (*Directory, error) {
	var f fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "error parsing directory fixture")
	}

	users := make(map[string]types.UserContext, len(f.Users))
	for id, u := range f.Users {
		u.UserID = id
		if !u.Role.Valid() {
			return nil, common.NewErrorf(common.ReasonInvalidInput, "user %q has invalid role %q", id, u.Role)
		}
		seen := make(map[string]bool, len(u.TeamMemberships))
		for _, m := range u.TeamMemberships {
			if !m.Role.Valid() {
				return nil, common.NewErrorf(common.ReasonInvalidInput, "user %q has invalid team role %q on team %q", id, m.Role, m.TeamID)
			}
			if seen[m.TeamID] {
				return nil, common.NewErrorf(common.ReasonInvalidInput, "user %q holds two roles on team %q", id, m.TeamID)
			}
			seen[m.TeamID] = true
		}
		users[id] = u
	}

	logger.Debugf(agent, "Parse", "loaded %d users, %d entity kinds", len(users), len(f.Entities))

	return &Directory{
		users:    users,
		entities: f.Entities,
	}, nil
}

// UserContext resolves a user id to its assembled context.
func (d *Directory) UserContext(_ context.Context, userID string) (*types.UserContext, *common.AuthzError) {
	u, ok := d.users[userID]
	if !ok {
		return nil, common.NewErrorf(common.ReasonNotFound, "user %q not found", userID)
	}

	cp := deepcopy.Copy(u).(types.UserContext)
	return &cp, nil
}

// EntityContext resolves an entity reference to its authorization
// attributes.
func (d *Directory) EntityContext(_ context.Context, kind, entityID string) (*types.EntityContext, *common.AuthzError) {
	e, ok := d.entities[kind][entityID]
	if !ok {
		return nil, common.NewErrorf(common.ReasonNotFound, "%s %q not found", kind, entityID)
	}

	cp := deepcopy.Copy(e).(types.EntityContext)
	return &cp, nil
}

// interface conformance
var _ directory.Service = (*Directory)(nil)
