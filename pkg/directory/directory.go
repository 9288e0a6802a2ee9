//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package directory defines the boundary through which authorization
// contexts are assembled.
//
// The permission engine itself never fetches organizational data; the
// identity/session provider, the team-membership directory, and the
// entity repositories are external collaborators. This package gives
// that boundary an explicit interface: a [Service] resolves user ids to
// [types.UserContext] values and entity references to
// [types.EntityContext] values, which callers then hand to the engine.
//
// The [static] subpackage provides a YAML-file-backed implementation used
// by the CLI and by tests.
package directory

import (
	"context"

	"github.com/fieldworks/permengine/pkg/common"
	"github.com/fieldworks/permengine/pkg/engine/types"
)

// Entity kinds understood by directory implementations.
const (
	KindEquipment = "equipment"
	KindWorkOrder = "workorder"
	KindTeam      = "team"
)

// Service assembles authorization contexts from out-of-band sources of
// truth.
//
// Implementations may perform I/O (a database, a remote identity
// provider) and therefore take a context.Context; the engine downstream
// of this boundary does not.
//
// All methods are safe for concurrent use by multiple goroutines.
//
// # Error Handling
//
// Methods return *[common.AuthzError] to carry a machine-readable reason
// code. A nil AuthzError indicates success. Note the asymmetry with the
// engine: a missing directory entry is an error here, while a missing
// rule match there is just a deny.
type Service interface {
	// UserContext resolves a user id to a fully assembled user context:
	// organization membership, organization role, and team memberships.
	//
	// The returned context is owned by the caller; implementations must
	// not retain or later mutate it.
	UserContext(ctx context.Context, userID string) (*types.UserContext, *common.AuthzError)

	// EntityContext resolves an entity reference (kind plus id) to the
	// entity attributes relevant to authorization: owning team and
	// assignee.
	EntityContext(ctx context.Context, kind, entityID string) (*types.EntityContext, *common.AuthzError)
}
