//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package engine provides the primary interface for the Fieldworks
// Unified Permission Engine, a pure, stateless authorization evaluator
// that decides whether a named capability (e.g. "equipment.edit",
// "workorder.assign") is granted for a given user and optional entity
// context.
//
// The engine walks a fixed, prioritized rule table: organization-wide
// Owner/Admin rules first, then team-role rules scoped to the entity's
// owning team, then the work-order assignee rule, and finally a default
// deny. Decisions are memoized in an engine-owned cache and can be
// audit-logged per decision.
//
// # Quick Start
//
// Create an engine with default options (stdout decision log, memoization
// enabled):
//
//	eng, err := engine.NewEngine()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Make a decision:
//
//	allowed := eng.HasPermission(types.PermissionEquipmentEdit,
//	    types.UserContext{
//	        UserID:         "u1",
//	        OrganizationID: "org-1",
//	        Role:           types.RoleMember,
//	        TeamMemberships: []types.TeamMembership{
//	            {TeamID: "maintenance", Role: types.TeamRoleManager},
//	        },
//	    },
//	    &types.EntityContext{TeamID: "maintenance"})
//
// # Configuration
//
// The engine supports various configuration options via functional options:
//
//	eng, err := engine.NewEngine(
//	    options.WithDecisionLog(decisionlog.NewNullFactory()),
//	    options.WithCacheSize(4096),
//	)
//
// # Probe Mode
//
// For UI capabilities discovery without impacting the audit trail, use
// probe mode:
//
//	allowed := eng.HasPermission(perm, user, entity, options.SetProbeMode(true))
//
// See the [options] package for all available configuration options.
//
// # Enforcement
//
// The engine is advisory: it returns decisions, it does not block
// anything. Callers are responsible for actually refusing the guarded
// operation when the result is false.
package engine

import (
	"os"

	"github.com/fieldworks/permengine/internal/engine"
	"github.com/fieldworks/permengine/internal/logging"
	"github.com/fieldworks/permengine/pkg/engine/config"
	"github.com/fieldworks/permengine/pkg/engine/decisionlog"
	"github.com/fieldworks/permengine/pkg/engine/options"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/pkg/errors"
)

var logger = logging.GetLogger("permengine")
var agent = "permengine"

// Engine is the primary interface for making permission decisions.
//
// Engine evaluates checks by walking a fixed rule table in priority
// order: the first matching rule decides, and no match means deny.
// Unknown permission names are a normal, deniable input, never an error.
//
// Implementations of Engine are safe for concurrent use by multiple
// goroutines.
type Engine interface {
	// HasPermission decides whether the user holds the named permission
	// for the given entity context. Pass a nil entity for context-free
	// permissions such as organization.manage; a team- or assignee-scoped
	// rule that needs missing entity attributes simply does not match.
	//
	// For fixed inputs the result is deterministic, cached or not.
	HasPermission(permission types.Permission, user types.UserContext, entity *types.EntityContext, authzOptions ...options.AuthzOptionsFunc) bool

	// BatchCheck evaluates a set of permissions against one context,
	// returning a map from permission to decision. It is semantically
	// equivalent to calling HasPermission once per permission, sharing
	// the same cache; it exists to avoid redundant key construction and
	// to give callers a single round trip. Input order does not affect
	// the output, and duplicate permissions produce one entry.
	BatchCheck(permissions []types.Permission, user types.UserContext, entity *types.EntityContext, authzOptions ...options.AuthzOptionsFunc) map[types.Permission]bool

	// ClearCache drops all memoized decisions. Call it after an
	// out-of-band role or membership change known to the caller; it is
	// safe at any time and never required for correctness.
	ClearCache()

	// Close releases the decision log stream. The engine must not be
	// used after Close.
	Close()
}

// EngineImpl is the default implementation of the [Engine] interface.
//
// EngineImpl wraps the internal engine implementation and can be embedded
// or wrapped by applications that need to extend the engine's behavior.
//
// Use [NewEngine] to create a properly initialized instance.
type EngineImpl struct {
	instance *engine.Engine
}

// NewEngine creates and initializes a new [Engine] instance.
//
// By default, the engine logs decisions to stdout and memoizes them in an
// engine-owned cache sized by configuration. Use functional options to
// adjust:
//
//	eng, err := engine.NewEngine(
//	    options.WithDecisionLog(decisionlog.NewNullFactory()),
//	    options.WithCacheDisabled(),
//	)
//
// NewEngine loads configuration from environment variables and config
// files before initializing the engine; see the [config] package for
// details. The cache is scoped to the returned instance, so callers
// decide whether to share one engine across sessions or construct one per
// logical session.
//
// Returns an error if configuration loading fails or if the rule table
// does not cover the permission catalog.
func NewEngine(engineOptions ...options.EngineOptionsFunc) (Engine, error) {
	err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}

	opts := &options.EngineOptions{
		DecisionLogFactory: decisionlog.NewIoWriterFactoryWithOptions(os.Stdout, decisionlog.Options{
			PrettyPrint: config.VConfig.GetBool(config.DecisionLogPretty),
		}),
		CacheEnabled: config.VConfig.GetBool(config.CacheEnabled),
		CacheSize:    config.VConfig.GetInt(config.CacheSize),
	}
	for _, o := range engineOptions {
		o(opts)
	}

	instance, err := engine.NewEngine(opts)
	if err != nil {
		return nil, err
	}

	return &EngineImpl{
		instance: instance,
	}, nil
}

// HasPermission decides whether the user holds the named permission for
// the given entity context.
//
// Authorization options can modify the evaluation behavior:
//
//	// Enable probe mode to skip decision logging
//	allowed := eng.HasPermission(perm, user, entity, options.SetProbeMode(true))
//
// The decision is logged to the configured decision log (unless probe
// mode is enabled) and may be written to the cache. The provided contexts
// are never mutated or retained.
func (e *EngineImpl) HasPermission(permission types.Permission, user types.UserContext, entity *types.EntityContext, authzOptions ...options.AuthzOptionsFunc) bool {
	logger.Debug(agent, "HasPermission", "Enter")
	defer logger.Debug(agent, "HasPermission", "Exit")

	opts := &options.AuthzOptions{}
	for _, o := range authzOptions {
		o(opts)
	}

	decision := e.instance.HasPermission(permission, user, entity, opts)
	logger.Debugf(agent, "HasPermission", "%s -> %t", permission, decision)

	return decision
}

// BatchCheck evaluates a list of permissions against one context pair.
func (e *EngineImpl) BatchCheck(permissions []types.Permission, user types.UserContext, entity *types.EntityContext, authzOptions ...options.AuthzOptionsFunc) map[types.Permission]bool {
	logger.Debug(agent, "BatchCheck", "Enter")
	defer logger.Debug(agent, "BatchCheck", "Exit")

	opts := &options.AuthzOptions{}
	for _, o := range authzOptions {
		o(opts)
	}

	return e.instance.BatchCheck(permissions, user, entity, opts)
}

// ClearCache drops all memoized decisions held by this engine instance.
func (e *EngineImpl) ClearCache() {
	logger.Debug(agent, "ClearCache", "clearing decision cache")
	e.instance.ClearCache()
}

// Close releases the decision log stream held by this engine instance.
func (e *EngineImpl) Close() {
	logger.Debug(agent, "Close", "closing engine")
	e.instance.Close()
}
