//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package engine contains the permission engine internals: the prioritized
// rule table, the evaluator, the decision cache, and decision logging.
//
// The public API lives in pkg/engine; this package is the implementation
// it wraps.
package engine

import (
	"time"

	"github.com/fieldworks/permengine/internal/engine/cache"
	"github.com/fieldworks/permengine/internal/logging"
	"github.com/fieldworks/permengine/pkg/engine/decisionlog"
	"github.com/fieldworks/permengine/pkg/engine/options"
	"github.com/fieldworks/permengine/pkg/engine/types"
	"github.com/google/uuid"
)

var logger = logging.GetLogger("permengine")

const agent string = "permengine"

// Engine evaluates permission checks against the compiled-in rule table.
//
// The rule table is immutable after construction and evaluation is pure,
// so an Engine is safe for concurrent use without coordination; the
// decision cache is the only shared mutable state and synchronizes
// itself. Concurrent misses on the same key may both compute and write,
// but determinism means they write the same value, so no lock is held
// around the miss path.
type Engine struct {
	rules ruleTable
	cache *cache.Cache // nil when memoization is disabled
	audit decisionlog.Stream
}

// NewEngine builds an engine from fully resolved options. It validates
// the rule table against the permission catalog so an incomplete table is
// a construction error rather than a call-time surprise.
func NewEngine(engineOptions *options.EngineOptions) (*Engine, error) {
	rules := newRuleTable()
	if err := rules.validate(types.Catalog()); err != nil {
		return nil, err
	}

	audit, err := engineOptions.DecisionLogFactory.NewStream()
	if err != nil {
		return nil, err
	}

	var c *cache.Cache
	if engineOptions.CacheEnabled {
		c, err = cache.New(engineOptions.CacheSize)
		if err != nil {
			return nil, err
		}
	}

	return &Engine{
		rules: rules,
		cache: c,
		audit: audit,
	}, nil
}

// HasPermission decides whether the user holds the named permission for
// the given entity context. entity may be nil for context-free checks.
func (e *Engine) HasPermission(permission types.Permission, user types.UserContext, entity *types.EntityContext, authOptions *options.AuthzOptions) bool {
	return e.check(permission, user, entity, contextSignature(user, entity), authOptions)
}

// BatchCheck evaluates a list of permissions against one context pair,
// reusing a single context signature and the shared cache. Duplicate
// permissions collapse to one entry. Each result is exactly what
// [Engine.HasPermission] would return for that permission.
func (e *Engine) BatchCheck(permissions []types.Permission, user types.UserContext, entity *types.EntityContext, authOptions *options.AuthzOptions) map[types.Permission]bool {
	signature := contextSignature(user, entity)

	results := make(map[types.Permission]bool, len(permissions))
	for _, p := range permissions {
		if _, done := results[p]; done {
			continue
		}
		results[p] = e.check(p, user, entity, signature, authOptions)
	}

	return results
}

// ClearCache drops all memoized decisions. Callers invoke this after an
// out-of-band role or membership change; it never affects correctness of
// subsequent checks, only their freshness.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func (e *Engine) check(permission types.Permission, user types.UserContext, entity *types.EntityContext, signature string, authOptions *options.AuthzOptions) bool {
	useCache := e.cache != nil && !authOptions.SkipCache

	key := cacheKey(signature, permission)
	if useCache {
		if decision, ok := e.cache.Get(key); ok {
			logger.Debugf(agent, "check", "cache hit %s -> %t", key, decision)
			e.logDecision(authOptions, user, entity, permission, decision, "", true)
			return decision
		}
	}

	decision, band := e.rules.evaluate(permission, user, entity)
	logger.Debugf(agent, "check", "evaluated %s -> %t (band %s)", key, decision, band)

	if useCache {
		e.cache.Set(key, decision)
	}

	e.logDecision(authOptions, user, entity, permission, decision, band, false)
	return decision
}

func (e *Engine) logDecision(authOptions *options.AuthzOptions, user types.UserContext, entity *types.EntityContext, permission types.Permission, decision bool, band string, cached bool) {
	if e.audit == nil || authOptions.Probe {
		return
	}

	record := &decisionlog.Record{
		ID:             uuid.New().String(),
		Timestamp:      time.Now(),
		UserID:         user.UserID,
		OrganizationID: user.OrganizationID,
		Role:           user.Role,
		Permission:     permission,
		Decision:       decisionlog.DecisionDeny,
		Band:           band,
		Cached:         cached,
	}
	if decision {
		record.Decision = decisionlog.DecisionGrant
	}
	if entity != nil {
		cp := *entity
		record.Entity = &cp
	}

	if err := e.audit.Send(record); err != nil {
		logger.Errorf(agent, "logDecision", "unable to send record to decision log %+v", err)
	}
}

// Close releases the decision log stream. The engine must not be used
// after Close.
func (e *Engine) Close() {
	if e.audit != nil {
		e.audit.Close()
	}
}
