//
//  Copyright © Fieldworks Inc. All rights reserved.
//
// shared between pkg/engine and internal/engine, and thus must be in a separate package to avoid circular dependencies

package options

import (
	"github.com/fieldworks/permengine/pkg/engine/decisionlog"
)

// EngineOptions defines the configuration options for initializing a
// permission engine, including the decision log factory and cache tuning.
type EngineOptions struct {
	DecisionLogFactory decisionlog.Factory
	CacheEnabled       bool
	CacheSize          int
}

// EngineOptionsFunc is a function that modifies EngineOptions.
type EngineOptionsFunc func(*EngineOptions)

// WithDecisionLog configures the decision log stream for the engine.
func WithDecisionLog(factory decisionlog.Factory) EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.DecisionLogFactory = factory
	}
}

// WithCacheSize configures the maximum number of memoized decisions the
// engine retains. Values below 1 are ignored in favor of the configured
// default.
func WithCacheSize(size int) EngineOptionsFunc {
	return func(o *EngineOptions) {
		if size > 0 {
			o.CacheSize = size
		}
	}
}

// WithCacheDisabled turns off decision memoization for the engine. The
// cache is an optimization only, so results are identical either way.
func WithCacheDisabled() EngineOptionsFunc {
	return func(o *EngineOptions) {
		o.CacheEnabled = false
	}
}

// AuthzOptions represents configuration options for individual permission
// checks.
type AuthzOptions struct {
	Probe     bool
	SkipCache bool
}

// AuthzOptionsFunc is a function that modifies AuthzOptions.
type AuthzOptionsFunc func(*AuthzOptions)

// SetProbeMode configures the probe mode for permission checks. Probe mode
// evaluates rules but does not log decisions, which is helpful for returning
// information about what capabilities a user has without impacting the audit
// trail. For instance, if you want to show a UI user whether they can edit a
// piece of equipment, you can check the permission in probe mode and use the
// outcome in the display. However, it would be unfair to generate an audit
// record that suggests that the user tried to edit the equipment, when really
// your service was merely testing to see if they could.
//
// Probe mode is disabled by default. Use with caution and only in places
// where you are sure that the decision doesn't require logging.
func SetProbeMode(probe bool) AuthzOptionsFunc {
	return func(o *AuthzOptions) {
		o.Probe = probe
	}
}

// SetSkipCache bypasses the decision cache for a single check, forcing a
// fresh rule walk. Useful immediately after an out-of-band role or
// membership change when the caller has not cleared the cache.
func SetSkipCache(skip bool) AuthzOptionsFunc {
	return func(o *AuthzOptions) {
		o.SkipCache = skip
	}
}
