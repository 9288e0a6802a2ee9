//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package decisionlog provides interfaces and implementations for audit
// logging of permission decisions.
//
// Decision logs record authorization decisions made by the engine,
// creating an audit trail for compliance, debugging, and security
// monitoring. Each record includes the principal, the permission, the
// entity signature, the outcome, and which rule band produced it.
//
// # Built-in Implementations
//
// The package provides several stream implementations:
//   - [NewStdoutFactory]: Writes JSON records to stdout (default)
//   - [NewIoWriterFactory]: Writes JSON records to any io.Writer
//   - [NewNullFactory]: Discards all records (useful for testing)
//
// # Custom Implementations
//
// To implement a custom decision log (e.g., for Kafka or a database):
//
//  1. Implement the [Factory] interface to create stream instances
//  2. Implement the [Stream] interface to handle record delivery
//  3. Use [options.WithDecisionLog] when creating the engine
package decisionlog

import (
	"time"

	"github.com/fieldworks/permengine/pkg/engine/types"
)

// Decision values recorded in a [Record].
const (
	DecisionGrant = "GRANT"
	DecisionDeny  = "DENY"
)

// Record describes a single permission decision for the audit trail.
type Record struct {
	// ID uniquely identifies this record.
	ID string `json:"id"`
	// Timestamp is when the decision was made.
	Timestamp time.Time `json:"timestamp"`
	// UserID and OrganizationID identify the principal.
	UserID         string `json:"userId"`
	OrganizationID string `json:"organizationId"`
	// Role is the principal's organization role at decision time.
	Role types.Role `json:"role"`
	// Permission is the capability that was checked.
	Permission types.Permission `json:"permission"`
	// Entity is the entity context the decision was evaluated against,
	// nil for context-free checks.
	Entity *types.EntityContext `json:"entity,omitempty"`
	// Decision is [DecisionGrant] or [DecisionDeny].
	Decision string `json:"decision"`
	// Band names the rule band that produced the decision, or "default"
	// when no rule matched. Empty for cached results.
	Band string `json:"band,omitempty"`
	// Cached indicates the decision was served from the engine's cache.
	Cached bool `json:"cached"`
}

// Factory creates decision log [Stream] instances.
//
// The factory pattern enables deferred initialization of streaming
// resources. Early initialization (validating configuration) should
// happen during factory construction; late initialization (opening
// connections, allocating buffers) belongs in [Factory.NewStream]. The
// engine guarantees that configuration is fully loaded before NewStream
// is called.
type Factory interface {
	// NewStream creates a new decision log stream, ready to receive
	// records via [Stream.Send].
	NewStream() (Stream, error)
}

// Stream is the interface for sending decision records to an audit
// destination.
//
// Implementations must be safe for concurrent use by multiple goroutines.
// Send errors are logged by the engine but never affect the decision
// itself; implementations should handle retries internally if needed.
type Stream interface {
	// Send delivers a decision record to the audit destination. Send must
	// not modify the record.
	Send(record *Record) error

	// Close releases any resources held by the stream, flushing buffered
	// records first. The stream must not be used after Close.
	Close()
}
