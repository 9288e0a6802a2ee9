//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package decisionpoint provides interfaces and implementations for
// Policy Decision Point (PDP) servers.
//
// A PDP server exposes the permission engine as a network service that
// Policy Enforcement Points (PEPs) can call to make authorization
// decisions. The decision point never enforces anything itself; callers
// remain responsible for blocking the guarded operation when a check
// returns false.
//
// # Usage
//
// Create and start a decision point server:
//
//	eng, _ := engine.NewEngine()
//	server, _ := rest.CreateServer(eng, dir, 8080)
//	defer server.Stop(ctx)
package decisionpoint

import "context"

// Server is the interface for PDP servers that can be gracefully stopped.
//
// Implementations must ensure that [Server.Stop] completes any in-flight
// requests before returning.
type Server interface {
	// Stop gracefully shuts down the server, waiting for active requests
	// to complete or until the context is cancelled.
	Stop(context.Context) error
}
