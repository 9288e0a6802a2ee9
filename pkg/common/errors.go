//
//  Copyright © Fieldworks Inc. All rights reserved.
//

// Package common provides shared types and utilities used across the
// permission engine packages.
//
// # Error Handling
//
// The [AuthzError] type provides structured error information for
// boundary failures, including machine-readable reason codes. Note that
// permission evaluation itself never produces errors: an unknown
// permission or a missing entity context simply resolves to a deny.
// AuthzError exists for the directory boundary and engine construction.
package common

import "fmt"

// ReasonCode classifies a boundary error.
type ReasonCode int

// The closed set of reason codes.
const (
	ReasonUnknown ReasonCode = iota
	// ReasonNotFound indicates a user or entity was not present in the
	// directory backing the lookup.
	ReasonNotFound
	// ReasonInvalidInput indicates a malformed context or request at the
	// boundary, such as an unparseable directory fixture.
	ReasonInvalidInput
	// ReasonCatalogIncomplete indicates the rule table failed its
	// construction-time completeness check.
	ReasonCatalogIncomplete
)

// String returns the symbolic name of the reason code.
func (c ReasonCode) String() string {
	switch c {
	case ReasonNotFound:
		return "NOTFOUND"
	case ReasonInvalidInput:
		return "INVALID_INPUT"
	case ReasonCatalogIncomplete:
		return "CATALOG_INCOMPLETE"
	}
	return "UNKNOWN"
}

// AuthzError represents an error encountered at the engine boundary.
//
// AuthzError includes both a machine-readable reason code and a
// human-readable message. It is returned by directory lookups and engine
// construction instead of the bare error interface so that callers can
// branch on the classification.
type AuthzError struct {
	// Code is the machine-readable error classification.
	Code ReasonCode
	// Reason is a human-readable description of the error.
	Reason string
}

// Error implements the error interface, returning a formatted string
// containing both the reason message and the reason code.
func (e *AuthzError) Error() string {
	return fmt.Sprintf("%s(code-%s)", e.Reason, e.Code)
}

// NewError creates a new [AuthzError] with the specified reason code and message.
func NewError(code ReasonCode, msg string) *AuthzError {
	return &AuthzError{Code: code, Reason: msg}
}

// NewErrorf creates a new [AuthzError] with a formatted message.
func NewErrorf(code ReasonCode, format string, args ...interface{}) *AuthzError {
	return &AuthzError{Code: code, Reason: fmt.Sprintf(format, args...)}
}
