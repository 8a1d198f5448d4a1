// Package errors provides structured error types for the mindcanvas engine.
//
// The layout engine reports three structural or numeric failures:
//
//   - ROOT_NOT_FOUND: the declared root id is not in the node snapshot
//   - CYCLIC_STRUCTURE: a parent/child cycle was found; NodeID names one member
//   - INVALID_GEOMETRY: NaN, infinite or degenerate numeric input
//
// Structural errors abort the affected layout pass. Geometry errors are local
// to the single computation that received the bad value. Orphaned nodes are
// never errors; they surface as warnings from the tree index.
//
// # Usage
//
//	err := errors.RootNotFound("root-1")
//	if errors.Is(err, errors.ErrCodeRootNotFound) {
//	    // fall back to the previous layout
//	}
//
//	if id, ok := errors.CycleNode(err); ok {
//	    // drop the subtree rooted at id and retry
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors
	ErrCodeRootNotFound     Code = "ROOT_NOT_FOUND"
	ErrCodeCyclicStructure  Code = "CYCLIC_STRUCTURE"
	ErrCodeNodeNotFound     Code = "NODE_NOT_FOUND"
	ErrCodeInvalidGeometry  Code = "INVALID_GEOMETRY"
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"
	ErrCodeInvalidStyle     Code = "INVALID_STYLE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	NodeID  string // Offending node, if any (set for CYCLIC_STRUCTURE)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// RootNotFound reports that id is not one of the supplied nodes.
func RootNotFound(id string) *Error {
	return &Error{
		Code:    ErrCodeRootNotFound,
		Message: fmt.Sprintf("root %q is not in the node set", id),
		NodeID:  id,
	}
}

// CyclicStructure reports a cycle that passes through id.
func CyclicStructure(id string) *Error {
	return &Error{
		Code:    ErrCodeCyclicStructure,
		Message: fmt.Sprintf("cycle detected at node %q", id),
		NodeID:  id,
	}
}

// NodeNotFound reports a reference to an id that is not in the node set.
func NodeNotFound(id string) *Error {
	return &Error{
		Code:    ErrCodeNodeNotFound,
		Message: fmt.Sprintf("node %q is not in the node set", id),
		NodeID:  id,
	}
}

// InvalidGeometry reports NaN, infinite or degenerate numeric input.
func InvalidGeometry(format string, args ...any) *Error {
	return New(ErrCodeInvalidGeometry, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// CycleNode returns the node id carried by a CYCLIC_STRUCTURE error.
func CycleNode(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) && e.Code == ErrCodeCyclicStructure {
		return e.NodeID, true
	}
	return "", false
}

// IsStructural reports whether err aborts a layout pass (missing root or cycle).
func IsStructural(err error) bool {
	code := GetCode(err)
	return code == ErrCodeRootNotFound || code == ErrCodeCyclicStructure
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
