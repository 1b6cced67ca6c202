// Package redline error types distinguish fatal input problems from
// per-record soft failures that the projector counts and moves past.
package redline

import (
	"errors"
	"fmt"
)

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// MatchError represents a per-record matcher failure: no candidate paragraph,
// a score below the acceptance threshold, or an unavailable backend. It is a
// soft failure; the projector counts it and continues with the next record.
type MatchError struct {
	Stage  string
	Reason string
	Cause  error
}

func (e *MatchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("match error during %s: %s: %v", e.Stage, e.Reason, e.Cause)
	}
	return fmt.Sprintf("match error during %s: %s", e.Stage, e.Reason)
}

func (e *MatchError) Unwrap() error {
	return e.Cause
}

// NewMatchError creates a new match error
func NewMatchError(stage, reason string, cause error) error {
	return &MatchError{
		Stage:  stage,
		Reason: reason,
		Cause:  cause,
	}
}

// SpanError represents a failure to resolve a text span inside a target
// paragraph, most commonly a substring the matcher produced that does not
// occur verbatim in the paragraph. It is a soft failure.
type SpanError struct {
	Needle  string
	Message string
}

func (e *SpanError) Error() string {
	if e.Needle != "" {
		return fmt.Sprintf("span error: %s: %q", e.Message, e.Needle)
	}
	return fmt.Sprintf("span error: %s", e.Message)
}

// NewSpanError creates a new span error
func NewSpanError(message, needle string) error {
	return &SpanError{Message: message, Needle: needle}
}

// IsSoftFailure reports whether an error is a per-record failure that the
// projector should count and continue past rather than abort the run.
func IsSoftFailure(err error) bool {
	var me *MatchError
	var se *SpanError
	return errors.As(err, &me) || errors.As(err, &se)
}
