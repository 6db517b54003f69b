// Package schema validates the discovery boundaries: the inbound
// request, the outbound classification record, and the per-candidate
// trail and billing-report shapes.
package schema

import "fmt"

// ValidationError reports a single field that failed validation.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func errMissing(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required field is missing"}
}

func errType(field, want string) *ValidationError {
	return &ValidationError{Field: field, Reason: "expected " + want}
}

func errValue(field, want string) *ValidationError {
	return &ValidationError{Field: field, Reason: "must equal " + want}
}
