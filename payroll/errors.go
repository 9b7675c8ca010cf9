/*
errors.go - Centralized error types for payroll computation

PURPOSE:
  Payroll distinguishes two failure classes and this file carries the
  hard one. Soft anomalies (dirty punch data) are returned as values by
  the timeclock package and never surface as errors. Hard configuration
  errors (an hourly employee with no rate, an unknown compensation type)
  mean invalid setup: they are rejected eagerly, before any computation,
  and never discovered mid-run.

USAGE:
  if errors.Is(err, payroll.ErrMissingCompensationField) { ... }

  var missing *payroll.MissingCompensationFieldError
  if errors.As(err, &missing) { log.Println(missing.Field) }
*/
package payroll

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingCompensationField is returned when a compensation plan
	// lacks a field its type requires.
	ErrMissingCompensationField = errors.New("missing compensation field")

	// ErrInvalidCompensationType is returned for an unrecognized
	// compensation type.
	ErrInvalidCompensationType = errors.New("invalid compensation type")

	// ErrInvalidPeriod is returned when a payroll period is malformed
	// (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// MissingCompensationFieldError details which field a plan is missing.
type MissingCompensationFieldError struct {
	CompensationType CompensationType
	Field            string
}

func (e *MissingCompensationFieldError) Error() string {
	return fmt.Sprintf("%s compensation requires %s", e.CompensationType, e.Field)
}

func (e *MissingCompensationFieldError) Unwrap() error { return ErrMissingCompensationField }

// InvalidCompensationTypeError details an unknown compensation type.
type InvalidCompensationTypeError struct {
	Type string
}

func (e *InvalidCompensationTypeError) Error() string {
	return fmt.Sprintf("unknown compensation type %q", e.Type)
}

func (e *InvalidCompensationTypeError) Unwrap() error { return ErrInvalidCompensationType }

// IsConfigError returns true if the error is a compensation setup
// problem the caller must fix before a payroll run.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrMissingCompensationField) ||
		errors.Is(err, ErrInvalidCompensationType)
}
