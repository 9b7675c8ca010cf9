/*
Package timeclock reconstructs work and break periods from raw clock events.

PURPOSE:
  Time-clock data is dirty by nature: kiosk punches arrive out of order,
  managers re-punch to correct mistakes, and employees forget to clock out.
  This package turns that stream into something payroll can trust: a list
  of work/break periods plus a list of structured anomalies for everything
  it could not trust.

KEY CONCEPTS IN THIS FILE (types.go):
  - Punch: A single immutable clock event (in, out, break start/end)
  - WorkPeriod: A derived contiguous interval of work or break
  - Anomaly: A non-fatal flag describing a sequence irregularity

DESIGN PRINCIPLES:
  1. Never fail: malformed input degrades to anomalies, not errors.
     Payroll must always be computable; managers review flags afterward.
  2. Never lose information: every irregular shift is reported. Long but
     plausible shifts are counted with a warning; gaps too long to trust
     are excluded from paid time but still flagged.
  3. Integer time: all duration math stays in time.Duration. Fractional
     hours appear only at formatting boundaries.

SEE ALSO:
  - sequencer.go: The punch state machine
  - overtime.go: Weekly regular/overtime allocation
*/
package timeclock

import (
	"fmt"
	"time"
)

// =============================================================================
// PUNCH - Immutable clock event
// =============================================================================

type PunchType string

const (
	ClockIn    PunchType = "clock_in"
	ClockOut   PunchType = "clock_out"
	BreakStart PunchType = "break_start"
	BreakEnd   PunchType = "break_end"
)

// ValidPunchType reports whether s is one of the four event types.
func ValidPunchType(s string) bool {
	switch PunchType(s) {
	case ClockIn, ClockOut, BreakStart, BreakEnd:
		return true
	}
	return false
}

// Punch is a single clock event. Created by the time-tracking surface;
// consumed read-only here.
type Punch struct {
	EmployeeID string
	Type       PunchType
	At         time.Time
}

// =============================================================================
// WORK PERIOD - Derived interval
// =============================================================================

// WorkPeriod is one contiguous interval of work or break.
// Invariant: End is never before Start.
type WorkPeriod struct {
	Start   time.Time
	End     time.Time
	IsBreak bool
}

func (w WorkPeriod) Duration() time.Duration { return w.End.Sub(w.Start) }

// Hours converts to fractional hours. Formatting/output boundary only;
// internal math uses Duration.
func (w WorkPeriod) Hours() float64 { return w.Duration().Hours() }

// =============================================================================
// ANOMALY - Structured, non-fatal irregularity
// =============================================================================

type AnomalyKind string

const (
	MissingClockOut AnomalyKind = "missing_clock_out"
	MissingClockIn  AnomalyKind = "missing_clock_in"
	ShiftTooLong    AnomalyKind = "shift_too_long"
)

// Anomaly is a first-class output of the sequencer, never an error.
type Anomaly struct {
	EmployeeID string
	Kind       AnomalyKind
	AnchorTime time.Time
	Message    string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s at %s: %s", a.Kind, a.AnchorTime.Format(time.RFC3339), a.Message)
}
