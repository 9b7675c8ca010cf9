/*
sequencer.go - Punch sequence state machine

PURPOSE:
  Converts a raw punch stream into work/break periods. The machine has
  three states (Idle, Clocked-In, On-Break) driven by the four punch
  types. It is written as a pure reducer so individual transitions are
  unit-testable without a full punch list.

PIPELINE:
  1. Sort punches by time ascending.
  2. Deduplicate: a run of same-type punches within 5 minutes collapses
     to the last one (a re-punch is treated as a manager correction).
  3. Fold the reducer over the sequence.
  4. Flush: an open shift at end of input becomes a missing_clock_out.

THRESHOLDS:
  MaxShiftLength (16h): longer shifts are counted but flagged
  shift_too_long for review.
  MaxShiftGap (18h): longer gaps between in and out are untrusted
  (likely missing intermediate punches) and excluded from paid time,
  flagged missing_clock_out.

SEE ALSO:
  - types.go: Punch, WorkPeriod, Anomaly
  - overtime.go: Consumes the emitted work periods
*/
package timeclock

import (
	"fmt"
	"sort"
	"time"
)

const (
	// DedupWindow collapses same-type punches this close together.
	DedupWindow = 5 * time.Minute

	// MaxShiftLength is the longest shift still counted as paid time.
	MaxShiftLength = 16 * time.Hour

	// MaxShiftGap is the longest in/out gap trusted at all.
	MaxShiftGap = 18 * time.Hour
)

// =============================================================================
// REDUCER STATE
// =============================================================================

// State is the sequencer's full state between punches.
// Zero value is Idle.
type State struct {
	// OpenShift anchors the current work sub-period, nil when idle or
	// on break.
	OpenShift *Punch

	// OpenBreak anchors the current break, nil otherwise.
	OpenBreak *Punch
}

func (s State) Idle() bool      { return s.OpenShift == nil && s.OpenBreak == nil }
func (s State) ClockedIn() bool { return s.OpenShift != nil }
func (s State) OnBreak() bool   { return s.OpenBreak != nil }

// =============================================================================
// REDUCER
// =============================================================================

// Reduce applies one punch to the state, returning the new state plus any
// periods and anomalies the transition emits. It never fails.
func Reduce(s State, p Punch) (State, []WorkPeriod, []Anomaly) {
	switch p.Type {
	case ClockIn:
		return reduceClockIn(s, p)
	case ClockOut:
		return reduceClockOut(s, p)
	case BreakStart:
		return reduceBreakStart(s, p)
	case BreakEnd:
		return reduceBreakEnd(s, p)
	}
	// Unknown punch types are ignored rather than trusted.
	return s, nil, nil
}

func reduceClockIn(s State, p Punch) (State, []WorkPeriod, []Anomaly) {
	var anomalies []Anomaly
	if s.OpenShift != nil {
		// Previous shift never closed. Flag it at the old clock-in and
		// start fresh from this punch.
		anomalies = append(anomalies, Anomaly{
			EmployeeID: p.EmployeeID,
			Kind:       MissingClockOut,
			AnchorTime: s.OpenShift.At,
			Message:    "clock-in while a shift was already open; previous shift has no clock-out",
		})
	}
	open := p
	return State{OpenShift: &open}, nil, anomalies
}

func reduceClockOut(s State, p Punch) (State, []WorkPeriod, []Anomaly) {
	if s.OpenShift == nil {
		return State{}, nil, []Anomaly{{
			EmployeeID: p.EmployeeID,
			Kind:       MissingClockIn,
			AnchorTime: p.At,
			Message:    "clock-out without a matching clock-in",
		}}
	}

	gap := p.At.Sub(s.OpenShift.At)
	switch {
	case gap > MaxShiftGap:
		// Too long to trust: almost certainly missing punches in
		// between. Exclude from paid time entirely.
		return State{}, nil, []Anomaly{{
			EmployeeID: p.EmployeeID,
			Kind:       MissingClockOut,
			AnchorTime: s.OpenShift.At,
			Message:    fmt.Sprintf("gap of %.1fh between clock-in and clock-out exceeds %.0fh; period excluded from paid hours", gap.Hours(), MaxShiftGap.Hours()),
		}}

	case gap > MaxShiftLength:
		// Long but plausible: count the hours, flag for review.
		period := WorkPeriod{Start: s.OpenShift.At, End: p.At}
		return State{}, []WorkPeriod{period}, []Anomaly{{
			EmployeeID: p.EmployeeID,
			Kind:       ShiftTooLong,
			AnchorTime: s.OpenShift.At,
			Message:    fmt.Sprintf("shift of %.1fh exceeds %.0fh", gap.Hours(), MaxShiftLength.Hours()),
		}}

	default:
		return State{}, []WorkPeriod{{Start: s.OpenShift.At, End: p.At}}, nil
	}
}

func reduceBreakStart(s State, p Punch) (State, []WorkPeriod, []Anomaly) {
	// Only effective with an open shift and no open break.
	if s.OpenShift == nil || s.OpenBreak != nil {
		return s, nil, nil
	}
	if p.At.Before(s.OpenShift.At) {
		// Out-of-order leftovers after sorting can only mean duplicate
		// timestamps; never emit a negative period.
		return s, nil, nil
	}
	open := p
	return State{OpenBreak: &open}, []WorkPeriod{{Start: s.OpenShift.At, End: p.At}}, nil
}

func reduceBreakEnd(s State, p Punch) (State, []WorkPeriod, []Anomaly) {
	if s.OpenBreak == nil {
		return s, nil, nil
	}
	breakPeriod := WorkPeriod{Start: s.OpenBreak.At, End: p.At, IsBreak: true}
	// Work resumes at break end: the next work sub-period starts here.
	resumed := Punch{EmployeeID: p.EmployeeID, Type: ClockIn, At: p.At}
	return State{OpenShift: &resumed}, []WorkPeriod{breakPeriod}, nil
}

// Flush emits the trailing anomaly for a shift left open at end of input.
func Flush(s State) []Anomaly {
	if s.OpenShift == nil {
		return nil
	}
	return []Anomaly{{
		EmployeeID: s.OpenShift.EmployeeID,
		Kind:       MissingClockOut,
		AnchorTime: s.OpenShift.At,
		Message:    "shift still open at end of punch data",
	}}
}

// =============================================================================
// PIPELINE
// =============================================================================

// ParseWorkPeriods runs the full pipeline over one employee's punches.
// Input may be empty, unordered, duplicated, or missing pairs; the result
// is always best-effort periods plus anomalies.
func ParseWorkPeriods(punches []Punch) ([]WorkPeriod, []Anomaly) {
	sorted := make([]Punch, len(punches))
	copy(sorted, punches)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })

	deduped := Dedup(sorted)

	var (
		state     State
		periods   []WorkPeriod
		anomalies []Anomaly
	)
	for _, p := range deduped {
		var ps []WorkPeriod
		var as []Anomaly
		state, ps, as = Reduce(state, p)
		periods = append(periods, ps...)
		anomalies = append(anomalies, as...)
	}
	anomalies = append(anomalies, Flush(state)...)

	return periods, anomalies
}

// Dedup collapses runs of same-type punches within DedupWindow of each
// other, keeping the last: a quick re-punch is a correction of the
// earlier one. Input must be sorted by time.
func Dedup(sorted []Punch) []Punch {
	var out []Punch
	for _, p := range sorted {
		if n := len(out); n > 0 &&
			out[n-1].Type == p.Type &&
			p.At.Sub(out[n-1].At) <= DedupWindow {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}
