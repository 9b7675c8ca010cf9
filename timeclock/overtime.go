package timeclock

import (
	"sort"
	"time"
)

// =============================================================================
// OVERTIME ALLOCATION - Weekly regular/overtime split
// =============================================================================

// OvertimeThreshold is the weekly hours boundary above which time is paid
// at the overtime multiplier.
const OvertimeThreshold = 40 * time.Hour

// OvertimeMultiplier is fixed at time-and-a-half.
const OvertimeMultiplier = 1.5

// WeekTotals is one calendar week's worked time, split at the overtime
// threshold. Invariant: Regular + Overtime == Total, exactly.
type WeekTotals struct {
	WeekStart time.Time
	Total     time.Duration
	Regular   time.Duration
	Overtime  time.Duration
}

func (w WeekTotals) RegularHours() float64  { return w.Regular.Hours() }
func (w WeekTotals) OvertimeHours() float64 { return w.Overtime.Hours() }

// WeekOf returns midnight of the most recent weekStart day on or before t,
// in t's location. Every instant maps to exactly one week.
func WeekOf(t time.Time, weekStart time.Weekday) time.Time {
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(t.Weekday()) - int(weekStart) + 7) % 7
	return midnight.AddDate(0, 0, -back)
}

// AllocateOvertime groups work periods by calendar week and splits each
// week's total at the 40h threshold. Break periods never count. The split
// is per calendar week, never per pay period: a two-week period of 45h+35h
// yields 5 overtime hours.
//
// A period belongs to the week its start falls in; overnight shifts are
// credited to the day the shift began.
func AllocateOvertime(periods []WorkPeriod, weekStart time.Weekday) []WeekTotals {
	byWeek := make(map[time.Time]time.Duration)
	for _, p := range periods {
		if p.IsBreak {
			continue
		}
		wk := WeekOf(p.Start, weekStart)
		byWeek[wk] += p.Duration()
	}

	weeks := make([]WeekTotals, 0, len(byWeek))
	for wk, total := range byWeek {
		regular := total
		var overtime time.Duration
		if total > OvertimeThreshold {
			regular = OvertimeThreshold
			overtime = total - OvertimeThreshold
		}
		weeks = append(weeks, WeekTotals{WeekStart: wk, Total: total, Regular: regular, Overtime: overtime})
	}

	// Deterministic output order regardless of map iteration.
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].WeekStart.Before(weeks[j].WeekStart) })
	return weeks
}
