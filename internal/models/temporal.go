// internal/models/temporal.go
package models

import "time"

// IntervalKind tells how a resolved date interval should be treated.
type IntervalKind string

const (
	IntervalSingle     IntervalKind = "single"
	IntervalRange      IntervalKind = "range"
	IntervalComparison IntervalKind = "comparison"
)

// PeriodUnit is the calendar unit of a relative temporal expression.
type PeriodUnit string

const (
	UnitDay   PeriodUnit = "day"
	UnitWeek  PeriodUnit = "week"
	UnitMonth PeriodUnit = "month"
	UnitYear  PeriodUnit = "year"
)

// DateInterval is an inclusive calendar interval. Invariant: Start <= End.
// Both bounds are dates at midnight UTC; a single-day query has Start == End.
type DateInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewDateInterval builds an interval from two dates in either order.
func NewDateInterval(a, b time.Time) DateInterval {
	if b.Before(a) {
		a, b = b, a
	}
	return DateInterval{Start: a, End: b}
}

// Days returns the inclusive number of calendar days covered.
func (i DateInterval) Days() int {
	return int(i.End.Sub(i.Start).Hours()/24) + 1
}

// IsSingleDay reports whether the interval covers exactly one date.
func (i DateInterval) IsSingleDay() bool {
	return i.Start.Equal(i.End)
}

// ComparisonIntervals holds the two periods of a comparison query,
// current first.
type ComparisonIntervals struct {
	Current DateInterval `json:"current"`
	Prior   DateInterval `json:"prior"`
	// Display names such as "ce mois" / "mois dernier".
	CurrentName string `json:"current_name"`
	PriorName   string `json:"prior_name"`
}

// RelativeMeta records which relative expression produced the interval.
type RelativeMeta struct {
	Unit   PeriodUnit `json:"unit"`
	Offset int        `json:"offset"`
}

// TemporalResult is the outcome of one date-resolution pass. Exactly one
// strategy populates it; Comparison is non-nil only for IntervalComparison.
type TemporalResult struct {
	Interval   DateInterval         `json:"interval"`
	Kind       IntervalKind         `json:"kind"`
	Comparison *ComparisonIntervals `json:"comparison,omitempty"`
	Relative   *RelativeMeta        `json:"relative,omitempty"`
}
