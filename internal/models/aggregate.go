// internal/models/aggregate.go
package models

import "time"

// EntityKind is the vocabulary an entity label was matched against.
type EntityKind string

const (
	EntityFamily  EntityKind = "family"
	EntityProduct EntityKind = "product"
	EntitySilo    EntityKind = "silo"
)

// LedgerKind selects which movement ledger a query reads.
type LedgerKind string

const (
	LedgerConsumption LedgerKind = "consumption"
	LedgerReception   LedgerKind = "reception"
)

// Aggregate carries the standard quantity aggregates over a ledger slice.
// When Count is zero every other field is zero as well.
type Aggregate struct {
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Variability is the max-min spread relative to the mean. Zero when the
// mean is not positive, so callers never divide by zero.
func (a Aggregate) Variability() float64 {
	if a.Mean <= 0 {
		return 0
	}
	return (a.Max - a.Min) / a.Mean
}

// DailyEntry is one calendar day of a breakdown.
type DailyEntry struct {
	Date    time.Time `json:"date"`
	Total   float64   `json:"total"`
	Entries int       `json:"entries"`
}

// DailyBreakdown lists per-day totals in chronological order.
type DailyBreakdown []DailyEntry

// SampleRow is a single ledger movement returned for display.
type SampleRow struct {
	Date     time.Time `json:"date"`
	Label    string    `json:"label"`
	Quantity float64   `json:"quantity"`
}

// LedgerSlice is everything the store returns for one entity and interval.
type LedgerSlice struct {
	Aggregate Aggregate      `json:"aggregate"`
	Daily     DailyBreakdown `json:"daily"`
	Rows      []SampleRow    `json:"rows"`
}
