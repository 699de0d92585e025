// internal/query/temporal/periods.go
package temporal

import (
	"time"

	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// dateOnly truncates an instant to its calendar date at midnight UTC.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// periodBounds returns the inclusive calendar interval of the period that
// sits offset units away from the reference instant. Weeks run Monday to
// Sunday, months and years follow calendar boundaries.
func periodBounds(ref time.Time, unit models.PeriodUnit, offset int) models.DateInterval {
	switch unit {
	case models.UnitDay:
		d := dateOnly(ref).AddDate(0, 0, offset)
		return models.DateInterval{Start: d, End: d}

	case models.UnitWeek:
		daysSinceMonday := (int(ref.Weekday()) + 6) % 7
		monday := dateOnly(ref).AddDate(0, 0, -daysSinceMonday+7*offset)
		return models.DateInterval{Start: monday, End: monday.AddDate(0, 0, 6)}

	case models.UnitMonth:
		// Month arithmetic on (year, month) pairs so a reference on the
		// 31st cannot skew into the wrong month.
		y, m := ref.Year(), int(ref.Month())-1+offset
		y += floorDiv(m, 12)
		m = mod(m, 12) + 1
		start := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		return models.DateInterval{Start: start, End: start.AddDate(0, 1, -1)}

	case models.UnitYear:
		y := ref.Year() + offset
		return models.DateInterval{
			Start: time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(y, time.December, 31, 0, 0, 0, 0, time.UTC),
		}
	}
	d := dateOnly(ref)
	return models.DateInterval{Start: d, End: d}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
