package temporal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Friday 2024-03-15 is the fixed reference used throughout.
var ref = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC)

func newResolver(t *testing.T) *Resolver {
	return NewResolver(logger.NewTestLogger(t))
}

func TestResolveExplicitRange(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name       string
		text       string
		start, end time.Time
	}{
		{"du au", "consommation du 01/06/2024 au 30/06/2024", date(2024, 6, 1), date(2024, 6, 30)},
		{"entre et", "mais entre le 01/06/2024 et le 30/06/2024", date(2024, 6, 1), date(2024, 6, 30)},
		{"dash separator", "ble 01-06-2024 au 30-06-2024", date(2024, 6, 1), date(2024, 6, 30)},
		{"reversed bounds", "du 30/06/2024 au 01/06/2024", date(2024, 6, 1), date(2024, 6, 30)},
		{"two digit year", "entre 01/06/24 et 15/06/24", date(2024, 6, 1), date(2024, 6, 15)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.text, ref)
			require.NotNil(t, res)
			assert.Equal(t, models.IntervalRange, res.Kind)
			assert.Equal(t, tt.start, res.Interval.Start)
			assert.Equal(t, tt.end, res.Interval.End)
		})
	}
}

func TestResolveExplicitSingle(t *testing.T) {
	r := newResolver(t)

	res := r.Resolve("consommation de mais le 15/06/2024", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalSingle, res.Kind)
	assert.Equal(t, date(2024, 6, 15), res.Interval.Start)
	assert.True(t, res.Interval.IsSingleDay())
}

func TestResolveSingleNotPartOfRange(t *testing.T) {
	r := newResolver(t)

	// The first date is followed by a connector; the text must come back
	// as a range, never as a single day cut at the first literal.
	res := r.Resolve("01/06/2024 au 30/06/2024", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalRange, res.Kind)
}

func TestResolveFirstLooseDateWins(t *testing.T) {
	r := newResolver(t)

	// Two dates without a range connector: the first one resolves alone.
	res := r.Resolve("mais 05/06/2024 puis 20/06/2024 svp", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalSingle, res.Kind)
	assert.Equal(t, date(2024, 6, 5), res.Interval.Start)
}

func TestResolveFallbackScan(t *testing.T) {
	r := newResolver(t)

	// The second literal is invalid, so the range and single passes both
	// fail and the loose scan picks up the one parsable date.
	res := r.Resolve("05/06/2024 au 31/02/2024", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalSingle, res.Kind)
	assert.Equal(t, date(2024, 6, 5), res.Interval.Start)
}

func TestResolveInvalidLiteralIgnored(t *testing.T) {
	r := newResolver(t)

	assert.Nil(t, r.Resolve("consommation le 31/02/2024", ref))
	assert.Nil(t, r.Resolve("consommation de mais", ref))
	assert.Nil(t, r.Resolve("", ref))
}

func TestResolveRelativeKeywords(t *testing.T) {
	r := newResolver(t)

	tests := []struct {
		name       string
		text       string
		kind       models.IntervalKind
		start, end time.Time
	}{
		{"yesterday", "consommation hier", models.IntervalSingle, date(2024, 3, 14), date(2024, 3, 14)},
		{"today", "ble aujourd'hui", models.IntervalSingle, date(2024, 3, 15), date(2024, 3, 15)},
		{"this week monday-sunday", "mais cette semaine", models.IntervalRange, date(2024, 3, 11), date(2024, 3, 17)},
		{"last week", "mais semaine derniere", models.IntervalRange, date(2024, 3, 4), date(2024, 3, 10)},
		{"this month", "ce mois", models.IntervalRange, date(2024, 3, 1), date(2024, 3, 31)},
		{"last month leap february", "mois dernier", models.IntervalRange, date(2024, 2, 1), date(2024, 2, 29)},
		{"accented last month", "le mois passé", models.IntervalRange, date(2024, 2, 1), date(2024, 2, 29)},
		{"this year", "cette annee", models.IntervalRange, date(2024, 1, 1), date(2024, 12, 31)},
		{"last year", "annee derniere", models.IntervalRange, date(2023, 1, 1), date(2023, 12, 31)},
		{"next month", "mois prochain", models.IntervalRange, date(2024, 4, 1), date(2024, 4, 30)},
		{"tomorrow", "demain", models.IntervalSingle, date(2024, 3, 16), date(2024, 3, 16)},
		{"english keyword", "consumption last month", models.IntervalRange, date(2024, 2, 1), date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.text, ref)
			require.NotNil(t, res)
			assert.Equal(t, tt.kind, res.Kind)
			assert.Equal(t, tt.start, res.Interval.Start)
			assert.Equal(t, tt.end, res.Interval.End)
			require.NotNil(t, res.Relative)
		})
	}
}

func TestResolveMonthBoundaryFromThirtyFirst(t *testing.T) {
	r := newResolver(t)

	// Reference on the 31st must not skew month arithmetic.
	res := r.Resolve("mois dernier", date(2024, 3, 31))
	require.NotNil(t, res)
	assert.Equal(t, date(2024, 2, 1), res.Interval.Start)
	assert.Equal(t, date(2024, 2, 29), res.Interval.End)

	res = r.Resolve("mois dernier", date(2024, 1, 15))
	require.NotNil(t, res)
	assert.Equal(t, date(2023, 12, 1), res.Interval.Start)
	assert.Equal(t, date(2023, 12, 31), res.Interval.End)
}

func TestResolveComparison(t *testing.T) {
	r := newResolver(t)

	tests := []string{
		"ce mois vs mois dernier",
		"comparer entre ce mois et mois dernier",
		"différence entre ce mois et mois dernier",
	}
	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			res := r.Resolve(text, ref)
			require.NotNil(t, res)
			assert.Equal(t, models.IntervalComparison, res.Kind)
			require.NotNil(t, res.Comparison)
			assert.Equal(t, date(2024, 3, 1), res.Comparison.Current.Start)
			assert.Equal(t, date(2024, 3, 31), res.Comparison.Current.End)
			assert.Equal(t, date(2024, 2, 1), res.Comparison.Prior.Start)
			assert.Equal(t, date(2024, 2, 29), res.Comparison.Prior.End)
		})
	}
}

func TestResolveComparisonWeek(t *testing.T) {
	r := newResolver(t)

	res := r.Resolve("cette semaine vs semaine dernière", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalComparison, res.Kind)
	require.NotNil(t, res.Comparison)
	assert.Equal(t, date(2024, 3, 11), res.Comparison.Current.Start)
	assert.Equal(t, date(2024, 3, 4), res.Comparison.Prior.Start)
	assert.Equal(t, date(2024, 3, 10), res.Comparison.Prior.End)
}

func TestResolveRelativeCount(t *testing.T) {
	r := newResolver(t)

	res := r.Resolve("consommation il y a 3 jours", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalSingle, res.Kind)
	assert.Equal(t, date(2024, 3, 12), res.Interval.Start)

	res = r.Resolve("il y a 2 semaines", ref)
	require.NotNil(t, res)
	assert.Equal(t, models.IntervalRange, res.Kind)
	assert.Equal(t, date(2024, 2, 26), res.Interval.Start)
	assert.Equal(t, date(2024, 3, 3), res.Interval.End)

	res = r.Resolve("il y a 2 mois", ref)
	require.NotNil(t, res)
	assert.Equal(t, date(2024, 1, 1), res.Interval.Start)
	assert.Equal(t, date(2024, 1, 31), res.Interval.End)
}

func TestParseDayFirst(t *testing.T) {
	d, ok := parseDayFirst("05/06/2024")
	require.True(t, ok)
	assert.Equal(t, date(2024, 6, 5), d)

	d, ok = parseDayFirst("05.06.24")
	require.True(t, ok)
	assert.Equal(t, date(2024, 6, 5), d)

	_, ok = parseDayFirst("32/01/2024")
	assert.False(t, ok)
	_, ok = parseDayFirst("15/13/2024")
	assert.False(t, ok)
}
