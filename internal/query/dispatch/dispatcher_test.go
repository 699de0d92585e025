package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

type stubReader struct {
	mu     sync.Mutex
	slices map[string]models.LedgerSlice
	err    error
	calls  int
}

func (s *stubReader) GetAggregate(_ context.Context, _ models.LedgerKind, _ models.EntityKind, _ string, interval models.DateInterval) (models.LedgerSlice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return models.LedgerSlice{}, s.err
	}
	return s.slices[interval.Start.Format("2006-01-02")], nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var mais = models.EntityMatch{Label: "MAIS", Kind: models.EntityFamily, Score: 1}

func TestFetch(t *testing.T) {
	interval := models.DateInterval{Start: day(2024, 6, 1), End: day(2024, 6, 30)}
	reader := &stubReader{slices: map[string]models.LedgerSlice{
		"2024-06-01": {Aggregate: models.Aggregate{Sum: 500, Mean: 50, Min: 10, Max: 90, Count: 10}},
	}}
	d := NewDispatcher(reader, logger.NewTestLogger(t))

	slice, err := d.Fetch(context.Background(), models.LedgerConsumption, mais, interval)
	require.NoError(t, err)
	assert.Equal(t, 500.0, slice.Aggregate.Sum)
	assert.Equal(t, 1, reader.calls)
}

func TestFetchError(t *testing.T) {
	reader := &stubReader{err: errors.New("connection refused")}
	d := NewDispatcher(reader, logger.NewTestLogger(t))

	_, err := d.Fetch(context.Background(), models.LedgerConsumption, mais, models.DateInterval{})
	assert.Error(t, err)
}

func TestFetchComparison(t *testing.T) {
	cmp := models.ComparisonIntervals{
		Current:     models.DateInterval{Start: day(2024, 3, 1), End: day(2024, 3, 31)},
		Prior:       models.DateInterval{Start: day(2024, 2, 1), End: day(2024, 2, 29)},
		CurrentName: "ce mois",
		PriorName:   "mois dernier",
	}
	reader := &stubReader{slices: map[string]models.LedgerSlice{
		"2024-03-01": {Aggregate: models.Aggregate{Sum: 600, Mean: 20, Count: 30}},
		"2024-02-01": {Aggregate: models.Aggregate{Sum: 400, Mean: 16, Count: 25}},
	}}
	d := NewDispatcher(reader, logger.NewTestLogger(t))

	result, current, err := d.FetchComparison(context.Background(), models.LedgerConsumption, mais, cmp)
	require.NoError(t, err)
	assert.Equal(t, 2, reader.calls)
	assert.Equal(t, 600.0, current.Aggregate.Sum)
	assert.Equal(t, "ce mois", result.Current.Name)
	assert.Equal(t, "mois dernier", result.Prior.Name)
	assert.Equal(t, 200.0, result.Diff.TotalAbsolute)
	assert.Equal(t, 50.0, result.Diff.TotalPercent)
}

func TestFetchComparisonPropagatesError(t *testing.T) {
	reader := &stubReader{err: errors.New("timeout")}
	d := NewDispatcher(reader, logger.NewTestLogger(t))

	_, _, err := d.FetchComparison(context.Background(), models.LedgerConsumption, mais, models.ComparisonIntervals{})
	assert.Error(t, err)
}
