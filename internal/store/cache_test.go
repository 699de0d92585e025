package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

type countingStore struct {
	slice models.LedgerSlice
	calls int
}

func (c *countingStore) GetAggregate(context.Context, models.LedgerKind, models.EntityKind, string, models.DateInterval) (models.LedgerSlice, error) {
	c.calls++
	return c.slice, nil
}

func (c *countingStore) ListVocabulary(context.Context, models.EntityKind) ([]string, error) {
	return []string{"MAIS"}, nil
}

func newCached(t *testing.T, inner LedgerStore) (*CachedStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCachedStore(inner, client, 5*time.Minute, logger.NewTestLogger(t)), mr
}

func TestCachedStoreMissThenHit(t *testing.T) {
	inner := &countingStore{slice: models.LedgerSlice{
		Aggregate: models.Aggregate{Sum: 500, Mean: 50, Min: 10, Max: 90, Count: 10},
		Daily:     models.DailyBreakdown{{Date: day(1), Total: 500, Entries: 10}},
	}}
	c, _ := newCached(t, inner)

	first, err := c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)

	second, err := c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
	require.Len(t, second.Daily, 1)
	assert.True(t, second.Daily[0].Date.Equal(day(1)))
}

func TestCachedStoreKeyDiscriminatesInterval(t *testing.T) {
	inner := &countingStore{slice: models.LedgerSlice{Aggregate: models.Aggregate{Sum: 1, Count: 1}}}
	c, _ := newCached(t, inner)

	_, err := c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)

	other := models.DateInterval{Start: day(1), End: day(15)}
	_, err = c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", other)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedStoreExpiry(t *testing.T) {
	inner := &countingStore{slice: models.LedgerSlice{Aggregate: models.Aggregate{Sum: 1, Count: 1}}}
	c, mr := newCached(t, inner)

	_, err := c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)

	mr.FastForward(6 * time.Minute)

	_, err = c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedStoreRedisDownFallsThrough(t *testing.T) {
	inner := &countingStore{slice: models.LedgerSlice{Aggregate: models.Aggregate{Sum: 1, Count: 1}}}
	c, mr := newCached(t, inner)
	mr.Close()

	slice, err := c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)
	assert.Equal(t, 1.0, slice.Aggregate.Sum)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedStoreCorruptEntryFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	inner := &countingStore{slice: models.LedgerSlice{Aggregate: models.Aggregate{Sum: 42, Count: 3}}}
	c := NewCachedStore(inner, client, time.Minute, logger.NewTestLogger(t))

	key := "agg:consumption:family:MAIS:2024-06-01:2024-06-30"
	data, err := json.Marshal(inner.slice)
	require.NoError(t, err)

	mock.ExpectGet(key).SetVal("{not json")
	mock.ExpectSet(key, data, time.Minute).SetVal("OK")

	slice, err := c.GetAggregate(context.Background(), models.LedgerConsumption, models.EntityFamily, "MAIS", juneInterval)
	require.NoError(t, err)
	assert.Equal(t, 42.0, slice.Aggregate.Sum)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStoreVocabularyPassthrough(t *testing.T) {
	c, _ := newCached(t, &countingStore{})

	labels, err := c.ListVocabulary(context.Background(), models.EntityFamily)
	require.NoError(t, err)
	assert.Equal(t, []string{"MAIS"}, labels)
}
