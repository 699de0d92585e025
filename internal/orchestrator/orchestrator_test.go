package orchestrator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "github.com/aymanbm/rag-app-consommation/internal/common/errors"
	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/dispatch"
	"github.com/aymanbm/rag-app-consommation/internal/query/entity"
	"github.com/aymanbm/rag-app-consommation/internal/query/synthesis"
)

// Friday 15/03/2024 anchors every relative date in these tests.
var testRef = time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)

type stubProvider struct{}

func (stubProvider) ListVocabulary(_ context.Context, kind models.EntityKind) ([]string, error) {
	switch kind {
	case models.EntityFamily:
		return []string{"MAIS", "ORGE", "BLE FOURRAGER"}, nil
	case models.EntityProduct:
		return []string{"MAIS AMERICAIN", "ORGE RUSSE"}, nil
	default:
		return []string{"1SN12", "2SN04"}, nil
	}
}

type stubReader struct {
	mu      sync.Mutex
	slices  map[string]models.LedgerSlice
	starts  []string
	ledgers []models.LedgerKind
}

func (s *stubReader) GetAggregate(_ context.Context, ledger models.LedgerKind, _ models.EntityKind, _ string, interval models.DateInterval) (models.LedgerSlice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := interval.Start.Format("2006-01-02")
	s.starts = append(s.starts, key)
	s.ledgers = append(s.ledgers, ledger)
	return s.slices[key], nil
}

func newOrchestrator(t *testing.T, reader *stubReader) *Orchestrator {
	log := logger.NewTestLogger(t)
	catalog := entity.NewCatalog(stubProvider{}, log)
	require.NoError(t, catalog.Reload(context.Background()))

	return New(
		catalog,
		dispatch.NewDispatcher(reader, log),
		synthesis.NewSynthesizer(nil, log),
		models.ModeServer,
		log,
	).WithClock(func() time.Time { return testRef })
}

func TestAnswerExplicitRange(t *testing.T) {
	reader := &stubReader{slices: map[string]models.LedgerSlice{
		"2024-06-01": {
			Aggregate: models.Aggregate{Sum: 500, Mean: 50, Min: 10, Max: 90, Count: 10},
			Daily: models.DailyBreakdown{
				{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Total: 200, Entries: 4},
				{Date: time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC), Total: 300, Entries: 6},
			},
			Rows: []models.SampleRow{{Date: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Label: "MAIS", Quantity: 120}},
		},
	}}
	o := newOrchestrator(t, reader)

	env, err := o.Answer(context.Background(), models.Question{Question: "consommation de mais du 01/06/2024 au 30/06/2024"})
	require.NoError(t, err)

	assert.Contains(t, env.Response, "500.00")
	assert.Contains(t, env.Response, "10 entrées")
	assert.Equal(t, models.IntervalRange, env.Computed.DateType)
	assert.Equal(t, 500.0, env.Computed.Sum)
	assert.Equal(t, 10, env.Computed.Count)
	assert.Equal(t, models.ComplexitySimple, env.Computed.ComplexityType)
	assert.False(t, env.Computed.IntelligenceUsed)

	require.Len(t, env.Computed.DailyBreakdown, 2)
	assert.Equal(t, "01/06/2024", env.Computed.DailyBreakdown[0].Date)
	assert.Equal(t, 200.0, env.Computed.DailyBreakdown[0].Total)

	require.Len(t, env.Rows, 1)
	assert.Equal(t, "MAIS", env.Rows[0].Label)

	assert.Equal(t, "MAIS", env.Debug.DetectedEntity)
	assert.Equal(t, models.EntityFamily, env.Debug.EntityKind)
	assert.Equal(t, models.LedgerConsumption, env.Debug.Ledger)
	assert.Equal(t, "01/06/2024", env.Debug.ParsedStart)
	assert.Equal(t, "30/06/2024", env.Debug.ParsedEnd)
	assert.Equal(t, "15/03/2024", env.Debug.ReferenceDate)
	assert.NotEmpty(t, env.Debug.RequestID)
	assert.GreaterOrEqual(t, env.ExecutionTimeSeconds, 0.0)
}

func TestAnswerNoDateSkipsStore(t *testing.T) {
	reader := &stubReader{}
	o := newOrchestrator(t, reader)

	_, err := o.Answer(context.Background(), models.Question{Question: "combien de mais"})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeDateNotResolved, stderrors.CodeOf(err))
	assert.Empty(t, reader.starts)
}

func TestAnswerUnknownEntitySkipsStore(t *testing.T) {
	reader := &stubReader{}
	o := newOrchestrator(t, reader)

	_, err := o.Answer(context.Background(), models.Question{Question: "total de gravier hier"})
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeEntityNotResolved, stderrors.CodeOf(err))
	assert.Empty(t, reader.starts)
}

func TestAnswerNoDataYesterday(t *testing.T) {
	reader := &stubReader{}
	o := newOrchestrator(t, reader)

	env, err := o.Answer(context.Background(), models.Question{Question: "mais hier"})
	require.NoError(t, err)

	assert.Equal(t, "Aucune consommation de MAIS trouvée pour le 14/03/2024.", env.Response)
	assert.Equal(t, 0, env.Computed.Count)
	assert.Equal(t, models.IntervalSingle, env.Computed.DateType)
	assert.Len(t, reader.starts, 1)
	assert.Equal(t, "2024-03-14", reader.starts[0])
}

func TestAnswerMonthComparison(t *testing.T) {
	reader := &stubReader{slices: map[string]models.LedgerSlice{
		"2024-03-01": {Aggregate: models.Aggregate{Sum: 300, Mean: 30, Count: 10}},
		"2024-02-01": {Aggregate: models.Aggregate{Sum: 200, Mean: 25, Count: 8}},
	}}
	o := newOrchestrator(t, reader)

	env, err := o.Answer(context.Background(), models.Question{Question: "difference entre ce mois et mois dernier pour le mais"})
	require.NoError(t, err)

	assert.Len(t, reader.starts, 2)
	assert.Equal(t, models.IntervalComparison, env.Computed.DateType)
	assert.Equal(t, models.ComplexityComparison, env.Computed.ComplexityType)
	require.NotNil(t, env.Computed.Comparison)
	assert.Equal(t, 100.0, env.Computed.Comparison.Diff.TotalAbsolute)
	assert.Contains(t, env.Response, "COMPARAISON CONSOMMATION MAIS")
}

func TestAnswerProductRoutesToReception(t *testing.T) {
	reader := &stubReader{slices: map[string]models.LedgerSlice{
		"2024-03-11": {Aggregate: models.Aggregate{Sum: 80, Mean: 40, Min: 30, Max: 50, Count: 2}},
	}}
	o := newOrchestrator(t, reader)

	env, err := o.Answer(context.Background(), models.Question{Question: "reception de mais americain cette semaine"})
	require.NoError(t, err)

	require.Len(t, reader.ledgers, 1)
	assert.Equal(t, models.LedgerReception, reader.ledgers[0])
	assert.Equal(t, "MAIS AMERICAIN", env.Debug.DetectedEntity)
	assert.Equal(t, models.EntityProduct, env.Debug.EntityKind)
	assert.Contains(t, env.Response, "Réception de MAIS AMERICAIN")
}

func TestAnswerSummaryCarriesTrendAndNotes(t *testing.T) {
	daily := make(models.DailyBreakdown, 9)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	totals := []float64{100, 100, 100, 200, 200, 200, 300, 300, 300}
	for i, v := range totals {
		daily[i] = models.DailyEntry{Date: start.AddDate(0, 0, i), Total: v, Entries: 2}
	}
	reader := &stubReader{slices: map[string]models.LedgerSlice{
		"2024-03-01": {
			Aggregate: models.Aggregate{Sum: 1800, Mean: 100, Min: 50, Max: 300, Count: 18},
			Daily:     daily,
		},
	}}
	o := newOrchestrator(t, reader)

	env, err := o.Answer(context.Background(), models.Question{Question: "resume de la consommation de mais ce mois"})
	require.NoError(t, err)

	assert.Equal(t, models.ComplexitySummary, env.Computed.ComplexityType)
	assert.Contains(t, env.Response, "RÉSUMÉ CONSOMMATION MAIS")
	assert.Contains(t, env.Response, "TENDANCES:")
	assert.Contains(t, env.Response, "INSIGHTS:")
}
