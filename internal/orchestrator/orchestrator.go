// Package orchestrator runs the full interpret-and-answer pipeline for
// one question: normalization, temporal and entity resolution, operation
// extraction, complexity classification, aggregation and synthesis.
package orchestrator

import (
	"context"
	"time"

	"github.com/google/uuid"

	stderrors "github.com/aymanbm/rag-app-consommation/internal/common/errors"
	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/common/metrics"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/complexity"
	"github.com/aymanbm/rag-app-consommation/internal/query/dispatch"
	"github.com/aymanbm/rag-app-consommation/internal/query/entity"
	"github.com/aymanbm/rag-app-consommation/internal/query/operations"
	"github.com/aymanbm/rag-app-consommation/internal/query/synthesis"
	"github.com/aymanbm/rag-app-consommation/internal/query/temporal"
	"github.com/aymanbm/rag-app-consommation/internal/query/textnorm"
)

const debugDateLayout = "02/01/2006"

// Orchestrator wires the interpretation stages together. It is safe for
// concurrent use once constructed.
type Orchestrator struct {
	resolver   *temporal.Resolver
	catalog    *entity.Catalog
	matcher    *entity.Matcher
	extractor  *operations.Extractor
	classifier *complexity.Classifier
	dispatcher *dispatch.Dispatcher
	synth      *synthesis.Synthesizer

	defaultMode models.Mode
	now         func() time.Time
	log         logger.Logger
}

func New(catalog *entity.Catalog, dispatcher *dispatch.Dispatcher, synth *synthesis.Synthesizer, defaultMode models.Mode, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		resolver:    temporal.NewResolver(log),
		catalog:     catalog,
		matcher:     entity.NewMatcher(log),
		extractor:   operations.NewExtractor(log),
		classifier:  complexity.NewClassifier(log),
		dispatcher:  dispatcher,
		synth:       synth,
		defaultMode: defaultMode,
		now:         time.Now,
		log:         log,
	}
}

// WithClock overrides the reference instant used for relative dates.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// Answer interprets one question end to end. Interpretation failures
// (no date, no known entity) return StandardError values without
// touching the store.
func (o *Orchestrator) Answer(ctx context.Context, q models.Question) (*models.AnswerEnvelope, error) {
	start := time.Now()
	ref := o.now()
	requestID := uuid.NewString()
	mode := models.ParseMode(q.Mode, o.defaultMode)

	log := o.log.WithFields(map[string]interface{}{"request_id": requestID})
	log.Info("interpreting question", map[string]interface{}{
		"question": q.Question,
		"mode":     string(mode),
	})

	temporalRes := o.resolver.Resolve(q.Question, ref)
	if temporalRes == nil {
		metrics.QueriesFailed.WithLabelValues(string(stderrors.ErrCodeDateNotResolved)).Inc()
		return nil, stderrors.NewDateNotResolvedError(ref, temporal.AcceptedFormats)
	}

	match := o.matchEntity(q.Question)
	if match == nil {
		metrics.QueriesFailed.WithLabelValues(string(stderrors.ErrCodeEntityNotResolved)).Inc()
		return nil, stderrors.NewEntityNotResolvedError(o.sampleLabels())
	}
	ledger := ledgerFor(match.Kind)

	request := o.extractor.Extract(q.Question)
	verdict := o.classifier.Classify(q.Question, temporalRes)

	var (
		slice      models.LedgerSlice
		comparison *models.ComparisonResult
		err        error
	)
	if temporalRes.Kind == models.IntervalComparison && temporalRes.Comparison != nil {
		var cmp models.ComparisonResult
		cmp, slice, err = o.dispatcher.FetchComparison(ctx, ledger, *match, *temporalRes.Comparison)
		comparison = &cmp
	} else {
		slice, err = o.dispatcher.Fetch(ctx, ledger, *match, temporalRes.Interval)
	}
	if err != nil {
		metrics.QueriesFailed.WithLabelValues(string(stderrors.CodeOf(err))).Inc()
		return nil, err
	}

	outcome := dispatch.ApplyOperations(slice.Aggregate, request)

	var trend *models.TrendResult
	var summary *models.SummaryNotes
	switch verdict.Kind {
	case models.ComplexityTrend:
		t := dispatch.Trend(slice.Daily)
		trend = &t
	case models.ComplexitySummary:
		t := dispatch.Trend(slice.Daily)
		trend = &t
		notes := dispatch.Summarize(slice.Aggregate, slice.Daily)
		summary = &notes
	}

	text, intelligenceUsed := o.synth.Synthesize(ctx, synthesis.Input{
		Question:   q.Question,
		Mode:       mode,
		Ledger:     ledger,
		Entity:     *match,
		Temporal:   *temporalRes,
		Aggregate:  slice.Aggregate,
		Daily:      slice.Daily,
		Request:    request,
		Outcome:    outcome,
		Verdict:    verdict,
		Comparison: comparison,
		Trend:      trend,
		Summary:    summary,
	})

	envelope := &models.AnswerEnvelope{
		Computed: models.ComputedFields{
			Sum:                slice.Aggregate.Sum,
			Mean:               slice.Aggregate.Mean,
			Min:                slice.Aggregate.Min,
			Max:                slice.Aggregate.Max,
			Count:              slice.Aggregate.Count,
			DateType:           temporalRes.Kind,
			DailyBreakdown:     breakdownEntries(temporalRes.Kind, slice.Daily),
			OperationsDetected: request.Tags,
			OperationResults:   outcome.Results,
			ComplexityType:     verdict.Kind,
			IntelligenceUsed:   intelligenceUsed,
			Comparison:         comparison,
		},
		Rows:     slice.Rows,
		Response: text,
		Debug: models.DebugInfo{
			RequestID:          requestID,
			NormalizedQuestion: textnorm.NormalizeLower(q.Question),
			ReferenceDate:      ref.Format(debugDateLayout),
			ParsedStart:        temporalRes.Interval.Start.Format(debugDateLayout),
			ParsedEnd:          temporalRes.Interval.End.Format(debugDateLayout),
			DateType:           temporalRes.Kind,
			DetectedEntity:     match.Label,
			EntityKind:         match.Kind,
			Ledger:             ledger,
			Mode:               mode,
		},
		ExecutionTimeSeconds: time.Since(start).Seconds(),
	}

	metrics.QueriesAnswered.WithLabelValues(string(verdict.Kind)).Inc()
	metrics.QueryDuration.WithLabelValues(string(verdict.Kind)).Observe(envelope.ExecutionTimeSeconds)

	log.Info("question answered", map[string]interface{}{
		"complexity": string(verdict.Kind),
		"entity":     match.Label,
		"count":      slice.Aggregate.Count,
	})
	return envelope, nil
}

// matchEntity tries every vocabulary and keeps the most specific hit.
// A longer label wins over a shorter one ("MAIS AMERICAIN" over the
// family "MAIS"); equal lengths keep the earlier vocabulary, so plain
// family names route to the consumption ledger.
func (o *Orchestrator) matchEntity(text string) *models.EntityMatch {
	vocabularies := []*entity.Vocabulary{o.catalog.Family(), o.catalog.Product(), o.catalog.Silo()}

	var best *models.EntityMatch
	for _, vocab := range vocabularies {
		m := o.matcher.Match(text, vocab)
		if m == nil {
			continue
		}
		if best == nil || len(m.Label) > len(best.Label) ||
			(len(m.Label) == len(best.Label) && m.Score > best.Score) {
			best = m
		}
	}
	return best
}

func (o *Orchestrator) sampleLabels() []string {
	sample := o.catalog.Family().Sample(3)
	return append(sample, o.catalog.Product().Sample(2)...)
}

func ledgerFor(kind models.EntityKind) models.LedgerKind {
	if kind == models.EntityFamily {
		return models.LedgerConsumption
	}
	return models.LedgerReception
}

// breakdownEntries serializes the per-day totals for the envelope.
// Single-day answers carry no breakdown.
func breakdownEntries(kind models.IntervalKind, daily models.DailyBreakdown) []models.DailyBreakdownEntry {
	if kind == models.IntervalSingle || len(daily) == 0 {
		return nil
	}
	out := make([]models.DailyBreakdownEntry, len(daily))
	for i, d := range daily {
		out[i] = models.DailyBreakdownEntry{
			Date:    d.Date.Format(debugDateLayout),
			Total:   d.Total,
			Entries: d.Entries,
		}
	}
	return out
}
