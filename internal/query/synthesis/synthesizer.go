// Package synthesis renders computed aggregation results into the final
// French answer, optionally asking the text generator for a more natural
// phrasing. Every figure in the answer is computed before any model call.
package synthesis

import (
	"context"
	"fmt"
	"strings"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/generator"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// Input carries everything the pipeline computed for one question.
type Input struct {
	Question string
	Mode     models.Mode
	Ledger   models.LedgerKind

	Entity   models.EntityMatch
	Temporal models.TemporalResult

	Aggregate models.Aggregate
	Daily     models.DailyBreakdown
	Request   models.OperationRequest
	Outcome   models.OperationOutcome

	Verdict    models.ComplexityVerdict
	Comparison *models.ComparisonResult
	Trend      *models.TrendResult
	Summary    *models.SummaryNotes
}

// Synthesizer renders answers. The generator may be nil; the deterministic
// templates then answer everything.
type Synthesizer struct {
	gen generator.Generator
	log logger.Logger
}

func NewSynthesizer(gen generator.Generator, log logger.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, log: log}
}

// Synthesize produces the response text and reports whether the generator
// actually phrased it. Generator failure of any sort falls back to the
// deterministic template.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) (string, bool) {
	deterministic := s.deterministic(in)

	if !s.shouldGenerate(in) {
		return deterministic, false
	}

	res := s.gen.Generate(ctx, s.buildPrompt(in, deterministic))
	if res.Status != generator.StatusOK {
		return deterministic, false
	}
	return res.Text, true
}

func (s *Synthesizer) shouldGenerate(in Input) bool {
	if s.gen == nil {
		return false
	}
	switch in.Mode {
	case models.ModeLLM:
		return true
	case models.ModeHybrid:
		// Hybrid keeps simple lookups fully deterministic and spends the
		// model only on analytical answers.
		return in.Verdict.NeedsDeepAnalysis
	}
	return false
}

func (s *Synthesizer) deterministic(in Input) string {
	noun := ledgerNoun(in.Ledger)

	switch {
	case in.Verdict.Kind == models.ComplexityComparison && in.Comparison != nil:
		return comparisonResponse(noun, in.Entity.Label, *in.Comparison)
	case in.Verdict.Kind == models.ComplexitySummary:
		return summaryResponse(noun, in.Entity.Label, in.Temporal, in.Aggregate, in.Trend, in.Summary)
	case in.Verdict.Kind == models.ComplexityTrend:
		return trendResponse(noun, in.Entity.Label, in.Temporal, in.Aggregate, in.Trend)
	default:
		// Comparison wording without a second period degrades to the
		// plain template over the single resolved interval.
		return simpleResponse(noun, in.Entity.Label, in.Temporal, in.Aggregate, in.Daily, in.Request, in.Outcome)
	}
}

// buildPrompt hands the generator the already-computed answer and asks
// for a rephrasing only, never for new figures.
func (s *Synthesizer) buildPrompt(in Input, deterministic string) string {
	var b strings.Builder
	b.WriteString("Tu es un assistant qui reformule des résultats chiffrés en français naturel.\n")
	fmt.Fprintf(&b, "Question: %s\n\n", in.Question)
	b.WriteString("Résultats calculés (à reprendre tels quels, sans modifier les chiffres):\n")
	b.WriteString(deterministic)
	b.WriteString("\n\nRéponds de manière naturelle et directe en français. Ne mentionne pas les calculs techniques sauf si demandé.")
	return b.String()
}
