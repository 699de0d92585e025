// internal/query/synthesis/templates.go
package synthesis

import (
	"fmt"
	"strings"

	"github.com/aymanbm/rag-app-consommation/internal/models"
)

const (
	dateLayout = "02/01/2006"
	// Daily breakdown listings are capped to keep answers readable.
	maxBreakdownLines = 10
)

func ledgerNoun(l models.LedgerKind) string {
	if l == models.LedgerReception {
		return "réception"
	}
	return "consommation"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// explain renders one operation result as a human-readable line.
func explain(tag models.OperationTag, value float64, base float64, operand *float64) string {
	switch tag {
	case models.OpSum:
		return fmt.Sprintf("Somme = %.2f unités", value)
	case models.OpMean:
		return fmt.Sprintf("Moyenne = %.2f unités", value)
	case models.OpMin:
		return fmt.Sprintf("Minimum = %.2f unités", value)
	case models.OpMax:
		return fmt.Sprintf("Maximum = %.2f unités", value)
	case models.OpCount:
		return fmt.Sprintf("Nombre d'entrées = %.0f", value)
	case models.OpDifference:
		return fmt.Sprintf("Écart max-min = %.2f unités", value)
	case models.OpDivide:
		return fmt.Sprintf("%.2f ÷ %.2f = %.2f", base, *operand, value)
	case models.OpMultiply:
		return fmt.Sprintf("%.2f × %.2f = %.2f", base, *operand, value)
	case models.OpAdd:
		return fmt.Sprintf("%.2f + %.2f = %.2f", base, *operand, value)
	case models.OpSubtract:
		return fmt.Sprintf("%.2f - %.2f = %.2f", base, *operand, value)
	}
	return fmt.Sprintf("%s = %.2f", tag, value)
}

// noDataResponse is the deterministic "nothing found" sentence.
func noDataResponse(noun, entity string, temporal models.TemporalResult) string {
	if temporal.Kind == models.IntervalSingle {
		return fmt.Sprintf("Aucune %s de %s trouvée pour le %s.",
			noun, entity, temporal.Interval.Start.Format(dateLayout))
	}
	return fmt.Sprintf("Aucune %s de %s trouvée entre le %s et le %s.",
		noun, entity, temporal.Interval.Start.Format(dateLayout), temporal.Interval.End.Format(dateLayout))
}

// simpleResponse renders a single/range answer, with a bullet list when
// several operations were requested and a capped per-day listing for
// ranges.
func simpleResponse(noun, entity string, temporal models.TemporalResult, agg models.Aggregate, daily models.DailyBreakdown, req models.OperationRequest, outcome models.OperationOutcome) string {
	if agg.Count == 0 {
		return noDataResponse(noun, entity, temporal)
	}

	var b strings.Builder
	if temporal.Kind == models.IntervalSingle {
		fmt.Fprintf(&b, "%s de %s le %s: ", capitalize(noun), entity, temporal.Interval.Start.Format(dateLayout))
	} else {
		fmt.Fprintf(&b, "%s de %s du %s au %s: ", capitalize(noun), entity,
			temporal.Interval.Start.Format(dateLayout), temporal.Interval.End.Format(dateLayout))
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags = []models.OperationTag{models.OpSum}
	}
	applied := make([]string, 0, len(tags))
	for _, tag := range tags {
		if v, ok := outcome.Results[tag]; ok {
			applied = append(applied, explain(tag, v, agg.Sum, req.Operand))
		}
	}

	if len(applied) > 1 {
		b.WriteString("\n")
		for _, line := range applied {
			fmt.Fprintf(&b, "• %s\n", line)
		}
		fmt.Fprintf(&b, "\n(%d entrées au total)", agg.Count)
	} else {
		line := fmt.Sprintf("Total = %.2f unités", agg.Sum)
		if len(applied) == 1 {
			line = applied[0]
		}
		b.WriteString(line)
		if agg.Count > 1 {
			fmt.Fprintf(&b, " (sur %d entrées)", agg.Count)
		}
	}

	for _, skipped := range outcome.Skipped {
		fmt.Fprintf(&b, "\nOpération %s ignorée (opérande manquant ou division par zéro).", skipped)
	}

	if temporal.Kind == models.IntervalRange && len(daily) > 0 && len(daily) <= maxBreakdownLines {
		b.WriteString("\n\nDétail par jour:")
		for _, d := range daily {
			entriesText := ""
			if d.Entries > 1 {
				entriesText = fmt.Sprintf(" (%d entrées)", d.Entries)
			}
			fmt.Fprintf(&b, "\n• %s: %.2f unités%s", d.Date.Format(dateLayout), d.Total, entriesText)
		}
	}

	return b.String()
}

// comparisonResponse renders a two-period comparison.
func comparisonResponse(noun, entity string, result models.ComparisonResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COMPARAISON %s %s\n\n", strings.ToUpper(noun), strings.ToUpper(entity))

	fmt.Fprintf(&b, "%s: %.2f unités\n", capitalize(result.Current.Name), result.Current.Aggregate.Sum)
	fmt.Fprintf(&b, "%s: %.2f unités\n\n", capitalize(result.Prior.Name), result.Prior.Aggregate.Sum)

	direction := "AUGMENTATION"
	if result.Diff.TotalAbsolute < 0 {
		direction = "DIMINUTION"
	}
	fmt.Fprintf(&b, "%s: %.2f unités (%.1f%%)\n", direction,
		abs64(result.Diff.TotalAbsolute), abs64(result.Diff.TotalPercent))

	if len(result.Analysis) > 0 {
		b.WriteString("\nANALYSE:\n")
		for _, line := range result.Analysis {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}
	if len(result.Insights) > 0 {
		b.WriteString("\nINSIGHTS:\n")
		for _, line := range result.Insights {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// summaryResponse renders the key-metrics digest of a period.
func summaryResponse(noun, entity string, temporal models.TemporalResult, agg models.Aggregate, trend *models.TrendResult, notes *models.SummaryNotes) string {
	var b strings.Builder
	fmt.Fprintf(&b, "RÉSUMÉ %s %s\n", strings.ToUpper(noun), strings.ToUpper(entity))
	fmt.Fprintf(&b, "Période: %s au %s (%d jours)\n\n",
		temporal.Interval.Start.Format(dateLayout), temporal.Interval.End.Format(dateLayout), temporal.Interval.Days())

	b.WriteString("MÉTRIQUES CLÉS:\n")
	fmt.Fprintf(&b, "• Total: %.2f unités\n", agg.Sum)
	fmt.Fprintf(&b, "• Moyenne: %.2f unités\n", agg.Mean)
	fmt.Fprintf(&b, "• Pic: %.2f unités\n", agg.Max)
	fmt.Fprintf(&b, "• Minimum: %.2f unités\n", agg.Min)
	fmt.Fprintf(&b, "• Nombre d'entrées: %d\n", agg.Count)

	if trend != nil && trend.Enough {
		b.WriteString("\nTENDANCES:\n")
		fmt.Fprintf(&b, "• Tendance %s sur la période (%+.1f%%)\n", trend.Direction, trend.PercentChange)
	}

	if notes != nil && len(notes.Insights) > 0 {
		b.WriteString("\nINSIGHTS:\n")
		for _, line := range notes.Insights {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}
	if notes != nil && len(notes.Recommendations) > 0 {
		b.WriteString("\nRECOMMANDATIONS:\n")
		for _, line := range notes.Recommendations {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// trendResponse renders the evolution analysis of a range.
func trendResponse(noun, entity string, temporal models.TemporalResult, agg models.Aggregate, trend *models.TrendResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ANALYSE TENDANCE %s %s\n", strings.ToUpper(noun), strings.ToUpper(entity))
	fmt.Fprintf(&b, "Période: %s au %s\n\n",
		temporal.Interval.Start.Format(dateLayout), temporal.Interval.End.Format(dateLayout))

	if trend == nil || !trend.Enough {
		b.WriteString("Période trop courte pour une analyse de tendance détaillée.\n")
		fmt.Fprintf(&b, "Total: %.2f unités\n", agg.Sum)
		fmt.Fprintf(&b, "Moyenne: %.2f unités", agg.Mean)
		return b.String()
	}

	b.WriteString("MÉTRIQUES:\n")
	fmt.Fprintf(&b, "• Moyenne début période: %.2f unités/jour\n", trend.AvgStart)
	fmt.Fprintf(&b, "• Moyenne fin période: %.2f unités/jour\n", trend.AvgEnd)
	fmt.Fprintf(&b, "• Variation: %+.1f%%\n\n", trend.PercentChange)

	fmt.Fprintf(&b, "TENDANCE: %s\n", strings.ToUpper(trend.Direction))
	for _, line := range trend.Analysis {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return strings.TrimRight(b.String(), "\n")
}

func abs64(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
