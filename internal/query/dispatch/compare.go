// internal/query/dispatch/compare.go
package dispatch

import (
	"fmt"
	"math"

	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// Compare derives the differences between two period aggregates. Percent
// deltas are defined as 0 when the prior value is 0, never a division
// error.
func Compare(current, prior models.PeriodAggregate) models.ComparisonResult {
	totalDiff := current.Aggregate.Sum - prior.Aggregate.Sum
	totalPct := 0.0
	if prior.Aggregate.Sum != 0 {
		totalPct = totalDiff / prior.Aggregate.Sum * 100
	}

	meanDiff := current.Aggregate.Mean - prior.Aggregate.Mean
	meanPct := 0.0
	if prior.Aggregate.Mean != 0 {
		meanPct = meanDiff / prior.Aggregate.Mean * 100
	}

	result := models.ComparisonResult{
		Current: current,
		Prior:   prior,
		Diff: models.ComparisonDiff{
			TotalAbsolute: round2(totalDiff),
			TotalPercent:  round2(totalPct),
			MeanAbsolute:  round2(meanDiff),
			MeanPercent:   round2(meanPct),
			CountDiff:     current.Aggregate.Count - prior.Aggregate.Count,
		},
	}

	if math.Abs(totalPct) > 10 {
		direction := "augmente"
		if totalDiff < 0 {
			direction = "diminue"
		}
		result.Analysis = append(result.Analysis,
			fmt.Sprintf("La quantité totale a %s de %.1f%% (%.2f unités)", direction, math.Abs(totalPct), math.Abs(totalDiff)))
	}
	if math.Abs(meanPct) > 15 {
		direction := "augmente"
		if meanDiff < 0 {
			direction = "diminue"
		}
		result.Analysis = append(result.Analysis,
			fmt.Sprintf("La moyenne a %s de %.1f%%", direction, math.Abs(meanPct)))
	}
	if d := result.Diff.CountDiff; d != 0 {
		direction := "plus"
		if d < 0 {
			direction = "moins"
		}
		result.Analysis = append(result.Analysis, fmt.Sprintf("%d entrées en %s", abs(d), direction))
	}

	switch {
	case totalPct > 20:
		result.Insights = append(result.Insights, "Augmentation significative - vérifier les causes")
	case totalPct < -20:
		result.Insights = append(result.Insights, "Réduction importante entre les deux périodes")
	case math.Abs(totalPct) < 5:
		result.Insights = append(result.Insights, "Quantités stables entre les deux périodes")
	default:
		result.Insights = append(result.Insights, "Variation modérée entre les deux périodes")
	}

	curVar := current.Aggregate.Variability()
	priorVar := prior.Aggregate.Variability()
	switch {
	case curVar > priorVar*1.5:
		result.Insights = append(result.Insights, "Quantités plus variables dans la période récente")
	case priorVar > curVar*1.5:
		result.Insights = append(result.Insights, "Quantités plus stables dans la période récente")
	}

	return result
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
