// internal/query/dispatch/trend.go
package dispatch

import (
	"fmt"
	"math"

	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// Trend direction and regularity labels used by the synthesizer.
const (
	TrendStrongUp   = "forte hausse"
	TrendSlightUp   = "legere hausse"
	TrendStrongDown = "forte baisse"
	TrendSlightDown = "legere baisse"
	TrendStable     = "stable"

	RegularityHigh     = "irreguliere"
	RegularityModerate = "moderee"
	RegularityLow      = "reguliere"
)

// Trend compares the first and last thirds of a daily breakdown. It needs
// at least three days of data; shorter windows come back with Enough=false.
func Trend(daily models.DailyBreakdown) models.TrendResult {
	if len(daily) < 3 {
		return models.TrendResult{}
	}

	values := make([]float64, len(daily))
	for i, d := range daily {
		values[i] = d.Total
	}

	third := len(values) / 3
	avgStart := mean(values[:third])
	avgEnd := mean(values[len(values)-third:])

	pct := 0.0
	if avgStart > 0 {
		pct = (avgEnd - avgStart) / avgStart * 100
	}

	result := models.TrendResult{
		Enough:        true,
		AvgStart:      round2(avgStart),
		AvgEnd:        round2(avgEnd),
		PercentChange: round2(pct),
	}

	switch {
	case pct > 15:
		result.Direction = TrendStrongUp
		result.Analysis = append(result.Analysis,
			"Quantités en augmentation significative",
			"Investigation recommandée pour identifier les causes")
	case pct > 5:
		result.Direction = TrendSlightUp
		result.Analysis = append(result.Analysis, "Augmentation modérée sur la période")
	case pct < -15:
		result.Direction = TrendStrongDown
		result.Analysis = append(result.Analysis, "Réduction significative sur la période")
	case pct < -5:
		result.Direction = TrendSlightDown
		result.Analysis = append(result.Analysis, "Diminution modérée sur la période")
	default:
		result.Direction = TrendStable
		result.Analysis = append(result.Analysis, "Quantités constantes sur la période")
	}

	dailyMean := mean(values)
	if dailyMean > 0 {
		result.Volatility = round2((maxOf(values) - minOf(values)) / dailyMean)
	}
	switch {
	case result.Volatility > 1.5:
		result.Regularity = RegularityHigh
	case result.Volatility > 0.8:
		result.Regularity = RegularityModerate
	default:
		result.Regularity = RegularityLow
	}
	result.Analysis = append(result.Analysis, fmt.Sprintf("Volatilité: %.2f", result.Volatility))

	return result
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func minOf(vals []float64) float64 {
	m := math.Inf(1)
	for _, v := range vals {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}
