// internal/query/dispatch/operations.go
package dispatch

import (
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// ApplyOperations evaluates every requested tag against the aggregate.
// Arithmetic tags use the sum as their base value and are skipped, not
// failed, when the operand is missing or a division by zero would occur.
// A zero-count aggregate yields no results at all.
func ApplyOperations(agg models.Aggregate, req models.OperationRequest) models.OperationOutcome {
	outcome := models.OperationOutcome{Results: map[models.OperationTag]float64{}}
	if agg.Count == 0 {
		return outcome
	}

	tags := req.Tags
	if len(tags) == 0 {
		tags = []models.OperationTag{models.OpSum}
	}

	for _, tag := range tags {
		switch tag {
		case models.OpSum:
			outcome.Results[tag] = agg.Sum
		case models.OpMean:
			outcome.Results[tag] = agg.Mean
		case models.OpMin:
			outcome.Results[tag] = agg.Min
		case models.OpMax:
			outcome.Results[tag] = agg.Max
		case models.OpCount:
			outcome.Results[tag] = float64(agg.Count)
		case models.OpDifference:
			outcome.Results[tag] = agg.Max - agg.Min
		default:
			if v, ok := applyArithmetic(tag, agg.Sum, req.Operand); ok {
				outcome.Results[tag] = v
			} else {
				outcome.Skipped = append(outcome.Skipped, tag)
			}
		}
	}
	return outcome
}

func applyArithmetic(tag models.OperationTag, base float64, operand *float64) (float64, bool) {
	if operand == nil {
		return 0, false
	}
	switch tag {
	case models.OpAdd:
		return base + *operand, true
	case models.OpSubtract:
		return base - *operand, true
	case models.OpMultiply:
		return base * *operand, true
	case models.OpDivide:
		if *operand == 0 {
			return 0, false
		}
		return base / *operand, true
	}
	return 0, false
}
