package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aymanbm/rag-app-consommation/internal/models"
)

func operand(v float64) *float64 { return &v }

func TestApplyOperationsStatistical(t *testing.T) {
	agg := models.Aggregate{Sum: 500, Mean: 50, Min: 10, Max: 90, Count: 10}

	out := ApplyOperations(agg, models.OperationRequest{
		Tags: []models.OperationTag{models.OpMean, models.OpMax, models.OpCount},
	})
	assert.Equal(t, 50.0, out.Results[models.OpMean])
	assert.Equal(t, 90.0, out.Results[models.OpMax])
	assert.Equal(t, 10.0, out.Results[models.OpCount])
	assert.Empty(t, out.Skipped)
}

func TestApplyOperationsDefaultsToSum(t *testing.T) {
	agg := models.Aggregate{Sum: 500, Count: 10}

	out := ApplyOperations(agg, models.OperationRequest{})
	assert.Equal(t, map[models.OperationTag]float64{models.OpSum: 500}, out.Results)
}

func TestApplyOperationsZeroCount(t *testing.T) {
	out := ApplyOperations(models.Aggregate{}, models.OperationRequest{
		Tags: []models.OperationTag{models.OpSum, models.OpMean},
	})
	assert.Empty(t, out.Results)
	assert.Empty(t, out.Skipped)
}

func TestApplyOperationsArithmetic(t *testing.T) {
	agg := models.Aggregate{Sum: 100, Count: 4}

	out := ApplyOperations(agg, models.OperationRequest{
		Tags:    []models.OperationTag{models.OpDivide},
		Operand: operand(4),
	})
	assert.Equal(t, 25.0, out.Results[models.OpDivide])

	out = ApplyOperations(agg, models.OperationRequest{
		Tags:    []models.OperationTag{models.OpMultiply, models.OpAdd, models.OpSubtract},
		Operand: operand(2),
	})
	assert.Equal(t, 200.0, out.Results[models.OpMultiply])
	assert.Equal(t, 102.0, out.Results[models.OpAdd])
	assert.Equal(t, 98.0, out.Results[models.OpSubtract])
}

func TestApplyOperationsSkipsDivisionByZero(t *testing.T) {
	agg := models.Aggregate{Sum: 100, Count: 4}

	out := ApplyOperations(agg, models.OperationRequest{
		Tags:    []models.OperationTag{models.OpDivide, models.OpSum},
		Operand: operand(0),
	})
	assert.Equal(t, []models.OperationTag{models.OpDivide}, out.Skipped)
	assert.Equal(t, 100.0, out.Results[models.OpSum])
}

func TestApplyOperationsSkipsMissingOperand(t *testing.T) {
	agg := models.Aggregate{Sum: 100, Mean: 25, Count: 4}

	out := ApplyOperations(agg, models.OperationRequest{
		Tags: []models.OperationTag{models.OpMultiply, models.OpMean},
	})
	assert.Equal(t, []models.OperationTag{models.OpMultiply}, out.Skipped)
	assert.Equal(t, 25.0, out.Results[models.OpMean])
}
