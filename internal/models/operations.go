// internal/models/operations.go
package models

// OperationTag names one aggregation or arithmetic operation requested by
// the user. Tags appear in the order their keywords occur in the question.
type OperationTag string

const (
	OpSum        OperationTag = "sum"
	OpMean       OperationTag = "mean"
	OpMin        OperationTag = "min"
	OpMax        OperationTag = "max"
	OpCount      OperationTag = "count"
	OpDifference OperationTag = "difference"
	OpAdd        OperationTag = "addition"
	OpSubtract   OperationTag = "subtraction"
	OpMultiply   OperationTag = "multiplication"
	OpDivide     OperationTag = "division"
)

// IsArithmetic reports whether the tag needs a numeric operand from the
// question text.
func (t OperationTag) IsArithmetic() bool {
	switch t {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// OperationRequest is the set of operations extracted from a question.
type OperationRequest struct {
	Tags    []OperationTag `json:"tags"`
	Operand *float64       `json:"operand,omitempty"`
}

// Primary returns the first requested tag, defaulting to sum.
func (r OperationRequest) Primary() OperationTag {
	if len(r.Tags) == 0 {
		return OpSum
	}
	return r.Tags[0]
}

// Has reports whether the request contains the given tag.
func (r OperationRequest) Has(tag OperationTag) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// OperationOutcome maps each applied tag to its numeric result. Arithmetic
// tags without an operand are listed in Skipped instead.
type OperationOutcome struct {
	Results map[OperationTag]float64 `json:"results"`
	Skipped []OperationTag           `json:"skipped,omitempty"`
}
