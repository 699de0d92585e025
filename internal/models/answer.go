// internal/models/answer.go
package models

// ComplexityKind classifies the analytical depth a question asks for.
type ComplexityKind string

const (
	ComplexitySimple         ComplexityKind = "simple"
	ComplexityComparison     ComplexityKind = "comparison"
	ComplexityTrend          ComplexityKind = "trend"
	ComplexitySummary        ComplexityKind = "summary"
	ComplexityRecommendation ComplexityKind = "recommendation"
)

// Mode selects how the final response text is produced.
type Mode string

const (
	ModeServer Mode = "server"
	ModeLLM    Mode = "llm"
	ModeHybrid Mode = "hybrid"
)

// ParseMode maps a request string onto a Mode, falling back when the
// value is empty or unknown.
func ParseMode(s string, fallback Mode) Mode {
	switch Mode(s) {
	case ModeServer, ModeLLM, ModeHybrid:
		return Mode(s)
	}
	return fallback
}

// ComplexityVerdict is the classifier output.
type ComplexityVerdict struct {
	NeedsDeepAnalysis bool           `json:"needs_deep_analysis"`
	Kind              ComplexityKind `json:"kind"`
}

// PeriodAggregate is one side of a comparison.
type PeriodAggregate struct {
	Name      string       `json:"name"`
	Interval  DateInterval `json:"interval"`
	Aggregate Aggregate    `json:"aggregate"`
}

// ComparisonDiff holds the deltas between the two compared periods.
// Percentages are zero when the prior value is zero.
type ComparisonDiff struct {
	TotalAbsolute float64 `json:"total_absolute"`
	TotalPercent  float64 `json:"total_percent"`
	MeanAbsolute  float64 `json:"mean_absolute"`
	MeanPercent   float64 `json:"mean_percent"`
	CountDiff     int     `json:"count_diff"`
}

// ComparisonResult is the full outcome of a two-period comparison.
type ComparisonResult struct {
	Current  PeriodAggregate `json:"current"`
	Prior    PeriodAggregate `json:"prior"`
	Diff     ComparisonDiff  `json:"diff"`
	Analysis []string        `json:"analysis"`
	Insights []string        `json:"insights"`
}

// TrendResult describes the evolution of daily totals over an interval.
type TrendResult struct {
	Enough        bool    `json:"enough"`
	AvgStart      float64 `json:"avg_start"`
	AvgEnd        float64 `json:"avg_end"`
	PercentChange float64 `json:"percent_change"`
	Volatility    float64 `json:"volatility"`
	Direction     string  `json:"direction"`
	Regularity    string  `json:"regularity"`
	Analysis      []string `json:"analysis"`
}

// SummaryNotes are the qualitative observations attached to a summary
// answer.
type SummaryNotes struct {
	Insights        []string `json:"insights,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// Question is the inbound query payload.
type Question struct {
	Question string `json:"question"`
	Mode     string `json:"mode,omitempty"`
}

// ComputedFields is the numeric block of an answer envelope.
type ComputedFields struct {
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`

	DateType           IntervalKind             `json:"date_type"`
	DailyBreakdown     []DailyBreakdownEntry    `json:"daily_breakdown,omitempty"`
	OperationsDetected []OperationTag           `json:"operations_detected,omitempty"`
	OperationResults   map[OperationTag]float64 `json:"operation_results,omitempty"`
	ComplexityType     ComplexityKind           `json:"complexity_type"`
	IntelligenceUsed   bool                     `json:"intelligence_used"`
	Comparison         *ComparisonResult        `json:"comparison_data,omitempty"`
}

// DailyBreakdownEntry is one serialized day of the breakdown, with the
// date rendered dd/mm/yyyy.
type DailyBreakdownEntry struct {
	Date    string  `json:"date"`
	Total   float64 `json:"total"`
	Entries int     `json:"entries"`
}

// DebugInfo exposes the intermediate pipeline state of one answer.
type DebugInfo struct {
	RequestID          string       `json:"request_id"`
	NormalizedQuestion string       `json:"normalized_question"`
	ReferenceDate      string       `json:"reference_date"`
	ParsedStart        string       `json:"parsed_start,omitempty"`
	ParsedEnd          string       `json:"parsed_end,omitempty"`
	DateType           IntervalKind `json:"date_type"`
	DetectedEntity     string       `json:"detected_entity,omitempty"`
	EntityKind         EntityKind   `json:"entity_kind,omitempty"`
	Ledger             LedgerKind   `json:"ledger"`
	Mode               Mode         `json:"mode"`
}

// AnswerEnvelope is the full response for one answered question.
type AnswerEnvelope struct {
	Computed             ComputedFields `json:"computed"`
	Rows                 []SampleRow    `json:"rows"`
	Response             string         `json:"response"`
	Debug                DebugInfo      `json:"debug"`
	ExecutionTimeSeconds float64        `json:"execution_time_seconds"`
}
