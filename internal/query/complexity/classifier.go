// Package complexity decides whether a question needs deeper analysis
// than a single deterministic aggregate.
package complexity

import (
	"regexp"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/textnorm"
)

type family struct {
	kind     models.ComplexityKind
	patterns []*regexp.Regexp
}

// Pattern families scanned against the lower-cased accent-free text.
// Prediction phrases flag deep analysis but never set a kind of their own.
var (
	comparisonFamily = family{models.ComplexityComparison, compileAll(
		`difference|compare|comparaison|comparer|vs|versus|contre`,
		`plus que|moins que|superieur|inferieur`,
		`entre.*et`,
		`par rapport a`,
	)}
	analysisFamily = family{models.ComplexityTrend, compileAll(
		`pourquoi|comment|expliquer|analyser`,
		`tendance|evolution|progression|regression`,
		`pattern|motif|comportement`,
		`insight|analyse|examen`,
	)}
	summaryFamily = family{models.ComplexitySummary, compileAll(
		`resume|synthese|bilan|rapport`,
		`overview|apercu|vue d'ensemble`,
		`generer.*rapport|faire.*bilan`,
		`donner.*resume`,
	)}
	predictionFamily = family{"", compileAll(
		`predire|prevoir|estimer|projeter`,
		`prochaine|futur|avenir`,
	)}
	recommendationFamily = family{models.ComplexityRecommendation, compileAll(
		`conseil|recommandation|suggestion`,
		`optimiser|ameliorer|reduire`,
		`que faire|comment faire`,
		`strategie|plan|action`,
	)}
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

func (f family) matches(lower string) bool {
	for _, re := range f.patterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// Classifier maps question text onto a complexity verdict.
type Classifier struct {
	log logger.Logger
}

func NewClassifier(log logger.Logger) *Classifier {
	return &Classifier{log: log}
}

// Classify scans all pattern families and keeps the most specific kind,
// in priority order comparison > summary > trend > recommendation. A
// temporal comparison always forces a comparison verdict, whatever the
// text says.
func (c *Classifier) Classify(text string, temporal *models.TemporalResult) models.ComplexityVerdict {
	if temporal != nil && temporal.Kind == models.IntervalComparison {
		return models.ComplexityVerdict{NeedsDeepAnalysis: true, Kind: models.ComplexityComparison}
	}

	lower := textnorm.NormalizeLower(text)
	verdict := models.ComplexityVerdict{Kind: models.ComplexitySimple}

	ordered := []family{comparisonFamily, summaryFamily, analysisFamily, recommendationFamily}
	for _, f := range ordered {
		if f.matches(lower) {
			verdict.NeedsDeepAnalysis = true
			if verdict.Kind == models.ComplexitySimple {
				verdict.Kind = f.kind
			}
		}
	}
	if predictionFamily.matches(lower) {
		verdict.NeedsDeepAnalysis = true
	}

	if verdict.NeedsDeepAnalysis {
		c.log.Debug("deep analysis requested", map[string]interface{}{"kind": string(verdict.Kind)})
	}
	return verdict
}
