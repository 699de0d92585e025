// Package operations extracts the statistical and arithmetic operations a
// question asks for, plus their numeric operand when one is present.
package operations

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/textnorm"
)

// operandPatterns locate the numeric operand of an arithmetic request.
// First match wins; a decimal comma is read as a decimal point.
var operandPatterns = []*regexp.Regexp{
	regexp.MustCompile(`par\s+([-+]?\d+[.,]?\d*)`),
	regexp.MustCompile(`([-+]?\d+[.,]?\d*)\s*(?:fois|x|\*)`),
	regexp.MustCompile(`(?:diviser|divise)\s+par\s+([-+]?\d+[.,]?\d*)`),
	regexp.MustCompile(`(?:multiplier|multiplie)\s+par\s+([-+]?\d+[.,]?\d*)`),
	regexp.MustCompile(`(?:ajouter|ajoute)\s+([-+]?\d+[.,]?\d*)`),
	regexp.MustCompile(`(?:soustraire|soustrait|moins)\s+([-+]?\d+[.,]?\d*)`),
}

// keywordRules map trigger phrases to operation tags. Matching is by
// substring on the lower-cased accent-free text; single-letter and
// ambiguous triggers carry word boundaries so "x" never fires inside
// "max".
var keywordRules = []struct {
	tag models.OperationTag
	re  *regexp.Regexp
}{
	{models.OpMax, regexp.MustCompile(`maximum|maximal|max|plus grand|plus eleve|le plus`)},
	{models.OpMin, regexp.MustCompile(`minimum|minimal|min|plus petit|plus bas|le moins`)},
	{models.OpMean, regexp.MustCompile(`moyenn|average|\bmoy\b`)},
	{models.OpSum, regexp.MustCompile(`somme|total|additionn|addition`)},
	{models.OpCount, regexp.MustCompile(`nombre|\bcount\b|compte|combien|quantite`)},
	{models.OpDivide, regexp.MustCompile(`divis`)},
	{models.OpMultiply, regexp.MustCompile(`multipli|\bfois\b|\bx\b`)},
	{models.OpAdd, regexp.MustCompile(`ajout`)},
	{models.OpSubtract, regexp.MustCompile(`soustra`)},
}

// Extractor scans question text for operation requests.
type Extractor struct {
	log logger.Logger
}

func NewExtractor(log logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract returns every requested operation tag in the order its trigger
// first occurs in the text, de-duplicated, plus the operand if any. An
// empty tag list means the caller should default to sum.
func (e *Extractor) Extract(text string) models.OperationRequest {
	lower := textnorm.NormalizeLower(text)

	req := models.OperationRequest{Operand: findOperand(lower)}

	type hit struct {
		tag models.OperationTag
		pos int
	}
	var hits []hit
	for _, rule := range keywordRules {
		if loc := rule.re.FindStringIndex(lower); loc != nil {
			hits = append(hits, hit{tag: rule.tag, pos: loc[0]})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })
	for _, h := range hits {
		if !req.Has(h.tag) {
			req.Tags = append(req.Tags, h.tag)
		}
	}

	// "min et max" guarantees both tags even when only one trigger is
	// matched verbatim.
	if strings.Contains(lower, "min et max") || strings.Contains(lower, "max et min") {
		if !req.Has(models.OpMin) {
			req.Tags = append(req.Tags, models.OpMin)
		}
		if !req.Has(models.OpMax) {
			req.Tags = append(req.Tags, models.OpMax)
		}
	}

	if len(req.Tags) > 0 {
		e.log.Debug("operations detected", map[string]interface{}{
			"tags":    req.Tags,
			"operand": req.Operand,
		})
	}
	return req
}

func findOperand(lower string) *float64 {
	for _, re := range operandPatterns {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		raw := strings.ReplaceAll(m[1], ",", ".")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}
