// Package entity resolves fuzzy product, family and silo names against
// the vocabularies loaded from the ledger.
package entity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/textnorm"
)

const (
	wholeTextCutoff = 0.8
	tokenCutoff     = 0.85
)

var tokenSplit = regexp.MustCompile(`[\s,;:.!?()]+`)

// Matcher resolves one entity label from free text. The same procedure
// serves all three vocabularies.
type Matcher struct {
	log logger.Logger
}

func NewMatcher(log logger.Logger) *Matcher {
	return &Matcher{log: log}
}

// Match runs the four resolution steps in order: synonym substring,
// vocabulary substring, whole-text fuzzy, then per-token fuzzy. Ties among
// substring candidates go to the longest match. Nil means nothing resolved.
func (m *Matcher) Match(text string, vocab *Vocabulary) *models.EntityMatch {
	norm := textnorm.Normalize(text)
	if norm == "" || vocab == nil {
		return nil
	}

	if label := matchSynonym(norm, vocab.Synonyms); label != "" {
		return &models.EntityMatch{Label: label, Kind: vocab.Kind, Score: 1}
	}

	if label := matchVocabulary(norm, vocab.Labels); label != "" {
		return &models.EntityMatch{Label: label, Kind: vocab.Kind, Score: 1}
	}

	if label, score := closestMatch(norm, vocab.Labels, wholeTextCutoff); label != "" {
		m.log.Debug("fuzzy whole-text entity match", map[string]interface{}{
			"kind": string(vocab.Kind), "label": label, "score": score,
		})
		return &models.EntityMatch{Label: label, Kind: vocab.Kind, Score: score}
	}

	for _, word := range tokenSplit.Split(norm, -1) {
		if len(word) <= 2 {
			continue
		}
		if label, score := closestMatch(word, vocab.Labels, tokenCutoff); label != "" {
			m.log.Debug("fuzzy token entity match", map[string]interface{}{
				"kind": string(vocab.Kind), "token": word, "label": label, "score": score,
			})
			return &models.EntityMatch{Label: label, Kind: vocab.Kind, Score: score}
		}
	}

	return nil
}

// matchSynonym returns the canonical label of the longest synonym key
// contained in the text, so "MAIS AMERICAIN" beats "MAIS".
func matchSynonym(norm string, synonyms map[string]string) string {
	best := ""
	for variant := range synonyms {
		if strings.Contains(norm, variant) && len(variant) > len(best) {
			best = variant
		}
	}
	if best == "" {
		return ""
	}
	return synonyms[best]
}

// matchVocabulary scans for equality or containment, longest label first,
// which keeps the pick deterministic whatever order the store returns.
func matchVocabulary(norm string, labels []string) string {
	sorted := make([]string, len(labels))
	copy(sorted, labels)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	for _, label := range sorted {
		if label == norm || strings.Contains(norm, label) {
			return label
		}
	}
	return ""
}

// closestMatch returns the vocabulary label with the highest similarity
// ratio to s, if that ratio reaches the cutoff.
func closestMatch(s string, labels []string, cutoff float64) (string, float64) {
	best := ""
	bestRatio := 0.0
	for _, label := range labels {
		r := similarity(s, label)
		if r >= cutoff && r > bestRatio {
			best, bestRatio = label, r
		}
	}
	return best, bestRatio
}

// similarity maps edit distance onto a 0..1 ratio.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if lb := len([]rune(b)); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}
