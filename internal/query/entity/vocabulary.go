// internal/query/entity/vocabulary.go
package entity

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
	"github.com/aymanbm/rag-app-consommation/internal/query/textnorm"
)

// Vocabulary is an immutable snapshot of the known labels for one entity
// kind, plus the synonym table applied before any vocabulary scan.
type Vocabulary struct {
	Kind     models.EntityKind
	Labels   []string
	Synonyms map[string]string
}

// VocabularyProvider lists the current labels of one entity kind. The
// persistence layer implements it.
type VocabularyProvider interface {
	ListVocabulary(ctx context.Context, kind models.EntityKind) ([]string, error)
}

// Catalog holds the process-wide vocabulary snapshots. Reads are lock-free;
// Reload swaps in fresh snapshots atomically.
type Catalog struct {
	provider VocabularyProvider
	log      logger.Logger

	family  atomic.Pointer[Vocabulary]
	product atomic.Pointer[Vocabulary]
	silo    atomic.Pointer[Vocabulary]
}

func NewCatalog(provider VocabularyProvider, log logger.Logger) *Catalog {
	c := &Catalog{provider: provider, log: log}
	c.family.Store(emptyVocabulary(models.EntityFamily))
	c.product.Store(emptyVocabulary(models.EntityProduct))
	c.silo.Store(emptyVocabulary(models.EntitySilo))
	return c
}

func emptyVocabulary(kind models.EntityKind) *Vocabulary {
	return &Vocabulary{Kind: kind, Synonyms: synonymsFor(kind)}
}

func synonymsFor(kind models.EntityKind) map[string]string {
	switch kind {
	case models.EntityFamily:
		return familySynonyms
	case models.EntityProduct:
		return productSynonyms
	}
	return nil
}

// Reload fetches every vocabulary from the provider and swaps the
// snapshots. On a fetch error the previous snapshot of that kind stays
// in place.
func (c *Catalog) Reload(ctx context.Context) error {
	var firstErr error
	for _, kind := range []models.EntityKind{models.EntityFamily, models.EntityProduct, models.EntitySilo} {
		labels, err := c.provider.ListVocabulary(ctx, kind)
		if err != nil {
			c.log.Warn("vocabulary reload failed", map[string]interface{}{
				"kind":  string(kind),
				"error": err.Error(),
			})
			if firstErr == nil {
				firstErr = fmt.Errorf("reload vocabulary %s: %w", kind, err)
			}
			continue
		}

		normalized := make([]string, 0, len(labels))
		for _, l := range labels {
			if n := textnorm.Normalize(l); n != "" {
				normalized = append(normalized, n)
			}
		}
		vocab := &Vocabulary{Kind: kind, Labels: normalized, Synonyms: synonymsFor(kind)}
		c.snapshotFor(kind).Store(vocab)
		c.log.Info("vocabulary loaded", map[string]interface{}{
			"kind":   string(kind),
			"labels": len(normalized),
		})
	}
	return firstErr
}

func (c *Catalog) snapshotFor(kind models.EntityKind) *atomic.Pointer[Vocabulary] {
	switch kind {
	case models.EntityFamily:
		return &c.family
	case models.EntityProduct:
		return &c.product
	default:
		return &c.silo
	}
}

// Family returns the current family snapshot.
func (c *Catalog) Family() *Vocabulary { return c.family.Load() }

// Product returns the current product-label snapshot.
func (c *Catalog) Product() *Vocabulary { return c.product.Load() }

// Silo returns the current silo-destination snapshot.
func (c *Catalog) Silo() *Vocabulary { return c.silo.Load() }

// Sample returns up to n labels for user-facing "unknown entity" messages.
func (v *Vocabulary) Sample(n int) []string {
	if n > len(v.Labels) {
		n = len(v.Labels)
	}
	out := make([]string, n)
	copy(out, v.Labels[:n])
	return out
}
