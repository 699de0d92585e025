// Package dispatch runs resolved aggregation requests against the ledger
// store and derives operation results, comparisons and trends from them.
package dispatch

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// LedgerReader is the persistence collaborator. The store package
// implements it; comparison queries issue two independent reads.
type LedgerReader interface {
	GetAggregate(ctx context.Context, ledger models.LedgerKind, kind models.EntityKind, label string, interval models.DateInterval) (models.LedgerSlice, error)
}

// Dispatcher is the only pipeline stage that performs I/O.
type Dispatcher struct {
	reader LedgerReader
	log    logger.Logger
}

func NewDispatcher(reader LedgerReader, log logger.Logger) *Dispatcher {
	return &Dispatcher{reader: reader, log: log}
}

// Fetch reads one ledger slice for the matched entity over the interval.
func (d *Dispatcher) Fetch(ctx context.Context, ledger models.LedgerKind, match models.EntityMatch, interval models.DateInterval) (models.LedgerSlice, error) {
	slice, err := d.reader.GetAggregate(ctx, ledger, match.Kind, match.Label, interval)
	if err != nil {
		return models.LedgerSlice{}, err
	}
	return slice, nil
}

// FetchComparison reads both periods of a comparison concurrently and
// derives the comparison result. The current period's slice is returned
// alongside so the caller can reuse its aggregate and rows.
func (d *Dispatcher) FetchComparison(ctx context.Context, ledger models.LedgerKind, match models.EntityMatch, cmp models.ComparisonIntervals) (models.ComparisonResult, models.LedgerSlice, error) {
	var current, prior models.LedgerSlice

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = d.reader.GetAggregate(gctx, ledger, match.Kind, match.Label, cmp.Current)
		return err
	})
	g.Go(func() error {
		var err error
		prior, err = d.reader.GetAggregate(gctx, ledger, match.Kind, match.Label, cmp.Prior)
		return err
	})
	if err := g.Wait(); err != nil {
		return models.ComparisonResult{}, models.LedgerSlice{}, err
	}

	result := Compare(
		models.PeriodAggregate{Name: cmp.CurrentName, Interval: cmp.Current, Aggregate: current.Aggregate},
		models.PeriodAggregate{Name: cmp.PriorName, Interval: cmp.Prior, Aggregate: prior.Aggregate},
	)
	return result, current, nil
}
