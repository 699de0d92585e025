// Package store is the persistence collaborator of the query pipeline:
// aggregate reads over the consumption and reception ledgers, vocabulary
// listings, and an optional Redis cache in front of both.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aymanbm/rag-app-consommation/internal/common/config"
	stderrors "github.com/aymanbm/rag-app-consommation/internal/common/errors"
	"github.com/aymanbm/rag-app-consommation/internal/common/logger"
	"github.com/aymanbm/rag-app-consommation/internal/models"
)

// sampleRowLimit caps the movements returned for display.
const sampleRowLimit = 100

// LedgerStore is the full persistence surface the pipeline needs.
type LedgerStore interface {
	GetAggregate(ctx context.Context, ledger models.LedgerKind, kind models.EntityKind, label string, interval models.DateInterval) (models.LedgerSlice, error)
	ListVocabulary(ctx context.Context, kind models.EntityKind) ([]string, error)
}

// ledgerTable describes where one (ledger, entity kind) pair lives.
type ledgerTable struct {
	table    string
	dateCol  string
	qtyCol   string
	labelCol string
}

func tableFor(ledger models.LedgerKind, kind models.EntityKind) (ledgerTable, error) {
	switch ledger {
	case models.LedgerConsumption:
		if kind != models.EntityFamily {
			return ledgerTable{}, fmt.Errorf("consumption ledger has no %s column", kind)
		}
		return ledgerTable{table: "consumption", dateCol: "date_conso", qtyCol: "qte", labelCol: "famille"}, nil
	case models.LedgerReception:
		switch kind {
		case models.EntityProduct:
			return ledgerTable{table: "reception", dateCol: "date_reception", qtyCol: "poids", labelCol: "libelle_produit"}, nil
		case models.EntitySilo:
			return ledgerTable{table: "reception", dateCol: "date_reception", qtyCol: "poids", labelCol: "silo_destination"}, nil
		}
		return ledgerTable{}, fmt.Errorf("reception ledger has no %s column", kind)
	}
	return ledgerTable{}, fmt.Errorf("unknown ledger %q", ledger)
}

// vocabularyTable maps an entity kind to the column its labels come from.
func vocabularyTable(kind models.EntityKind) (ledgerTable, error) {
	switch kind {
	case models.EntityFamily:
		return tableFor(models.LedgerConsumption, models.EntityFamily)
	case models.EntityProduct:
		return tableFor(models.LedgerReception, models.EntityProduct)
	case models.EntitySilo:
		return tableFor(models.LedgerReception, models.EntitySilo)
	}
	return ledgerTable{}, fmt.Errorf("unknown entity kind %q", kind)
}

// PostgresStore reads ledger aggregates straight from Postgres.
type PostgresStore struct {
	db      *sql.DB
	timeout time.Duration
	log     logger.Logger
}

func NewPostgresStore(db *sql.DB, cfg config.PostgresConfig, log logger.Logger) *PostgresStore {
	timeout := time.Duration(cfg.QueryTimeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &PostgresStore{db: db, timeout: timeout, log: log}
}

// GetAggregate computes the aggregate, the per-day breakdown and up to
// 100 sample rows for one entity over an interval. A zero count comes
// back with every aggregate at zero.
func (s *PostgresStore) GetAggregate(ctx context.Context, ledger models.LedgerKind, kind models.EntityKind, label string, interval models.DateInterval) (models.LedgerSlice, error) {
	t, err := tableFor(ledger, kind)
	if err != nil {
		return models.LedgerSlice{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	agg, err := s.aggregate(ctx, t, label, interval)
	if err != nil {
		return models.LedgerSlice{}, stderrors.NewQueryExecutionError(err.Error())
	}
	if agg.Count == 0 {
		return models.LedgerSlice{Aggregate: agg}, nil
	}

	daily, err := s.dailyBreakdown(ctx, t, label, interval)
	if err != nil {
		return models.LedgerSlice{}, stderrors.NewQueryExecutionError(err.Error())
	}
	rows, err := s.sampleRows(ctx, t, label, interval)
	if err != nil {
		return models.LedgerSlice{}, stderrors.NewQueryExecutionError(err.Error())
	}

	return models.LedgerSlice{Aggregate: agg, Daily: daily, Rows: rows}, nil
}

func (s *PostgresStore) aggregate(ctx context.Context, t ledgerTable, label string, interval models.DateInterval) (models.Aggregate, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(%[1]s), 0),
		       COALESCE(AVG(%[1]s), 0),
		       COALESCE(MIN(%[1]s), 0),
		       COALESCE(MAX(%[1]s), 0),
		       COUNT(*)
		FROM %[2]s
		WHERE %[3]s BETWEEN $1 AND $2 AND %[4]s = $3`,
		t.qtyCol, t.table, t.dateCol, t.labelCol)

	var agg models.Aggregate
	err := s.db.QueryRowContext(ctx, query, interval.Start, interval.End, label).
		Scan(&agg.Sum, &agg.Mean, &agg.Min, &agg.Max, &agg.Count)
	if err != nil {
		return models.Aggregate{}, err
	}
	if agg.Count == 0 {
		return models.Aggregate{}, nil
	}
	return agg, nil
}

func (s *PostgresStore) dailyBreakdown(ctx context.Context, t ledgerTable, label string, interval models.DateInterval) (models.DailyBreakdown, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, SUM(%[2]s), COUNT(*)
		FROM %[3]s
		WHERE %[1]s BETWEEN $1 AND $2 AND %[4]s = $3
		GROUP BY %[1]s
		ORDER BY %[1]s`,
		t.dateCol, t.qtyCol, t.table, t.labelCol)

	rows, err := s.db.QueryContext(ctx, query, interval.Start, interval.End, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var daily models.DailyBreakdown
	for rows.Next() {
		var entry models.DailyEntry
		if err := rows.Scan(&entry.Date, &entry.Total, &entry.Entries); err != nil {
			return nil, err
		}
		entry.Date = entry.Date.UTC()
		daily = append(daily, entry)
	}
	return daily, rows.Err()
}

func (s *PostgresStore) sampleRows(ctx context.Context, t ledgerTable, label string, interval models.DateInterval) ([]models.SampleRow, error) {
	query := fmt.Sprintf(`
		SELECT %[1]s, %[2]s, %[3]s
		FROM %[4]s
		WHERE %[1]s BETWEEN $1 AND $2 AND %[2]s = $3
		ORDER BY %[1]s
		LIMIT %[5]d`,
		t.dateCol, t.labelCol, t.qtyCol, t.table, sampleRowLimit)

	rows, err := s.db.QueryContext(ctx, query, interval.Start, interval.End, label)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.SampleRow
	for rows.Next() {
		var r models.SampleRow
		if err := rows.Scan(&r.Date, &r.Label, &r.Quantity); err != nil {
			return nil, err
		}
		r.Date = r.Date.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListVocabulary returns the distinct labels of one entity kind.
func (s *PostgresStore) ListVocabulary(ctx context.Context, kind models.EntityKind) ([]string, error) {
	t, err := vocabularyTable(kind)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	query := fmt.Sprintf(`SELECT DISTINCT %[1]s FROM %[2]s WHERE %[1]s IS NOT NULL ORDER BY %[1]s`, t.labelCol, t.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, stderrors.NewQueryExecutionError(err.Error())
	}
	defer rows.Close()

	var labels []string
	for rows.Next() {
		var l string
		if err := rows.Scan(&l); err != nil {
			return nil, stderrors.NewQueryExecutionError(err.Error())
		}
		labels = append(labels, l)
	}
	return labels, rows.Err()
}
