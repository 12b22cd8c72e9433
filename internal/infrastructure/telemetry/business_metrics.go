// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the ledger service.
// It tracks document activity, expense approvals, and imprest fund health.
type BusinessMetrics struct {
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	documentCreatedTotal *Counter
	documentAmountTotal  *Counter
	expenseDecisionTotal *Counter
	journalEntriesTotal  *Counter

	// Gauge metrics (point-in-time values)
	fundBalance         *FloatGauge
	pendingExpenseCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	ledgerProvider LedgerMetricsProvider
}

// LedgerMetricsProvider provides ledger data for periodic metrics collection.
// This interface allows the telemetry layer to query ledger state without
// depending on the ledger domain directly.
type LedgerMetricsProvider interface {
	// GetFundBalances returns the current balance per active imprest fund for an owner
	GetFundBalances(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)

	// GetPendingExpenseCount returns the number of expenses awaiting a decision for an owner
	GetPendingExpenseCount(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	LedgerProvider  LedgerMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		logger:         logger,
		stopChan:       make(chan struct{}),
		ledgerProvider: cfg.LedgerProvider,
	}

	var err error

	// Document metrics
	bm.documentCreatedTotal, err = NewCounter(
		cfg.Meter,
		"ledger_document_created_total",
		"Total number of ledger documents created",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	bm.documentAmountTotal, err = NewCounter(
		cfg.Meter,
		"ledger_document_amount_total",
		"Total document amount in cents",
		"{cents}",
	)
	if err != nil {
		return nil, err
	}

	// Expense workflow metrics
	bm.expenseDecisionTotal, err = NewCounter(
		cfg.Meter,
		"ledger_expense_decision_total",
		"Total number of expense approval decisions",
		"{decisions}",
	)
	if err != nil {
		return nil, err
	}

	// Journal metrics
	bm.journalEntriesTotal, err = NewCounter(
		cfg.Meter,
		"ledger_journal_entries_total",
		"Total number of journal entries posted",
		"{entries}",
	)
	if err != nil {
		return nil, err
	}

	// Fund gauge metrics
	bm.fundBalance, err = NewFloatGauge(
		cfg.Meter,
		"ledger_fund_balance",
		"Current imprest fund balance",
		"{currency}",
	)
	if err != nil {
		return nil, err
	}

	bm.pendingExpenseCount, err = NewGauge(
		cfg.Meter,
		"ledger_pending_expense_count",
		"Number of expenses awaiting an approval decision",
		"{expenses}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Document Metrics
// =============================================================================

// DocumentType identifies the kind of ledger document for metrics labeling.
type DocumentType string

const (
	DocumentTypeFund        DocumentType = "fund"
	DocumentTypeTransaction DocumentType = "transaction"
	DocumentTypeExpense     DocumentType = "expense"
	DocumentTypeCashBook    DocumentType = "cash_book"
)

// RecordDocumentCreated records a document creation event.
// This should be called from the application layer when a document is created.
func (bm *BusinessMetrics) RecordDocumentCreated(ctx context.Context, ownerID uuid.UUID, docType DocumentType) {
	bm.documentCreatedTotal.Inc(ctx,
		AttrOwnerID.String(ownerID.String()),
		AttrDocumentType.String(string(docType)),
	)
}

// RecordDocumentAmount records the document amount.
// Amount should be in the smallest currency unit (cents).
func (bm *BusinessMetrics) RecordDocumentAmount(ctx context.Context, ownerID uuid.UUID, docType DocumentType, amountCents int64) {
	bm.documentAmountTotal.Add(ctx, amountCents,
		AttrOwnerID.String(ownerID.String()),
		AttrDocumentType.String(string(docType)),
	)
}

// RecordDocumentWithAmount is a convenience method that records both document count and amount.
func (bm *BusinessMetrics) RecordDocumentWithAmount(ctx context.Context, ownerID uuid.UUID, docType DocumentType, amount decimal.Decimal) {
	bm.RecordDocumentCreated(ctx, ownerID, docType)

	// Convert to cents (multiply by 100)
	amountCents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordDocumentAmount(ctx, ownerID, docType, amountCents)
}

// =============================================================================
// Expense Workflow Metrics
// =============================================================================

// ExpenseDecision represents the outcome of an expense review for metrics labeling.
type ExpenseDecision string

const (
	ExpenseDecisionApproved ExpenseDecision = "approved"
	ExpenseDecisionRejected ExpenseDecision = "rejected"
	ExpenseDecisionPaid     ExpenseDecision = "paid"
)

// RecordExpenseDecision records an expense approval decision.
// This should be called when an expense is approved, rejected, or paid.
func (bm *BusinessMetrics) RecordExpenseDecision(ctx context.Context, ownerID uuid.UUID, decision ExpenseDecision) {
	bm.expenseDecisionTotal.Inc(ctx,
		AttrOwnerID.String(ownerID.String()),
		AttrExpenseStatus.String(string(decision)),
	)
}

// =============================================================================
// Journal Metrics
// =============================================================================

// RecordJournalEntries records journal entries posted by a ledger operation.
func (bm *BusinessMetrics) RecordJournalEntries(ctx context.Context, ownerID uuid.UUID, count int64) {
	bm.journalEntriesTotal.Add(ctx, count,
		AttrOwnerID.String(ownerID.String()),
	)
}

// =============================================================================
// Fund Metrics
// =============================================================================

// RecordFundBalance records the current balance of an imprest fund.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordFundBalance(ctx context.Context, ownerID, fundID uuid.UUID, balance decimal.Decimal) {
	bm.fundBalance.Record(ctx, balance.InexactFloat64(),
		AttrOwnerID.String(ownerID.String()),
		AttrFundID.String(fundID.String()),
	)
}

// RecordPendingExpenseCount records the number of expenses awaiting a decision.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordPendingExpenseCount(ctx context.Context, ownerID uuid.UUID, count int64) {
	bm.pendingExpenseCount.Record(ctx, count,
		AttrOwnerID.String(ownerID.String()),
	)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// OwnerProvider provides owner IDs for periodic metrics collection.
type OwnerProvider interface {
	GetActiveOwnerIDs(ctx context.Context) ([]uuid.UUID, error)
}

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects fund metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, ownerProvider OwnerProvider, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, ownerProvider, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, ownerProvider OwnerProvider, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectFundMetrics(ctx, ownerProvider)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectFundMetrics(ctx, ownerProvider)
		}
	}
}

// collectFundMetrics collects fund gauge metrics for all owners.
func (bm *BusinessMetrics) collectFundMetrics(ctx context.Context, ownerProvider OwnerProvider) {
	if bm.ledgerProvider == nil {
		bm.logger.Debug("No ledger provider configured, skipping fund metrics collection")
		return
	}

	ownerIDs, err := ownerProvider.GetActiveOwnerIDs(ctx)
	if err != nil {
		bm.logger.Error("Failed to get owner IDs for metrics collection", zap.Error(err))
		return
	}

	for _, ownerID := range ownerIDs {
		bm.collectOwnerFundMetrics(ctx, ownerID)
	}
}

// collectOwnerFundMetrics collects fund metrics for a single owner.
func (bm *BusinessMetrics) collectOwnerFundMetrics(ctx context.Context, ownerID uuid.UUID) {
	// Collect balances per fund
	balances, err := bm.ledgerProvider.GetFundBalances(ctx, ownerID)
	if err != nil {
		bm.logger.Warn("Failed to get fund balances for owner",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
	} else {
		for fundID, balance := range balances {
			bm.RecordFundBalance(ctx, ownerID, fundID, balance)
		}
	}

	// Collect pending expense count
	pendingCount, err := bm.ledgerProvider.GetPendingExpenseCount(ctx, ownerID)
	if err != nil {
		bm.logger.Warn("Failed to get pending expense count for owner",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
	} else {
		bm.RecordPendingExpenseCount(ctx, ownerID, pendingCount)
	}
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
