package telemetry

import (
	"context"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LedgerMetricsHandler records business metrics from ledger domain events.
// It subscribes to the event bus so the application layer never has to
// call the metrics API directly.
type LedgerMetricsHandler struct {
	metrics *BusinessMetrics
	logger  *zap.Logger
}

// NewLedgerMetricsHandler creates a new LedgerMetricsHandler
func NewLedgerMetricsHandler(metrics *BusinessMetrics, logger *zap.Logger) *LedgerMetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerMetricsHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the ledger event types this handler consumes
func (h *LedgerMetricsHandler) EventTypes() []string {
	return []string{
		ledger.EventTypeFundCreated,
		ledger.EventTypeFundBalanceChanged,
		ledger.EventTypeExpenseSubmitted,
		ledger.EventTypeExpenseApproved,
		ledger.EventTypeExpenseRejected,
		ledger.EventTypeExpensePaid,
		ledger.EventTypeCashEntryRecorded,
	}
}

// Handle maps a domain event to its metric recordings
func (h *LedgerMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *ledger.FundCreatedEvent:
		h.metrics.RecordDocumentWithAmount(ctx, e.OwnerID(), DocumentTypeFund, e.InitialAmount)

	case *ledger.FundBalanceChangedEvent:
		// Every balance change corresponds to one recorded transaction
		h.metrics.RecordDocumentWithAmount(ctx, e.OwnerID(), DocumentTypeTransaction, e.Amount)
		h.metrics.RecordFundBalance(ctx, e.OwnerID(), e.AggregateID(), e.BalanceAfter)

	case *ledger.ExpenseSubmittedEvent:
		h.metrics.RecordDocumentWithAmount(ctx, e.OwnerID(), DocumentTypeExpense, e.Amount)

	case *ledger.ExpenseApprovedEvent:
		h.metrics.RecordExpenseDecision(ctx, e.OwnerID(), ExpenseDecisionApproved)

	case *ledger.ExpenseRejectedEvent:
		h.metrics.RecordExpenseDecision(ctx, e.OwnerID(), ExpenseDecisionRejected)

	case *ledger.ExpensePaidEvent:
		h.metrics.RecordExpenseDecision(ctx, e.OwnerID(), ExpenseDecisionPaid)

	case *ledger.CashEntryRecordedEvent:
		h.metrics.RecordDocumentWithAmount(ctx, e.OwnerID(), DocumentTypeCashBook, e.Amount)

	default:
		h.logger.Debug("ignoring unrecognized ledger event",
			zap.String("event_type", event.EventType()),
		)
	}

	return nil
}

// Ensure LedgerMetricsHandler implements EventHandler
var _ shared.EventHandler = (*LedgerMetricsHandler)(nil)
