package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilter contains filter options for listing imprest transactions
type TransactionFilter struct {
	ImprestID *uuid.UUID
	Type      *TransactionType
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}

// TransactionRepository defines the interface for imprest transaction persistence.
// Transactions are append-only; there is no update or single-row delete.
type TransactionRepository interface {
	// Create appends a new transaction
	Create(ctx context.Context, transaction *ImprestTransaction) error

	// FindByID finds a transaction by ID within an owner scope
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ImprestTransaction, error)

	// List lists transactions with filtering
	List(ctx context.Context, ownerID uuid.UUID, filter TransactionFilter) ([]*ImprestTransaction, int64, error)

	// FindByExpenseID finds transactions originated by an expense
	FindByExpenseID(ctx context.Context, ownerID, expenseID uuid.UUID) ([]*ImprestTransaction, error)

	// DeleteByImprestID removes all transactions of a fund. Only used by
	// the cascading fund delete.
	DeleteByImprestID(ctx context.Context, ownerID, imprestID uuid.UUID) error

	// SumSignedByImprestID sums the signed amounts of a fund's transactions
	// up to (excluding) the given cutoff
	SumSignedByImprestID(ctx context.Context, ownerID, imprestID uuid.UUID, before time.Time) (decimal.Decimal, error)

	// CountCreatedInMonth counts transactions created in the month containing
	// at, across all owners. Used for reference sequence generation.
	CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error)
}
