package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FundFilter contains filter options for listing imprest funds
type FundFilter struct {
	Status   *FundStatus
	Search   string
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
}

// FundRepository defines the interface for imprest fund persistence
type FundRepository interface {
	// Create creates a new fund
	Create(ctx context.Context, fund *ImprestFund) error

	// FindByID finds a fund by ID within an owner scope
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ImprestFund, error)

	// FindByIDForUpdate finds a fund by ID and locks the row for the
	// duration of the surrounding transaction (SELECT ... FOR UPDATE)
	FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*ImprestFund, error)

	// FindByReference finds a fund by its reference within an owner scope
	FindByReference(ctx context.Context, ownerID uuid.UUID, reference string) (*ImprestFund, error)

	// List lists funds with filtering
	List(ctx context.Context, ownerID uuid.UUID, filter FundFilter) ([]*ImprestFund, int64, error)

	// Save persists changes to an existing fund with optimistic locking
	Save(ctx context.Context, fund *ImprestFund) error

	// Delete removes a fund within an owner scope
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// CountCreatedInMonth counts funds created in the month containing at,
	// across all owners. Used for reference sequence generation.
	CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error)
}
