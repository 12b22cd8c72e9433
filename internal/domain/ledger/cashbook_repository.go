package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CashBookFilter contains filter options for listing cash book entries
type CashBookFilter struct {
	Type         *CashBookEntryType
	Account      string
	IsReconciled *bool
	DateFrom     *time.Time
	DateTo       *time.Time
	Search       string
	Page         int
	PageSize     int
}

// CashBookRepository defines the interface for cash book persistence
type CashBookRepository interface {
	// Create creates a new cash book entry
	Create(ctx context.Context, entry *CashBookEntry) error

	// FindByID finds an entry by ID within an owner scope
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*CashBookEntry, error)

	// List lists entries with filtering
	List(ctx context.Context, ownerID uuid.UUID, filter CashBookFilter) ([]*CashBookEntry, int64, error)

	// Save persists changes to an existing entry
	Save(ctx context.Context, entry *CashBookEntry) error

	// Delete removes an entry within an owner scope
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// CountCreatedInMonth counts entries created in the month containing
	// at, across all owners. Used for reference sequence generation.
	CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error)
}

// JournalFilter contains filter options for listing journal entries
type JournalFilter struct {
	SourceModule *SourceModule
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	PageSize     int
}

// JournalRepository defines the interface for the transaction journal.
// The journal is append-only.
type JournalRepository interface {
	// Create appends a new journal entry
	Create(ctx context.Context, entry *JournalEntry) error

	// List lists journal entries with filtering
	List(ctx context.Context, ownerID uuid.UUID, filter JournalFilter) ([]*JournalEntry, int64, error)
}

// ReportSnapshotRepository defines the interface for persisted accounting reports
type ReportSnapshotRepository interface {
	// Create persists a new report snapshot
	Create(ctx context.Context, report *AccountingReport) error

	// FindByID finds a report by ID within an owner scope
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*AccountingReport, error)

	// List lists reports of an owner, newest first
	List(ctx context.Context, ownerID uuid.UUID, reportType *ReportType, page, pageSize int) ([]*AccountingReport, int64, error)

	// Delete removes a report within an owner scope
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
