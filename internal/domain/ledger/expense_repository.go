package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExpenseFilter contains filter options for listing expenses
type ExpenseFilter struct {
	Status     *ExpenseStatus
	CategoryID *uuid.UUID
	ImprestID  *uuid.UUID
	DateFrom   *time.Time
	DateTo     *time.Time
	Search     string
	Page       int
	PageSize   int
	OrderBy    string
	OrderDir   string
}

// ExpenseRepository defines the interface for expense persistence
type ExpenseRepository interface {
	// Create creates a new expense
	Create(ctx context.Context, expense *Expense) error

	// FindByID finds an expense by ID within an owner scope
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Expense, error)

	// List lists expenses with filtering
	List(ctx context.Context, ownerID uuid.UUID, filter ExpenseFilter) ([]*Expense, int64, error)

	// Save persists changes to an existing expense with optimistic locking
	Save(ctx context.Context, expense *Expense) error

	// Delete removes an expense within an owner scope
	Delete(ctx context.Context, ownerID, id uuid.UUID) error

	// FindRecent returns the most recently created expenses
	FindRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*Expense, error)

	// CountCreatedInMonth counts expenses created in the month containing
	// at, across all owners. Used for reference sequence generation.
	CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error)
}

// CategoryRepository defines the interface for expense category persistence
type CategoryRepository interface {
	// Create creates a new category
	Create(ctx context.Context, category *ExpenseCategory) error

	// FindByID finds a category by ID within an owner scope
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ExpenseCategory, error)

	// FindByName finds a category by name within an owner scope
	FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*ExpenseCategory, error)

	// List lists all categories of an owner
	List(ctx context.Context, ownerID uuid.UUID) ([]*ExpenseCategory, error)

	// Save persists changes to an existing category
	Save(ctx context.Context, category *ExpenseCategory) error

	// Delete removes a category within an owner scope
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
