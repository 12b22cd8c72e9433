package ledger

import (
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ExpenseCategory classifies expenses for reporting
type ExpenseCategory struct {
	shared.OwnerAggregateRoot
	Name        string `json:"name"`
	Description string `json:"description"`
	IsMajor     bool   `json:"is_major"` // Major categories are highlighted in monthly reports
}

// NewExpenseCategory creates a new expense category
func NewExpenseCategory(ownerID uuid.UUID, name, description string, isMajor bool) (*ExpenseCategory, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	return &ExpenseCategory{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		Name:               name,
		Description:        description,
		IsMajor:            isMajor,
	}, nil
}

// Update changes the category details
func (c *ExpenseCategory) Update(name, description string, isMajor bool) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Category name cannot exceed 100 characters")
	}

	c.Name = name
	c.Description = description
	c.IsMajor = isMajor
	c.Touch()

	return nil
}
