package ledger

import (
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of an imprest transaction
type TransactionType string

const (
	// TransactionTypeDeposit represents money added to the fund (balance increase)
	TransactionTypeDeposit TransactionType = "DEPOSIT"
	// TransactionTypeWithdrawal represents cash taken out of the fund (balance decrease)
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	// TransactionTypeExpense represents an approved expense drawn from the fund (balance decrease)
	TransactionTypeExpense TransactionType = "EXPENSE"
	// TransactionTypeRefund represents money returned to the fund (balance increase)
	TransactionTypeRefund TransactionType = "REFUND"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDeposit, TransactionTypeWithdrawal,
		TransactionTypeExpense, TransactionTypeRefund:
		return true
	}
	return false
}

// IsCredit returns true if this transaction type increases the fund balance
func (t TransactionType) IsCredit() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeRefund
}

// IsDebit returns true if this transaction type decreases the fund balance
func (t TransactionType) IsDebit() bool {
	return t == TransactionTypeWithdrawal || t == TransactionTypeExpense
}

// ImprestTransaction represents an immutable record of a fund balance change.
// Once created, transactions cannot be modified - corrections must be made
// with new transactions.
type ImprestTransaction struct {
	shared.BaseEntity
	OwnerID         uuid.UUID       `json:"owner_id"`
	ImprestID       uuid.UUID       `json:"imprest_id"`
	Reference       string          `json:"reference"`
	Type            TransactionType `json:"type"`
	Amount          decimal.Decimal `json:"amount"` // Always positive, direction determined by type
	Description     string          `json:"description"`
	BalanceAfter    decimal.Decimal `json:"balance_after"` // Fund balance after applying this transaction
	ExpenseID       *uuid.UUID      `json:"expense_id"`    // Originating expense (EXPENSE/REFUND only)
	ReceiptURL      string          `json:"receipt_url"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// NewImprestTransaction creates a new imprest transaction
func NewImprestTransaction(
	ownerID uuid.UUID,
	imprestID uuid.UUID,
	reference string,
	txType TransactionType,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	description string,
) (*ImprestTransaction, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if imprestID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_IMPREST", "Imprest fund ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Transaction reference cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if balanceAfter.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BALANCE", "Balance after cannot be negative")
	}

	return &ImprestTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		OwnerID:         ownerID,
		ImprestID:       imprestID,
		Reference:       reference,
		Type:            txType,
		Amount:          amount,
		Description:     description,
		BalanceAfter:    balanceAfter,
		TransactionDate: time.Now(),
	}, nil
}

// WithExpenseID links the transaction to its originating expense
func (t *ImprestTransaction) WithExpenseID(expenseID uuid.UUID) *ImprestTransaction {
	t.ExpenseID = &expenseID
	return t
}

// WithReceiptURL attaches a receipt to the transaction
func (t *ImprestTransaction) WithReceiptURL(url string) *ImprestTransaction {
	t.ReceiptURL = url
	return t
}

// WithTransactionDate sets the transaction date
func (t *ImprestTransaction) WithTransactionDate(date time.Time) *ImprestTransaction {
	t.TransactionDate = date
	return t
}

// SignedAmount returns the amount with sign based on transaction type.
// Positive for credits (deposit, refund), negative for debits (withdrawal, expense).
func (t *ImprestTransaction) SignedAmount() decimal.Decimal {
	if t.Type.IsDebit() {
		return t.Amount.Neg()
	}
	return t.Amount
}
