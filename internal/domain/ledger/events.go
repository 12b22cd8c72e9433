package ledger

import (
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types emitted by the ledger aggregates
const (
	EventTypeFundCreated        = "ledger.fund.created"
	EventTypeFundBalanceChanged = "ledger.fund.balance_changed"
	EventTypeExpenseSubmitted   = "ledger.expense.submitted"
	EventTypeExpenseApproved    = "ledger.expense.approved"
	EventTypeExpenseRejected    = "ledger.expense.rejected"
	EventTypeExpensePaid        = "ledger.expense.paid"
	EventTypeCashEntryRecorded  = "ledger.cashbook.recorded"
)

// Aggregate type names used in event envelopes
const (
	AggregateTypeFund     = "ImprestFund"
	AggregateTypeExpense  = "Expense"
	AggregateTypeCashBook = "CashBookEntry"
)

// FundCreatedEvent is emitted when a new imprest fund is opened
type FundCreatedEvent struct {
	shared.BaseDomainEvent
	Reference     string          `json:"reference"`
	AccountHolder string          `json:"account_holder"`
	InitialAmount decimal.Decimal `json:"initial_amount"`
}

// NewFundCreatedEvent creates a FundCreatedEvent for the given fund
func NewFundCreatedEvent(fund *ImprestFund) *FundCreatedEvent {
	return &FundCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFundCreated, AggregateTypeFund, fund.ID, fund.OwnerID),
		Reference:       fund.Reference,
		AccountHolder:   fund.AccountHolder,
		InitialAmount:   fund.InitialAmount,
	}
}

// FundBalanceChangedEvent is emitted every time a transaction moves the
// fund balance. BalanceAfter is the balance once the movement is applied.
type FundBalanceChangedEvent struct {
	shared.BaseDomainEvent
	Reference       string          `json:"reference"`
	TransactionType TransactionType `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
}

// NewFundBalanceChangedEvent creates a FundBalanceChangedEvent
func NewFundBalanceChangedEvent(fund *ImprestFund, txType TransactionType, amount, balanceAfter decimal.Decimal) *FundBalanceChangedEvent {
	return &FundBalanceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeFundBalanceChanged, AggregateTypeFund, fund.ID, fund.OwnerID),
		Reference:       fund.Reference,
		TransactionType: txType,
		Amount:          amount,
		BalanceAfter:    balanceAfter,
	}
}

// ExpenseSubmittedEvent is emitted when an expense enters the approval queue
type ExpenseSubmittedEvent struct {
	shared.BaseDomainEvent
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID uuid.UUID       `json:"category_id"`
}

// NewExpenseSubmittedEvent creates an ExpenseSubmittedEvent
func NewExpenseSubmittedEvent(expense *Expense) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseSubmitted, AggregateTypeExpense, expense.ID, expense.OwnerID),
		Reference:       expense.Reference,
		Amount:          expense.Amount,
		CategoryID:      expense.CategoryID,
	}
}

// ExpenseApprovedEvent is emitted when a pending expense is approved
type ExpenseApprovedEvent struct {
	shared.BaseDomainEvent
	Reference  string          `json:"reference"`
	Amount     decimal.Decimal `json:"amount"`
	ApprovedBy uuid.UUID       `json:"approved_by"`
	ImprestID  *uuid.UUID      `json:"imprest_id"`
}

// NewExpenseApprovedEvent creates an ExpenseApprovedEvent
func NewExpenseApprovedEvent(expense *Expense, approvedBy uuid.UUID) *ExpenseApprovedEvent {
	return &ExpenseApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseApproved, AggregateTypeExpense, expense.ID, expense.OwnerID),
		Reference:       expense.Reference,
		Amount:          expense.Amount,
		ApprovedBy:      approvedBy,
		ImprestID:       expense.ImprestID,
	}
}

// ExpenseRejectedEvent is emitted when an expense is rejected
type ExpenseRejectedEvent struct {
	shared.BaseDomainEvent
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	ImprestID *uuid.UUID      `json:"imprest_id"`
}

// NewExpenseRejectedEvent creates an ExpenseRejectedEvent
func NewExpenseRejectedEvent(expense *Expense) *ExpenseRejectedEvent {
	return &ExpenseRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpenseRejected, AggregateTypeExpense, expense.ID, expense.OwnerID),
		Reference:       expense.Reference,
		Amount:          expense.Amount,
		ImprestID:       expense.ImprestID,
	}
}

// ExpensePaidEvent is emitted when an approved expense is settled
type ExpensePaidEvent struct {
	shared.BaseDomainEvent
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
}

// NewExpensePaidEvent creates an ExpensePaidEvent
func NewExpensePaidEvent(expense *Expense) *ExpensePaidEvent {
	return &ExpensePaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeExpensePaid, AggregateTypeExpense, expense.ID, expense.OwnerID),
		Reference:       expense.Reference,
		Amount:          expense.Amount,
	}
}

// CashEntryRecordedEvent is emitted when a cash book entry is recorded
type CashEntryRecordedEvent struct {
	shared.BaseDomainEvent
	Reference string            `json:"reference"`
	EntryType CashBookEntryType `json:"entry_type"`
	Amount    decimal.Decimal   `json:"amount"`
}

// NewCashEntryRecordedEvent creates a CashEntryRecordedEvent
func NewCashEntryRecordedEvent(entry *CashBookEntry) *CashEntryRecordedEvent {
	return &CashEntryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashEntryRecorded, AggregateTypeCashBook, entry.ID, entry.OwnerID),
		Reference:       entry.Reference,
		EntryType:       entry.Type,
		Amount:          entry.Amount,
	}
}
