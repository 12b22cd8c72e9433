package report

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundSummary is a read model aggregating imprest fund balances
type FundSummary struct {
	OwnerID       uuid.UUID       `json:"owner_id"`
	TotalBalance  decimal.Decimal `json:"total_balance"`  // Sum of current balances across all funds
	TotalInitial  decimal.Decimal `json:"total_initial"`  // Sum of initial allocations
	ActiveFunds   int64           `json:"active_funds"`   // Funds in ACTIVE status
	TotalFunds    int64           `json:"total_funds"`
}

// ExpenseSummary is a read model aggregating expenses across statuses
type ExpenseSummary struct {
	OwnerID       uuid.UUID       `json:"owner_id"`
	TotalAmount   decimal.Decimal `json:"total_amount"` // All expenses regardless of status
	PendingCount  int64           `json:"pending_count"`
	ApprovedCount int64           `json:"approved_count"`
	PaidCount     int64           `json:"paid_count"`
	RejectedCount int64           `json:"rejected_count"`
}

// MonthlyCategoryExpense is one row of the monthly per-category breakdown.
// Allocated carries the largest initial allocation among active funds
// linked to the category's expenses, as a budget reference figure.
type MonthlyCategoryExpense struct {
	CategoryID   uuid.UUID       `json:"category_id"`
	CategoryName string          `json:"category_name"`
	IsMajor      bool            `json:"is_major"`
	Total        decimal.Decimal `json:"total"`
	Allocated    decimal.Decimal `json:"allocated"`
}

// TrialBalanceLine is one fund's row in the trial balance over a period
type TrialBalanceLine struct {
	ImprestID      uuid.UUID       `json:"imprest_id"`
	FundReference  string          `json:"fund_reference"`
	AccountHolder  string          `json:"account_holder"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	DebitTotal     decimal.Decimal `json:"debit_total"`  // Withdrawals and expenses in the period
	CreditTotal    decimal.Decimal `json:"credit_total"` // Deposits and refunds in the period
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// TrialBalance is the full trial balance read model
type TrialBalance struct {
	OwnerID     uuid.UUID          `json:"owner_id"`
	PeriodStart time.Time          `json:"period_start"`
	PeriodEnd   time.Time          `json:"period_end"`
	Lines       []TrialBalanceLine `json:"lines"`
	DebitTotal  decimal.Decimal    `json:"debit_total"`
	CreditTotal decimal.Decimal    `json:"credit_total"`
}

// LedgerReportFilter defines filtering options for ledger reports
type LedgerReportFilter struct {
	OwnerID   uuid.UUID `json:"-"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// LedgerReportRepository defines the interface for ledger report queries
type LedgerReportRepository interface {
	// GetFundSummary returns aggregate fund figures for an owner
	GetFundSummary(ownerID uuid.UUID) (*FundSummary, error)

	// GetExpenseSummary returns aggregate expense figures for an owner
	GetExpenseSummary(ownerID uuid.UUID) (*ExpenseSummary, error)

	// GetMonthlyExpensesByCategory returns per-category expense totals for
	// the month containing the given date
	GetMonthlyExpensesByCategory(ownerID uuid.UUID, month time.Time) ([]MonthlyCategoryExpense, error)

	// GetTrialBalance returns per-fund debit/credit totals over the period
	GetTrialBalance(filter LedgerReportFilter) (*TrialBalance, error)
}
