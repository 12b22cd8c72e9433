package ledger

import (
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FundStatus represents the lifecycle status of an imprest fund
type FundStatus string

const (
	// FundStatusActive means the fund accepts transactions and expense approvals
	FundStatusActive FundStatus = "ACTIVE"
	// FundStatusSuspended means the fund is temporarily frozen
	FundStatusSuspended FundStatus = "SUSPENDED"
	// FundStatusClosed means the fund has been wound down
	FundStatusClosed FundStatus = "CLOSED"
)

// String returns the string representation of FundStatus
func (s FundStatus) String() string {
	return string(s)
}

// IsValid returns true if the status is a valid FundStatus
func (s FundStatus) IsValid() bool {
	switch s {
	case FundStatusActive, FundStatusSuspended, FundStatusClosed:
		return true
	}
	return false
}

// ImprestFund represents a pool of money entrusted to an account holder.
// CurrentBalance is maintained exclusively through Apply; it never goes
// negative and always equals InitialAmount plus the signed sum of the
// fund's transaction log.
type ImprestFund struct {
	shared.OwnerAggregateRoot
	Reference      string          `json:"reference"`
	AccountHolder  string          `json:"account_holder"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Purpose        string          `json:"purpose"`
	Status         FundStatus      `json:"status"`
}

// NewImprestFund creates a new imprest fund with the opening balance
// equal to the initial allocation
func NewImprestFund(
	ownerID uuid.UUID,
	reference string,
	accountHolder string,
	initialAmount decimal.Decimal,
	purpose string,
) (*ImprestFund, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Fund reference cannot be empty")
	}
	if accountHolder == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_HOLDER", "Account holder cannot be empty")
	}
	if initialAmount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Initial amount must be positive")
	}

	fund := &ImprestFund{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		Reference:          reference,
		AccountHolder:      accountHolder,
		InitialAmount:      initialAmount,
		CurrentBalance:     initialAmount,
		Purpose:            purpose,
		Status:             FundStatusActive,
	}
	fund.AddDomainEvent(NewFundCreatedEvent(fund))

	return fund, nil
}

// CanTransact returns true if the fund accepts balance movements
func (f *ImprestFund) CanTransact() bool {
	return f.Status == FundStatusActive
}

// IsActive returns true if the fund is active
func (f *ImprestFund) IsActive() bool {
	return f.Status == FundStatusActive
}

// Apply moves the balance by the signed effect of a transaction type and
// returns the resulting balance. Debits that would take the balance below
// zero fail with INSUFFICIENT_FUNDS and leave the fund unchanged.
func (f *ImprestFund) Apply(txType TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !f.CanTransact() {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", "Fund is not active")
	}
	if !txType.IsValid() {
		return decimal.Zero, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	if txType.IsDebit() {
		if f.CurrentBalance.LessThan(amount) {
			return decimal.Zero, shared.NewDomainError("INSUFFICIENT_FUNDS", "Insufficient fund balance")
		}
		f.CurrentBalance = f.CurrentBalance.Sub(amount)
	} else {
		f.CurrentBalance = f.CurrentBalance.Add(amount)
	}
	f.Touch()
	f.AddDomainEvent(NewFundBalanceChangedEvent(f, txType, amount, f.CurrentBalance))

	return f.CurrentBalance, nil
}

// UpdateDetails changes the descriptive fields of the fund. The balance
// is never touched here.
func (f *ImprestFund) UpdateDetails(accountHolder, purpose string, status FundStatus) error {
	if accountHolder == "" {
		return shared.NewDomainError("INVALID_ACCOUNT_HOLDER", "Account holder cannot be empty")
	}
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Fund status is not valid")
	}

	f.AccountHolder = accountHolder
	f.Purpose = purpose
	f.Status = status
	f.Touch()

	return nil
}
