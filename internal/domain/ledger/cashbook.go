package ledger

import (
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashBookEntryType represents the direction of a cash book entry
type CashBookEntryType string

const (
	CashBookEntryTypeIncome   CashBookEntryType = "INCOME"
	CashBookEntryTypeExpense  CashBookEntryType = "EXPENSE"
	CashBookEntryTypeTransfer CashBookEntryType = "TRANSFER"
)

// String returns the string representation of CashBookEntryType
func (t CashBookEntryType) String() string {
	return string(t)
}

// IsValid returns true if the entry type is valid
func (t CashBookEntryType) IsValid() bool {
	switch t {
	case CashBookEntryTypeIncome, CashBookEntryTypeExpense, CashBookEntryTypeTransfer:
		return true
	}
	return false
}

// CashBookEntry records a single cash movement outside the imprest funds.
// Entries feed the transaction journal and the trial balance.
type CashBookEntry struct {
	shared.OwnerAggregateRoot
	Reference     string            `json:"reference"`
	EntryDate     time.Time         `json:"entry_date"`
	Description   string            `json:"description"`
	Type          CashBookEntryType `json:"type"`
	Amount        decimal.Decimal   `json:"amount"`
	Account       string            `json:"account"`
	Counterparty  string            `json:"counterparty"`
	Category      string            `json:"category"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	IsReconciled  bool              `json:"is_reconciled"`
	ReconciledAt  *time.Time        `json:"reconciled_at"`
}

// NewCashBookEntry creates a new cash book entry
func NewCashBookEntry(
	ownerID uuid.UUID,
	reference string,
	entryDate time.Time,
	description string,
	entryType CashBookEntryType,
	amount decimal.Decimal,
	account string,
	paymentMethod PaymentMethod,
) (*CashBookEntry, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Entry reference cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid cash book entry type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if account == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	entry := &CashBookEntry{
		OwnerAggregateRoot: shared.NewOwnerAggregateRoot(ownerID),
		Reference:          reference,
		EntryDate:          entryDate,
		Description:        description,
		Type:               entryType,
		Amount:             amount,
		Account:            account,
		PaymentMethod:      paymentMethod,
	}
	entry.AddDomainEvent(NewCashEntryRecordedEvent(entry))

	return entry, nil
}

// WithCounterparty sets the counterparty name
func (e *CashBookEntry) WithCounterparty(counterparty string) *CashBookEntry {
	e.Counterparty = counterparty
	return e
}

// WithCategory sets the free-form category label
func (e *CashBookEntry) WithCategory(category string) *CashBookEntry {
	e.Category = category
	return e
}

// Update changes the entry details. Reconciled entries are frozen.
func (e *CashBookEntry) Update(
	entryDate time.Time,
	description string,
	entryType CashBookEntryType,
	amount decimal.Decimal,
	account string,
	paymentMethod PaymentMethod,
) error {
	if e.IsReconciled {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a reconciled entry")
	}
	if description == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if !entryType.IsValid() {
		return shared.NewDomainError("INVALID_ENTRY_TYPE", "Invalid cash book entry type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if account == "" {
		return shared.NewDomainError("INVALID_ACCOUNT", "Account cannot be empty")
	}
	if !paymentMethod.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not valid")
	}

	e.EntryDate = entryDate
	e.Description = description
	e.Type = entryType
	e.Amount = amount
	e.Account = account
	e.PaymentMethod = paymentMethod
	e.Touch()

	return nil
}

// Reconcile marks the entry as matched against a bank statement
func (e *CashBookEntry) Reconcile() error {
	if e.IsReconciled {
		return shared.NewDomainError("INVALID_STATE", "Entry is already reconciled")
	}

	now := time.Now()
	e.IsReconciled = true
	e.ReconciledAt = &now
	e.UpdatedAt = now

	return nil
}
