package ledger

import (
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceModule identifies which module produced a journal entry
type SourceModule string

const (
	SourceModuleCashBook SourceModule = "CASH_BOOK"
	SourceModuleExpenses SourceModule = "EXPENSES"
	SourceModuleImprest  SourceModule = "IMPREST"
)

// String returns the string representation of SourceModule
func (m SourceModule) String() string {
	return string(m)
}

// IsValid returns true if the source module is valid
func (m SourceModule) IsValid() bool {
	switch m {
	case SourceModuleCashBook, SourceModuleExpenses, SourceModuleImprest:
		return true
	}
	return false
}

// JournalEntry is an append-only audit record of a money movement.
// Entries are never updated or deleted.
type JournalEntry struct {
	shared.BaseEntity
	OwnerID         uuid.UUID       `json:"owner_id"`
	EntryDate       time.Time       `json:"entry_date"`       // When the entry was journaled
	TransactionDate time.Time       `json:"transaction_date"` // When the underlying movement happened
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	SourceModule    SourceModule    `json:"source_module"`
	SourceID        uuid.UUID       `json:"source_id"`
	DebitAccount    string          `json:"debit_account"`
	CreditAccount   string          `json:"credit_account"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewJournalEntry creates a new journal entry
func NewJournalEntry(
	ownerID uuid.UUID,
	transactionDate time.Time,
	reference string,
	description string,
	sourceModule SourceModule,
	sourceID uuid.UUID,
	debitAccount string,
	creditAccount string,
	amount decimal.Decimal,
) (*JournalEntry, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Journal reference cannot be empty")
	}
	if !sourceModule.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_MODULE", "Invalid source module")
	}
	if sourceID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source document ID cannot be empty")
	}
	if debitAccount == "" || creditAccount == "" {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Debit and credit accounts are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}

	return &JournalEntry{
		BaseEntity:      shared.NewBaseEntity(),
		OwnerID:         ownerID,
		EntryDate:       time.Now(),
		TransactionDate: transactionDate,
		Reference:       reference,
		Description:     description,
		SourceModule:    sourceModule,
		SourceID:        sourceID,
		DebitAccount:    debitAccount,
		CreditAccount:   creditAccount,
		Amount:          amount,
	}, nil
}
