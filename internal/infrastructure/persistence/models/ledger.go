package models

import (
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImprestFundModel is the persistence model for the ImprestFund aggregate.
type ImprestFundModel struct {
	OwnerAggregateModel
	Reference      string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_funds_reference"`
	AccountHolder  string            `gorm:"type:varchar(200);not null"`
	InitialAmount  decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	CurrentBalance decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Purpose        string            `gorm:"type:varchar(500)"`
	Status         ledger.FundStatus `gorm:"type:varchar(20);not null;index:idx_funds_status"`
}

// TableName returns the table name for GORM
func (ImprestFundModel) TableName() string {
	return "imprest_funds"
}

// ToDomain converts the persistence model to a domain ImprestFund aggregate.
func (m *ImprestFundModel) ToDomain() *ledger.ImprestFund {
	fund := &ledger.ImprestFund{
		Reference:      m.Reference,
		AccountHolder:  m.AccountHolder,
		InitialAmount:  m.InitialAmount,
		CurrentBalance: m.CurrentBalance,
		Purpose:        m.Purpose,
		Status:         m.Status,
	}
	m.PopulateOwnerAggregateRoot(&fund.OwnerAggregateRoot)
	return fund
}

// FromDomain populates the persistence model from a domain ImprestFund aggregate.
func (m *ImprestFundModel) FromDomain(f *ledger.ImprestFund) {
	m.FromDomainOwnerAggregateRoot(f.OwnerAggregateRoot)
	m.Reference = f.Reference
	m.AccountHolder = f.AccountHolder
	m.InitialAmount = f.InitialAmount
	m.CurrentBalance = f.CurrentBalance
	m.Purpose = f.Purpose
	m.Status = f.Status
}

// ImprestFundModelFromDomain creates a new persistence model from a domain ImprestFund.
func ImprestFundModelFromDomain(f *ledger.ImprestFund) *ImprestFundModel {
	m := &ImprestFundModel{}
	m.FromDomain(f)
	return m
}

// ImprestTransactionModel is the persistence model for the ImprestTransaction entity.
type ImprestTransactionModel struct {
	BaseModel
	OwnerID         uuid.UUID              `gorm:"type:uuid;not null;index:idx_imprest_tx_owner"`
	ImprestID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_imprest_tx_fund"`
	Reference       string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_imprest_tx_reference"`
	Type            ledger.TransactionType `gorm:"type:varchar(20);not null;index:idx_imprest_tx_type"`
	Amount          decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	Description     string                 `gorm:"type:varchar(500)"`
	BalanceAfter    decimal.Decimal        `gorm:"type:decimal(18,4);not null"`
	ExpenseID       *uuid.UUID             `gorm:"type:uuid;index:idx_imprest_tx_expense"`
	ReceiptURL      string                 `gorm:"type:varchar(500)"`
	TransactionDate time.Time              `gorm:"type:timestamptz;not null;index:idx_imprest_tx_date"`
}

// TableName returns the table name for GORM
func (ImprestTransactionModel) TableName() string {
	return "imprest_transactions"
}

// ToDomain converts the persistence model to a domain ImprestTransaction entity.
func (m *ImprestTransactionModel) ToDomain() *ledger.ImprestTransaction {
	return &ledger.ImprestTransaction{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OwnerID:         m.OwnerID,
		ImprestID:       m.ImprestID,
		Reference:       m.Reference,
		Type:            m.Type,
		Amount:          m.Amount,
		Description:     m.Description,
		BalanceAfter:    m.BalanceAfter,
		ExpenseID:       m.ExpenseID,
		ReceiptURL:      m.ReceiptURL,
		TransactionDate: m.TransactionDate,
	}
}

// FromDomain populates the persistence model from a domain ImprestTransaction entity.
func (m *ImprestTransactionModel) FromDomain(t *ledger.ImprestTransaction) {
	m.FromDomainBaseEntity(t.BaseEntity)
	m.OwnerID = t.OwnerID
	m.ImprestID = t.ImprestID
	m.Reference = t.Reference
	m.Type = t.Type
	m.Amount = t.Amount
	m.Description = t.Description
	m.BalanceAfter = t.BalanceAfter
	m.ExpenseID = t.ExpenseID
	m.ReceiptURL = t.ReceiptURL
	m.TransactionDate = t.TransactionDate
}

// ImprestTransactionModelFromDomain creates a new persistence model from a domain ImprestTransaction.
func ImprestTransactionModelFromDomain(t *ledger.ImprestTransaction) *ImprestTransactionModel {
	m := &ImprestTransactionModel{}
	m.FromDomain(t)
	return m
}

// ExpenseModel is the persistence model for the Expense aggregate.
type ExpenseModel struct {
	OwnerAggregateModel
	Reference     string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_expenses_reference"`
	Description   string               `gorm:"type:varchar(500);not null"`
	Amount        decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	CategoryID    uuid.UUID            `gorm:"type:uuid;not null;index:idx_expenses_category"`
	ExpenseDate   time.Time            `gorm:"type:timestamptz;not null;index:idx_expenses_date"`
	PaymentMethod ledger.PaymentMethod `gorm:"type:varchar(20);not null"`
	Status        ledger.ExpenseStatus `gorm:"type:varchar(20);not null;index:idx_expenses_status"`
	ImprestID     *uuid.UUID           `gorm:"type:uuid;index:idx_expenses_fund"`
	ReceiptURL    string               `gorm:"type:varchar(500)"`
	ApprovedBy    *uuid.UUID           `gorm:"type:uuid"`
	ApprovedAt    *time.Time           `gorm:"type:timestamptz"`
	RejectedAt    *time.Time           `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense aggregate.
func (m *ExpenseModel) ToDomain() *ledger.Expense {
	expense := &ledger.Expense{
		Reference:     m.Reference,
		Description:   m.Description,
		Amount:        m.Amount,
		CategoryID:    m.CategoryID,
		ExpenseDate:   m.ExpenseDate,
		PaymentMethod: m.PaymentMethod,
		Status:        m.Status,
		ImprestID:     m.ImprestID,
		ReceiptURL:    m.ReceiptURL,
		ApprovedBy:    m.ApprovedBy,
		ApprovedAt:    m.ApprovedAt,
		RejectedAt:    m.RejectedAt,
	}
	m.PopulateOwnerAggregateRoot(&expense.OwnerAggregateRoot)
	return expense
}

// FromDomain populates the persistence model from a domain Expense aggregate.
func (m *ExpenseModel) FromDomain(e *ledger.Expense) {
	m.FromDomainOwnerAggregateRoot(e.OwnerAggregateRoot)
	m.Reference = e.Reference
	m.Description = e.Description
	m.Amount = e.Amount
	m.CategoryID = e.CategoryID
	m.ExpenseDate = e.ExpenseDate
	m.PaymentMethod = e.PaymentMethod
	m.Status = e.Status
	m.ImprestID = e.ImprestID
	m.ReceiptURL = e.ReceiptURL
	m.ApprovedBy = e.ApprovedBy
	m.ApprovedAt = e.ApprovedAt
	m.RejectedAt = e.RejectedAt
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense.
func ExpenseModelFromDomain(e *ledger.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}

// ExpenseCategoryModel is the persistence model for the ExpenseCategory aggregate.
type ExpenseCategoryModel struct {
	OwnerAggregateModel
	Name        string `gorm:"type:varchar(100);not null;index:idx_expense_categories_name"`
	Description string `gorm:"type:varchar(500)"`
	IsMajor     bool   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ExpenseCategoryModel) TableName() string {
	return "expense_categories"
}

// ToDomain converts the persistence model to a domain ExpenseCategory aggregate.
func (m *ExpenseCategoryModel) ToDomain() *ledger.ExpenseCategory {
	category := &ledger.ExpenseCategory{
		Name:        m.Name,
		Description: m.Description,
		IsMajor:     m.IsMajor,
	}
	m.PopulateOwnerAggregateRoot(&category.OwnerAggregateRoot)
	return category
}

// FromDomain populates the persistence model from a domain ExpenseCategory aggregate.
func (m *ExpenseCategoryModel) FromDomain(c *ledger.ExpenseCategory) {
	m.FromDomainOwnerAggregateRoot(c.OwnerAggregateRoot)
	m.Name = c.Name
	m.Description = c.Description
	m.IsMajor = c.IsMajor
}

// ExpenseCategoryModelFromDomain creates a new persistence model from a domain ExpenseCategory.
func ExpenseCategoryModelFromDomain(c *ledger.ExpenseCategory) *ExpenseCategoryModel {
	m := &ExpenseCategoryModel{}
	m.FromDomain(c)
	return m
}

// CashBookEntryModel is the persistence model for the CashBookEntry aggregate.
type CashBookEntryModel struct {
	OwnerAggregateModel
	Reference     string                   `gorm:"type:varchar(50);not null;uniqueIndex:idx_cash_book_reference"`
	EntryDate     time.Time                `gorm:"type:timestamptz;not null;index:idx_cash_book_date"`
	Description   string                   `gorm:"type:varchar(500);not null"`
	Type          ledger.CashBookEntryType `gorm:"type:varchar(20);not null;index:idx_cash_book_type"`
	Amount        decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	Account       string                   `gorm:"type:varchar(100);not null"`
	Counterparty  string                   `gorm:"type:varchar(200)"`
	Category      string                   `gorm:"type:varchar(100)"`
	PaymentMethod ledger.PaymentMethod     `gorm:"type:varchar(20);not null"`
	IsReconciled  bool                     `gorm:"not null;default:false"`
	ReconciledAt  *time.Time               `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (CashBookEntryModel) TableName() string {
	return "cash_book_entries"
}

// ToDomain converts the persistence model to a domain CashBookEntry aggregate.
func (m *CashBookEntryModel) ToDomain() *ledger.CashBookEntry {
	entry := &ledger.CashBookEntry{
		Reference:     m.Reference,
		EntryDate:     m.EntryDate,
		Description:   m.Description,
		Type:          m.Type,
		Amount:        m.Amount,
		Account:       m.Account,
		Counterparty:  m.Counterparty,
		Category:      m.Category,
		PaymentMethod: m.PaymentMethod,
		IsReconciled:  m.IsReconciled,
		ReconciledAt:  m.ReconciledAt,
	}
	m.PopulateOwnerAggregateRoot(&entry.OwnerAggregateRoot)
	return entry
}

// FromDomain populates the persistence model from a domain CashBookEntry aggregate.
func (m *CashBookEntryModel) FromDomain(e *ledger.CashBookEntry) {
	m.FromDomainOwnerAggregateRoot(e.OwnerAggregateRoot)
	m.Reference = e.Reference
	m.EntryDate = e.EntryDate
	m.Description = e.Description
	m.Type = e.Type
	m.Amount = e.Amount
	m.Account = e.Account
	m.Counterparty = e.Counterparty
	m.Category = e.Category
	m.PaymentMethod = e.PaymentMethod
	m.IsReconciled = e.IsReconciled
	m.ReconciledAt = e.ReconciledAt
}

// CashBookEntryModelFromDomain creates a new persistence model from a domain CashBookEntry.
func CashBookEntryModelFromDomain(e *ledger.CashBookEntry) *CashBookEntryModel {
	m := &CashBookEntryModel{}
	m.FromDomain(e)
	return m
}

// JournalEntryModel is the persistence model for the JournalEntry entity.
type JournalEntryModel struct {
	BaseModel
	OwnerID         uuid.UUID           `gorm:"type:uuid;not null;index:idx_journal_owner"`
	EntryDate       time.Time           `gorm:"type:timestamptz;not null;index:idx_journal_entry_date"`
	TransactionDate time.Time           `gorm:"type:timestamptz;not null"`
	Reference       string              `gorm:"type:varchar(50);not null;index:idx_journal_reference"`
	Description     string              `gorm:"type:varchar(500)"`
	SourceModule    ledger.SourceModule `gorm:"type:varchar(20);not null;index:idx_journal_source"`
	SourceID        uuid.UUID           `gorm:"type:uuid;not null;index:idx_journal_source_id"`
	DebitAccount    string              `gorm:"type:varchar(100);not null"`
	CreditAccount   string              `gorm:"type:varchar(100);not null"`
	Amount          decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
}

// TableName returns the table name for GORM
func (JournalEntryModel) TableName() string {
	return "transaction_journal"
}

// ToDomain converts the persistence model to a domain JournalEntry entity.
func (m *JournalEntryModel) ToDomain() *ledger.JournalEntry {
	return &ledger.JournalEntry{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OwnerID:         m.OwnerID,
		EntryDate:       m.EntryDate,
		TransactionDate: m.TransactionDate,
		Reference:       m.Reference,
		Description:     m.Description,
		SourceModule:    m.SourceModule,
		SourceID:        m.SourceID,
		DebitAccount:    m.DebitAccount,
		CreditAccount:   m.CreditAccount,
		Amount:          m.Amount,
	}
}

// JournalEntryModelFromDomain creates a new persistence model from a domain JournalEntry.
func JournalEntryModelFromDomain(e *ledger.JournalEntry) *JournalEntryModel {
	m := &JournalEntryModel{}
	m.FromDomainBaseEntity(e.BaseEntity)
	m.OwnerID = e.OwnerID
	m.EntryDate = e.EntryDate
	m.TransactionDate = e.TransactionDate
	m.Reference = e.Reference
	m.Description = e.Description
	m.SourceModule = e.SourceModule
	m.SourceID = e.SourceID
	m.DebitAccount = e.DebitAccount
	m.CreditAccount = e.CreditAccount
	m.Amount = e.Amount
	return m
}

// AccountingReportModel is the persistence model for the AccountingReport entity.
type AccountingReportModel struct {
	BaseModel
	OwnerID     uuid.UUID         `gorm:"type:uuid;not null;index:idx_accounting_reports_owner"`
	Name        string            `gorm:"type:varchar(200);not null"`
	Type        ledger.ReportType `gorm:"type:varchar(30);not null;index:idx_accounting_reports_type"`
	PeriodStart time.Time         `gorm:"type:timestamptz;not null"`
	PeriodEnd   time.Time         `gorm:"type:timestamptz;not null"`
	Data        string            `gorm:"type:text;not null"`
	GeneratedBy uuid.UUID         `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (AccountingReportModel) TableName() string {
	return "accounting_reports"
}

// ToDomain converts the persistence model to a domain AccountingReport entity.
func (m *AccountingReportModel) ToDomain() *ledger.AccountingReport {
	return &ledger.AccountingReport{
		BaseEntity: shared.BaseEntity{
			ID:        m.ID,
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Type:        m.Type,
		PeriodStart: m.PeriodStart,
		PeriodEnd:   m.PeriodEnd,
		Data:        m.Data,
		GeneratedBy: m.GeneratedBy,
	}
}

// AccountingReportModelFromDomain creates a new persistence model from a domain AccountingReport.
func AccountingReportModelFromDomain(r *ledger.AccountingReport) *AccountingReportModel {
	m := &AccountingReportModel{}
	m.FromDomainBaseEntity(r.BaseEntity)
	m.OwnerID = r.OwnerID
	m.Name = r.Name
	m.Type = r.Type
	m.PeriodStart = r.PeriodStart
	m.PeriodEnd = r.PeriodEnd
	m.Data = r.Data
	m.GeneratedBy = r.GeneratedBy
	return m
}
