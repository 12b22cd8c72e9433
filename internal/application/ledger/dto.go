package ledger

import (
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Fund DTOs
// =============================================================================

// CreateFundRequest represents a request to create an imprest fund
type CreateFundRequest struct {
	AccountHolder string  `json:"account_holder" binding:"required,max=200"`
	InitialAmount float64 `json:"initial_amount" binding:"required,gt=0"`
	Purpose       string  `json:"purpose" binding:"max=500"`
}

// UpdateFundRequest represents a request to update fund details.
// The balance is never updated through this request.
type UpdateFundRequest struct {
	AccountHolder string `json:"account_holder" binding:"required,max=200"`
	Purpose       string `json:"purpose" binding:"max=500"`
	Status        string `json:"status" binding:"required,oneof=ACTIVE SUSPENDED CLOSED"`
}

// FundListFilter represents filter options for fund list
type FundListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVE SUSPENDED CLOSED"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// FundResponse represents an imprest fund in API responses
type FundResponse struct {
	ID             uuid.UUID       `json:"id"`
	Reference      string          `json:"reference"`
	AccountHolder  string          `json:"account_holder"`
	InitialAmount  decimal.Decimal `json:"initial_amount"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Purpose        string          `json:"purpose"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToFundResponse converts a domain ImprestFund to FundResponse
func ToFundResponse(f *ledger.ImprestFund) FundResponse {
	return FundResponse{
		ID:             f.ID,
		Reference:      f.Reference,
		AccountHolder:  f.AccountHolder,
		InitialAmount:  f.InitialAmount,
		CurrentBalance: f.CurrentBalance,
		Purpose:        f.Purpose,
		Status:         string(f.Status),
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// ToFundResponses converts a slice of domain ImprestFunds to FundResponses
func ToFundResponses(funds []*ledger.ImprestFund) []FundResponse {
	responses := make([]FundResponse, len(funds))
	for i, f := range funds {
		responses[i] = ToFundResponse(f)
	}
	return responses
}

// =============================================================================
// Transaction DTOs
// =============================================================================

// RecordTransactionRequest represents a request to record an imprest transaction
type RecordTransactionRequest struct {
	ImprestID   uuid.UUID `json:"imprest_id" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL EXPENSE REFUND"`
	Amount      float64   `json:"amount" binding:"required,gt=0"`
	Description string    `json:"description" binding:"max=500"`
	ReceiptURL  string    `json:"receipt_url" binding:"omitempty,max=500"`
}

// TransactionListFilter represents filter options for transaction list
type TransactionListFilter struct {
	ImprestID *uuid.UUID `form:"imprest_id"`
	Type      string     `form:"type" binding:"omitempty,oneof=DEPOSIT WITHDRAWAL EXPENSE REFUND"`
	DateFrom  string     `form:"date_from"`
	DateTo    string     `form:"date_to"`
	Page      int        `form:"page" binding:"min=1"`
	PageSize  int        `form:"page_size" binding:"min=1,max=100"`
}

// TransactionResponse represents an imprest transaction in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ImprestID       uuid.UUID       `json:"imprest_id"`
	Reference       string          `json:"reference"`
	Type            string          `json:"type"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	ExpenseID       *uuid.UUID      `json:"expense_id,omitempty"`
	ReceiptURL      string          `json:"receipt_url,omitempty"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ToTransactionResponse converts a domain ImprestTransaction to TransactionResponse
func ToTransactionResponse(t *ledger.ImprestTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ImprestID:       t.ImprestID,
		Reference:       t.Reference,
		Type:            string(t.Type),
		Amount:          t.Amount,
		Description:     t.Description,
		BalanceAfter:    t.BalanceAfter,
		ExpenseID:       t.ExpenseID,
		ReceiptURL:      t.ReceiptURL,
		TransactionDate: t.TransactionDate,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain ImprestTransactions to TransactionResponses
func ToTransactionResponses(transactions []*ledger.ImprestTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(transactions))
	for i, t := range transactions {
		responses[i] = ToTransactionResponse(t)
	}
	return responses
}

// FundBalanceCheckResponse reports whether a fund's stored balance matches
// the balance reconstructed from its transaction log
type FundBalanceCheckResponse struct {
	ImprestID       uuid.UUID       `json:"imprest_id"`
	Reference       string          `json:"reference"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ComputedBalance decimal.Decimal `json:"computed_balance"`
	Consistent      bool            `json:"consistent"`
}

// =============================================================================
// Expense DTOs
// =============================================================================

// SubmitExpenseRequest represents a request to submit an expense for approval
type SubmitExpenseRequest struct {
	Description   string     `json:"description" binding:"required,max=500"`
	Amount        float64    `json:"amount" binding:"required,gt=0"`
	CategoryID    uuid.UUID  `json:"category_id" binding:"required"`
	ExpenseDate   time.Time  `json:"expense_date" binding:"required"`
	PaymentMethod string     `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER CHECK CARD MOBILE_MONEY"`
	ImprestID     *uuid.UUID `json:"imprest_id"`
	ReceiptURL    string     `json:"receipt_url" binding:"omitempty,max=500"`
}

// ExpenseListFilter represents filter options for expense list
type ExpenseListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED PAID REJECTED"`
	CategoryID *uuid.UUID `form:"category_id"`
	ImprestID  *uuid.UUID `form:"imprest_id"`
	DateFrom   string     `form:"date_from"`
	DateTo     string     `form:"date_to"`
	Search     string     `form:"search"`
	Page       int        `form:"page" binding:"min=1"`
	PageSize   int        `form:"page_size" binding:"min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	CategoryID    uuid.UUID       `json:"category_id"`
	ExpenseDate   time.Time       `json:"expense_date"`
	PaymentMethod string          `json:"payment_method"`
	Status        string          `json:"status"`
	ImprestID     *uuid.UUID      `json:"imprest_id,omitempty"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
	ApprovedBy    *uuid.UUID      `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	RejectedAt    *time.Time      `json:"rejected_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *ledger.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		Reference:     e.Reference,
		Description:   e.Description,
		Amount:        e.Amount,
		CategoryID:    e.CategoryID,
		ExpenseDate:   e.ExpenseDate,
		PaymentMethod: string(e.PaymentMethod),
		Status:        string(e.Status),
		ImprestID:     e.ImprestID,
		ReceiptURL:    e.ReceiptURL,
		ApprovedBy:    e.ApprovedBy,
		ApprovedAt:    e.ApprovedAt,
		RejectedAt:    e.RejectedAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ToExpenseResponses converts a slice of domain Expenses to ExpenseResponses
func ToExpenseResponses(expenses []*ledger.Expense) []ExpenseResponse {
	responses := make([]ExpenseResponse, len(expenses))
	for i, e := range expenses {
		responses[i] = ToExpenseResponse(e)
	}
	return responses
}

// =============================================================================
// Category DTOs
// =============================================================================

// CategoryRequest represents a request to create or update an expense category
type CategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=500"`
	IsMajor     bool   `json:"is_major"`
}

// CategoryResponse represents an expense category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsMajor     bool      `json:"is_major"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToCategoryResponse converts a domain ExpenseCategory to CategoryResponse
func ToCategoryResponse(c *ledger.ExpenseCategory) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		IsMajor:     c.IsMajor,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ToCategoryResponses converts a slice of domain ExpenseCategories to CategoryResponses
func ToCategoryResponses(categories []*ledger.ExpenseCategory) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(c)
	}
	return responses
}

// =============================================================================
// Cash Book DTOs
// =============================================================================

// CashBookEntryRequest represents a request to create or update a cash book entry
type CashBookEntryRequest struct {
	EntryDate     time.Time `json:"entry_date" binding:"required"`
	Description   string    `json:"description" binding:"required,max=500"`
	Type          string    `json:"type" binding:"required,oneof=INCOME EXPENSE TRANSFER"`
	Amount        float64   `json:"amount" binding:"required,gt=0"`
	Account       string    `json:"account" binding:"required,max=100"`
	Counterparty  string    `json:"counterparty" binding:"max=200"`
	Category      string    `json:"category" binding:"max=100"`
	PaymentMethod string    `json:"payment_method" binding:"required,oneof=CASH BANK_TRANSFER CHECK CARD MOBILE_MONEY"`
}

// CashBookListFilter represents filter options for cash book list
type CashBookListFilter struct {
	Type         string `form:"type" binding:"omitempty,oneof=INCOME EXPENSE TRANSFER"`
	Account      string `form:"account"`
	IsReconciled *bool  `form:"is_reconciled"`
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	Search       string `form:"search"`
	Page         int    `form:"page" binding:"min=1"`
	PageSize     int    `form:"page_size" binding:"min=1,max=100"`
}

// CashBookEntryResponse represents a cash book entry in API responses
type CashBookEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Reference     string          `json:"reference"`
	EntryDate     time.Time       `json:"entry_date"`
	Description   string          `json:"description"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Account       string          `json:"account"`
	Counterparty  string          `json:"counterparty,omitempty"`
	Category      string          `json:"category,omitempty"`
	PaymentMethod string          `json:"payment_method"`
	IsReconciled  bool            `json:"is_reconciled"`
	ReconciledAt  *time.Time      `json:"reconciled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToCashBookEntryResponse converts a domain CashBookEntry to CashBookEntryResponse
func ToCashBookEntryResponse(e *ledger.CashBookEntry) CashBookEntryResponse {
	return CashBookEntryResponse{
		ID:            e.ID,
		Reference:     e.Reference,
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		Type:          string(e.Type),
		Amount:        e.Amount,
		Account:       e.Account,
		Counterparty:  e.Counterparty,
		Category:      e.Category,
		PaymentMethod: string(e.PaymentMethod),
		IsReconciled:  e.IsReconciled,
		ReconciledAt:  e.ReconciledAt,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// ToCashBookEntryResponses converts a slice of domain CashBookEntries to responses
func ToCashBookEntryResponses(entries []*ledger.CashBookEntry) []CashBookEntryResponse {
	responses := make([]CashBookEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToCashBookEntryResponse(e)
	}
	return responses
}

// =============================================================================
// Journal DTOs
// =============================================================================

// JournalListFilter represents filter options for the transaction journal
type JournalListFilter struct {
	SourceModule string `form:"source_module" binding:"omitempty,oneof=CASH_BOOK EXPENSES IMPREST"`
	DateFrom     string `form:"date_from"`
	DateTo       string `form:"date_to"`
	Page         int    `form:"page" binding:"min=1"`
	PageSize     int    `form:"page_size" binding:"min=1,max=100"`
}

// JournalEntryResponse represents a journal entry in API responses
type JournalEntryResponse struct {
	ID              uuid.UUID       `json:"id"`
	EntryDate       time.Time       `json:"entry_date"`
	TransactionDate time.Time       `json:"transaction_date"`
	Reference       string          `json:"reference"`
	Description     string          `json:"description"`
	SourceModule    string          `json:"source_module"`
	SourceID        uuid.UUID       `json:"source_id"`
	DebitAccount    string          `json:"debit_account"`
	CreditAccount   string          `json:"credit_account"`
	Amount          decimal.Decimal `json:"amount"`
}

// ToJournalEntryResponse converts a domain JournalEntry to JournalEntryResponse
func ToJournalEntryResponse(e *ledger.JournalEntry) JournalEntryResponse {
	return JournalEntryResponse{
		ID:              e.ID,
		EntryDate:       e.EntryDate,
		TransactionDate: e.TransactionDate,
		Reference:       e.Reference,
		Description:     e.Description,
		SourceModule:    string(e.SourceModule),
		SourceID:        e.SourceID,
		DebitAccount:    e.DebitAccount,
		CreditAccount:   e.CreditAccount,
		Amount:          e.Amount,
	}
}

// ToJournalEntryResponses converts a slice of domain JournalEntries to responses
func ToJournalEntryResponses(entries []*ledger.JournalEntry) []JournalEntryResponse {
	responses := make([]JournalEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToJournalEntryResponse(e)
	}
	return responses
}
