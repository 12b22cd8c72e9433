package ledger

import (
	"context"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockFundRepository is a mock implementation of FundRepository
type MockFundRepository struct {
	mock.Mock
}

func (m *MockFundRepository) Create(ctx context.Context, fund *ledger.ImprestFund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ImprestFund, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ImprestFund), args.Error(1)
}

func (m *MockFundRepository) FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ImprestFund, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ImprestFund), args.Error(1)
}

func (m *MockFundRepository) FindByReference(ctx context.Context, ownerID uuid.UUID, reference string) (*ledger.ImprestFund, error) {
	args := m.Called(ctx, ownerID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ImprestFund), args.Error(1)
}

func (m *MockFundRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.FundFilter) ([]*ledger.ImprestFund, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.ImprestFund), args.Get(1).(int64), args.Error(2)
}

func (m *MockFundRepository) Save(ctx context.Context, fund *ledger.ImprestFund) error {
	args := m.Called(ctx, fund)
	return args.Error(0)
}

func (m *MockFundRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockFundRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockTransactionRepository is a mock implementation of TransactionRepository
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *ledger.ImprestTransaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ImprestTransaction, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ImprestTransaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.TransactionFilter) ([]*ledger.ImprestTransaction, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.ImprestTransaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindByExpenseID(ctx context.Context, ownerID, expenseID uuid.UUID) ([]*ledger.ImprestTransaction, error) {
	args := m.Called(ctx, ownerID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.ImprestTransaction), args.Error(1)
}

func (m *MockTransactionRepository) DeleteByImprestID(ctx context.Context, ownerID, imprestID uuid.UUID) error {
	args := m.Called(ctx, ownerID, imprestID)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumSignedByImprestID(ctx context.Context, ownerID, imprestID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, imprestID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransactionRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockExpenseRepository is a mock implementation of ExpenseRepository
type MockExpenseRepository struct {
	mock.Mock
}

func (m *MockExpenseRepository) Create(ctx context.Context, expense *ledger.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Expense, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Expense), args.Error(1)
}

func (m *MockExpenseRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.ExpenseFilter) ([]*ledger.Expense, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepository) Save(ctx context.Context, expense *ledger.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*ledger.Expense, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Expense), args.Error(1)
}

func (m *MockExpenseRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *ledger.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ExpenseCategory, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*ledger.ExpenseCategory, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*ledger.ExpenseCategory, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.ExpenseCategory), args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *ledger.ExpenseCategory) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// MockCashBookRepository is a mock implementation of CashBookRepository
type MockCashBookRepository struct {
	mock.Mock
}

func (m *MockCashBookRepository) Create(ctx context.Context, entry *ledger.CashBookEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCashBookRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.CashBookEntry, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.CashBookEntry), args.Error(1)
}

func (m *MockCashBookRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.CashBookFilter) ([]*ledger.CashBookEntry, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.CashBookEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockCashBookRepository) Save(ctx context.Context, entry *ledger.CashBookEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCashBookRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockCashBookRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// MockJournalRepository is a mock implementation of JournalRepository
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.JournalFilter) ([]*ledger.JournalEntry, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.JournalEntry), args.Get(1).(int64), args.Error(2)
}

// =============================================================================
// Test Transaction Manager
// =============================================================================

// passthroughTxManager runs the unit of work directly without a real
// database transaction
type passthroughTxManager struct{}

func (passthroughTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
