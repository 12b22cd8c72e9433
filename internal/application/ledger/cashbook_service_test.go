package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCashBookService(cashBookRepo *MockCashBookRepository, journalRepo *MockJournalRepository) *CashBookService {
	return NewCashBookService(cashBookRepo, journalRepo, passthroughTxManager{})
}

func createTestCashBookEntry(ownerID uuid.UUID) *ledger.CashBookEntry {
	entry, _ := ledger.NewCashBookEntry(
		ownerID,
		"CSH-202608-00001",
		time.Now(),
		"Office rent",
		ledger.CashBookEntryTypeExpense,
		decimal.NewFromInt(2500),
		"Main till",
		ledger.PaymentMethodBankTransfer,
	)
	return entry
}

func TestCashBookService_CreateEntry_JournalsMovement(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	cashBookRepo := new(MockCashBookRepository)
	journalRepo := new(MockJournalRepository)
	service := newCashBookService(cashBookRepo, journalRepo)

	cashBookRepo.On("CountCreatedInMonth", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	cashBookRepo.On("Create", ctx, mock.AnythingOfType("*ledger.CashBookEntry")).Return(nil)
	journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.JournalEntry")).Return(nil)

	result, err := service.CreateEntry(ctx, ownerID, CashBookEntryRequest{
		EntryDate:     time.Now(),
		Description:   "Consulting income",
		Type:          "INCOME",
		Amount:        4200,
		Account:       "Main till",
		Counterparty:  "Acme Ltd",
		PaymentMethod: "BANK_TRANSFER",
	})

	require.NoError(t, err)
	assert.Equal(t, "CSH-"+time.Now().Format("200601")+"-00001", result.Reference)
	assert.False(t, result.IsReconciled)

	journaled := journalRepo.Calls[0].Arguments.Get(1).(*ledger.JournalEntry)
	assert.Equal(t, ledger.SourceModuleCashBook, journaled.SourceModule)
	assert.Equal(t, result.Reference, journaled.Reference)
	assert.Equal(t, "Main till", journaled.DebitAccount)

	cashBookRepo.AssertExpectations(t)
	journalRepo.AssertExpectations(t)
}

func TestCashBookService_UpdateEntry_ReconciledIsFrozen(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	entry := createTestCashBookEntry(ownerID)
	require.NoError(t, entry.Reconcile())

	cashBookRepo := new(MockCashBookRepository)
	service := newCashBookService(cashBookRepo, new(MockJournalRepository))

	cashBookRepo.On("FindByID", ctx, ownerID, entry.ID).Return(entry, nil)

	result, err := service.UpdateEntry(ctx, ownerID, entry.ID, CashBookEntryRequest{
		EntryDate:     time.Now(),
		Description:   "Adjusted rent",
		Type:          "EXPENSE",
		Amount:        2600,
		Account:       "Main till",
		PaymentMethod: "CASH",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot modify a reconciled entry")
	assert.Nil(t, result)
	cashBookRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCashBookService_ReconcileEntry(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("marks entry reconciled once", func(t *testing.T) {
		entry := createTestCashBookEntry(ownerID)

		cashBookRepo := new(MockCashBookRepository)
		service := newCashBookService(cashBookRepo, new(MockJournalRepository))

		cashBookRepo.On("FindByID", ctx, ownerID, entry.ID).Return(entry, nil)
		cashBookRepo.On("Save", ctx, entry).Return(nil)

		result, err := service.ReconcileEntry(ctx, ownerID, entry.ID)

		require.NoError(t, err)
		assert.True(t, result.IsReconciled)
		assert.NotNil(t, result.ReconciledAt)
	})

	t.Run("second reconcile fails", func(t *testing.T) {
		entry := createTestCashBookEntry(ownerID)
		require.NoError(t, entry.Reconcile())

		cashBookRepo := new(MockCashBookRepository)
		service := newCashBookService(cashBookRepo, new(MockJournalRepository))

		cashBookRepo.On("FindByID", ctx, ownerID, entry.ID).Return(entry, nil)

		result, err := service.ReconcileEntry(ctx, ownerID, entry.ID)

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestCashBookService_DeleteEntry_ReconciledIsKept(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	entry := createTestCashBookEntry(ownerID)
	require.NoError(t, entry.Reconcile())

	cashBookRepo := new(MockCashBookRepository)
	service := newCashBookService(cashBookRepo, new(MockJournalRepository))

	cashBookRepo.On("FindByID", ctx, ownerID, entry.ID).Return(entry, nil)

	err := service.DeleteEntry(ctx, ownerID, entry.ID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Cannot delete a reconciled entry")
	cashBookRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCashBookService_ListJournal_InvalidDate(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	service := newCashBookService(new(MockCashBookRepository), new(MockJournalRepository))

	_, _, err := service.ListJournal(ctx, ownerID, JournalListFilter{
		DateFrom: "31-08-2026",
		Page:     1,
		PageSize: 20,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	existing, _ := ledger.NewExpenseCategory(ownerID, "Transport", "", false)

	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo)

	categoryRepo.On("FindByName", ctx, ownerID, "Transport").Return(existing, nil)

	result, err := service.CreateCategory(ctx, ownerID, CategoryRequest{Name: "Transport"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Nil(t, result)
	categoryRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_CreateCategory_Success(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo)

	categoryRepo.On("FindByName", ctx, ownerID, "Utilities").Return(nil, shared.ErrNotFound)
	categoryRepo.On("Create", ctx, mock.AnythingOfType("*ledger.ExpenseCategory")).Return(nil)

	result, err := service.CreateCategory(ctx, ownerID, CategoryRequest{
		Name:        "Utilities",
		Description: "Power and water",
		IsMajor:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, "Utilities", result.Name)
	assert.True(t, result.IsMajor)
	categoryRepo.AssertExpectations(t)
}
