package ledger

import (
	"context"
	"testing"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// capturingPublisher records every event published to it
type capturingPublisher struct {
	events []shared.DomainEvent
}

func (p *capturingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *capturingPublisher) eventTypes() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func TestFundService_CreateFund_PublishesFundCreated(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	fundRepo := new(MockFundRepository)
	journalRepo := new(MockJournalRepository)
	publisher := &capturingPublisher{}
	service := newFundService(fundRepo, new(MockTransactionRepository), journalRepo).WithEvents(publisher)

	fundRepo.On("CountCreatedInMonth", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	fundRepo.On("Create", ctx, mock.AnythingOfType("*ledger.ImprestFund")).Return(nil)
	journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.JournalEntry")).Return(nil)

	result, err := service.CreateFund(ctx, ownerID, CreateFundRequest{
		AccountHolder: "Jordan Okafor",
		InitialAmount: 50000,
		Purpose:       "Site operations",
	})

	require.NoError(t, err)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, ledger.EventTypeFundCreated, publisher.events[0].EventType())
	assert.Equal(t, ownerID, publisher.events[0].OwnerID())
	assert.Equal(t, result.ID, publisher.events[0].AggregateID())
}

func TestFundService_CreateFund_NoPublisherIsSafe(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	fundRepo := new(MockFundRepository)
	journalRepo := new(MockJournalRepository)
	service := newFundService(fundRepo, new(MockTransactionRepository), journalRepo)

	fundRepo.On("CountCreatedInMonth", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	fundRepo.On("Create", ctx, mock.AnythingOfType("*ledger.ImprestFund")).Return(nil)
	journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.JournalEntry")).Return(nil)

	_, err := service.CreateFund(ctx, ownerID, CreateFundRequest{
		AccountHolder: "Jordan Okafor",
		InitialAmount: 50000,
	})

	require.NoError(t, err)
}

func TestExpenseService_Approve_PublishesApprovalAndBalanceChange(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	approverID := uuid.New()

	fundID := uuid.New()
	fund := createTestFund(ownerID, decimal.NewFromInt(10000))
	fund.ID = fundID
	fund.ClearDomainEvents()
	expense := createTestExpense(ownerID, decimal.NewFromInt(2500), &fundID)
	expense.ClearDomainEvents()

	expenseRepo := new(MockExpenseRepository)
	fundRepo := new(MockFundRepository)
	txRepo := new(MockTransactionRepository)
	journalRepo := new(MockJournalRepository)
	publisher := &capturingPublisher{}

	service := newExpenseService(expenseRepo, new(MockCategoryRepository), fundRepo, txRepo, journalRepo).
		WithEvents(publisher)

	expenseRepo.On("FindByID", ctx, ownerID, expense.ID).Return(expense, nil)
	fundRepo.On("FindByIDForUpdate", ctx, ownerID, fundID).Return(fund, nil)
	txRepo.On("CountCreatedInMonth", ctx, mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	txRepo.On("Create", ctx, mock.AnythingOfType("*ledger.ImprestTransaction")).Return(nil)
	fundRepo.On("Save", ctx, fund).Return(nil)
	expenseRepo.On("Save", ctx, expense).Return(nil)
	journalRepo.On("Create", ctx, mock.AnythingOfType("*ledger.JournalEntry")).Return(nil)

	_, err := service.ApproveExpense(ctx, ownerID, expense.ID, approverID)
	require.NoError(t, err)

	types := publisher.eventTypes()
	assert.Contains(t, types, ledger.EventTypeExpenseApproved)
	assert.Contains(t, types, ledger.EventTypeFundBalanceChanged)

	// Events are drained after publish so a later save cannot re-emit them
	assert.Empty(t, expense.GetDomainEvents())
	assert.Empty(t, fund.GetDomainEvents())
}
