package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// Mocks
// =============================================================================

// MockLedgerReportRepository is a mock implementation of LedgerReportRepository
type MockLedgerReportRepository struct {
	mock.Mock
}

func (m *MockLedgerReportRepository) GetFundSummary(ownerID uuid.UUID) (*report.FundSummary, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.FundSummary), args.Error(1)
}

func (m *MockLedgerReportRepository) GetExpenseSummary(ownerID uuid.UUID) (*report.ExpenseSummary, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.ExpenseSummary), args.Error(1)
}

func (m *MockLedgerReportRepository) GetMonthlyExpensesByCategory(ownerID uuid.UUID, month time.Time) ([]report.MonthlyCategoryExpense, error) {
	args := m.Called(ownerID, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]report.MonthlyCategoryExpense), args.Error(1)
}

func (m *MockLedgerReportRepository) GetTrialBalance(filter report.LedgerReportFilter) (*report.TrialBalance, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*report.TrialBalance), args.Error(1)
}

// MockExpenseRepositoryForStats mocks the single expense repository method
// the stats service uses
type MockExpenseRepositoryForStats struct {
	mock.Mock
}

func (m *MockExpenseRepositoryForStats) Create(ctx context.Context, expense *ledger.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepositoryForStats) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Expense, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Expense), args.Error(1)
}

func (m *MockExpenseRepositoryForStats) List(ctx context.Context, ownerID uuid.UUID, filter ledger.ExpenseFilter) ([]*ledger.Expense, int64, error) {
	args := m.Called(ctx, ownerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Expense), args.Get(1).(int64), args.Error(2)
}

func (m *MockExpenseRepositoryForStats) Save(ctx context.Context, expense *ledger.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepositoryForStats) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockExpenseRepositoryForStats) FindRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*ledger.Expense, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Expense), args.Error(1)
}

func (m *MockExpenseRepositoryForStats) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	args := m.Called(ctx, at)
	return args.Get(0).(int64), args.Error(1)
}

// fakeStatsCache is a map-backed StatsCache for tests
type fakeStatsCache struct {
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: make(map[string][]byte)}
}

func (c *fakeStatsCache) Get(ctx context.Context, key string) ([]byte, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.entries[key], nil
}

func (c *fakeStatsCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func (c *fakeStatsCache) Delete(ctx context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

// =============================================================================
// Test Helpers
// =============================================================================

func testFundSummary(ownerID uuid.UUID) *report.FundSummary {
	return &report.FundSummary{
		OwnerID:      ownerID,
		TotalBalance: decimal.NewFromInt(170000),
		TotalInitial: decimal.NewFromInt(200000),
		ActiveFunds:  2,
		TotalFunds:   3,
	}
}

func testExpenseSummary(ownerID uuid.UUID) *report.ExpenseSummary {
	return &report.ExpenseSummary{
		OwnerID:       ownerID,
		TotalAmount:   decimal.NewFromInt(30000),
		PendingCount:  1,
		ApprovedCount: 1,
		PaidCount:     2,
		RejectedCount: 0,
	}
}

func newStatsService(reportRepo *MockLedgerReportRepository, expenseRepo *MockExpenseRepositoryForStats, cache *fakeStatsCache) *AccountingStatsService {
	return NewAccountingStatsService(reportRepo, expenseRepo, cache, zap.NewNop())
}

// =============================================================================
// GetAccountingStats
// =============================================================================

func TestAccountingStatsService_GetAccountingStats_ComputesAndCaches(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	reportRepo := new(MockLedgerReportRepository)
	expenseRepo := new(MockExpenseRepositoryForStats)
	cache := newFakeStatsCache()
	service := newStatsService(reportRepo, expenseRepo, cache)

	reportRepo.On("GetFundSummary", ownerID).Return(testFundSummary(ownerID), nil)
	reportRepo.On("GetExpenseSummary", ownerID).Return(testExpenseSummary(ownerID), nil)
	reportRepo.On("GetMonthlyExpensesByCategory", ownerID, mock.AnythingOfType("time.Time")).
		Return([]report.MonthlyCategoryExpense{}, nil)
	expenseRepo.On("FindRecent", ctx, ownerID, recentExpenseCount).Return([]*ledger.Expense{}, nil)

	result, err := service.GetAccountingStats(ctx, ownerID)

	require.NoError(t, err)
	assert.True(t, result.Funds.TotalBalance.Equal(decimal.NewFromInt(170000)))
	assert.Equal(t, int64(1), result.Expenses.PendingCount)
	assert.NotEmpty(t, cache.entries)

	// Second call is served from the cache
	result2, err := service.GetAccountingStats(ctx, ownerID)
	require.NoError(t, err)
	assert.True(t, result2.Funds.TotalBalance.Equal(result.Funds.TotalBalance))
	reportRepo.AssertNumberOfCalls(t, "GetFundSummary", 1)
}

func TestAccountingStatsService_GetAccountingStats_CacheFailureDegrades(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	reportRepo := new(MockLedgerReportRepository)
	expenseRepo := new(MockExpenseRepositoryForStats)
	cache := newFakeStatsCache()
	cache.getErr = errors.New("redis: connection refused")
	cache.setErr = errors.New("redis: connection refused")
	service := newStatsService(reportRepo, expenseRepo, cache)

	reportRepo.On("GetFundSummary", ownerID).Return(testFundSummary(ownerID), nil)
	reportRepo.On("GetExpenseSummary", ownerID).Return(testExpenseSummary(ownerID), nil)
	reportRepo.On("GetMonthlyExpensesByCategory", ownerID, mock.AnythingOfType("time.Time")).
		Return([]report.MonthlyCategoryExpense{}, nil)
	expenseRepo.On("FindRecent", ctx, ownerID, recentExpenseCount).Return([]*ledger.Expense{}, nil)

	result, err := service.GetAccountingStats(ctx, ownerID)

	require.NoError(t, err)
	assert.True(t, result.Funds.TotalBalance.Equal(decimal.NewFromInt(170000)))
}

func TestAccountingStatsService_GetTrialBalance_InvalidPeriod(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	service := newStatsService(new(MockLedgerReportRepository), new(MockExpenseRepositoryForStats), newFakeStatsCache())

	_, err := service.GetTrialBalance(ctx, ownerID, TrialBalanceFilter{
		StartDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "End date cannot precede start date")
}

// =============================================================================
// Report snapshots
// =============================================================================

// MockReportSnapshotRepository is a mock implementation of ReportSnapshotRepository
type MockReportSnapshotRepository struct {
	mock.Mock
}

func (m *MockReportSnapshotRepository) Create(ctx context.Context, snapshot *ledger.AccountingReport) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockReportSnapshotRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.AccountingReport, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.AccountingReport), args.Error(1)
}

func (m *MockReportSnapshotRepository) List(ctx context.Context, ownerID uuid.UUID, reportType *ledger.ReportType, page, pageSize int) ([]*ledger.AccountingReport, int64, error) {
	args := m.Called(ctx, ownerID, reportType, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.AccountingReport), args.Get(1).(int64), args.Error(2)
}

func (m *MockReportSnapshotRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func TestReportSnapshotService_GenerateReport_ExpenseSummary(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	generatedBy := uuid.New()

	snapshotRepo := new(MockReportSnapshotRepository)
	reportRepo := new(MockLedgerReportRepository)
	service := NewReportSnapshotService(snapshotRepo, reportRepo)

	reportRepo.On("GetExpenseSummary", ownerID).Return(testExpenseSummary(ownerID), nil)
	snapshotRepo.On("Create", ctx, mock.AnythingOfType("*ledger.AccountingReport")).Return(nil)

	result, err := service.GenerateReport(ctx, ownerID, generatedBy, GenerateReportRequest{
		Name:        "August expense summary",
		Type:        "EXPENSE_SUMMARY",
		PeriodStart: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	assert.Equal(t, "EXPENSE_SUMMARY", result.Type)
	assert.Equal(t, generatedBy, result.GeneratedBy)
	assert.Contains(t, string(result.Data), "total_amount")

	snapshotRepo.AssertExpectations(t)
}

func TestReportSnapshotService_GenerateReport_InvertedPeriod(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	snapshotRepo := new(MockReportSnapshotRepository)
	reportRepo := new(MockLedgerReportRepository)
	service := NewReportSnapshotService(snapshotRepo, reportRepo)

	reportRepo.On("GetExpenseSummary", ownerID).Return(testExpenseSummary(ownerID), nil)

	result, err := service.GenerateReport(ctx, ownerID, uuid.New(), GenerateReportRequest{
		Name:        "Broken period",
		Type:        "EXPENSE_SUMMARY",
		PeriodStart: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	})

	assert.Error(t, err)
	assert.Nil(t, result)
	snapshotRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestReportSnapshotService_ListReports_InvalidType(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	service := NewReportSnapshotService(new(MockReportSnapshotRepository), new(MockLedgerReportRepository))

	_, _, err := service.ListReports(ctx, ownerID, "WEEKLY", 1, 20)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid report type")
}
