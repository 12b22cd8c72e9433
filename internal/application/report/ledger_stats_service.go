package report

import (
	"context"
	"encoding/json"
	"time"

	appledger "github.com/gescom/backend/internal/application/ledger"
	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/report"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// recentExpenseCount is how many recent expenses the dashboard shows
const recentExpenseCount = 5

// statsCacheTTL bounds how stale the cached dashboard figures can get
const statsCacheTTL = 5 * time.Minute

// AccountingStatsResponse aggregates the dashboard figures in one payload
type AccountingStatsResponse struct {
	Funds             report.FundSummary              `json:"funds"`
	Expenses          report.ExpenseSummary           `json:"expenses"`
	MonthlyByCategory []report.MonthlyCategoryExpense `json:"monthly_by_category"`
	RecentExpenses    []appledger.ExpenseResponse     `json:"recent_expenses"`
	ComputedAt        time.Time                       `json:"computed_at"`
}

// TrialBalanceFilter defines the request filter for the trial balance
type TrialBalanceFilter struct {
	StartDate time.Time `form:"start_date" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `form:"end_date" binding:"required" time_format:"2006-01-02"`
}

// AccountingStatsService computes dashboard statistics and the trial
// balance from the ledger read models
type AccountingStatsService struct {
	ledgerReportRepo report.LedgerReportRepository
	expenseRepo      ledger.ExpenseRepository
	cache            shared.StatsCache
	logger           *zap.Logger
}

// NewAccountingStatsService creates a new AccountingStatsService
func NewAccountingStatsService(
	ledgerReportRepo report.LedgerReportRepository,
	expenseRepo ledger.ExpenseRepository,
	cache shared.StatsCache,
	logger *zap.Logger,
) *AccountingStatsService {
	return &AccountingStatsService{
		ledgerReportRepo: ledgerReportRepo,
		expenseRepo:      expenseRepo,
		cache:            cache,
		logger:           logger,
	}
}

func statsCacheKey(ownerID uuid.UUID) string {
	return "stats:accounting:" + ownerID.String()
}

// GetAccountingStats returns the dashboard statistics for an owner.
// Results are cached briefly; cache failures degrade to a direct read.
func (s *AccountingStatsService) GetAccountingStats(ctx context.Context, ownerID uuid.UUID) (*AccountingStatsResponse, error) {
	key := statsCacheKey(ownerID)

	if cached, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("stats cache read failed, falling back to database",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err))
	} else if cached != nil {
		var response AccountingStatsResponse
		if err := json.Unmarshal(cached, &response); err == nil {
			return &response, nil
		}
		s.logger.Warn("discarding undecodable stats cache entry",
			zap.String("owner_id", ownerID.String()))
	}

	response, err := s.computeStats(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(response); err == nil {
		if err := s.cache.Set(ctx, key, payload, statsCacheTTL); err != nil {
			s.logger.Warn("stats cache write failed",
				zap.String("owner_id", ownerID.String()),
				zap.Error(err))
		}
	}

	return response, nil
}

// InvalidateStats drops the cached dashboard figures for an owner
func (s *AccountingStatsService) InvalidateStats(ctx context.Context, ownerID uuid.UUID) error {
	return s.cache.Delete(ctx, statsCacheKey(ownerID))
}

func (s *AccountingStatsService) computeStats(ctx context.Context, ownerID uuid.UUID) (*AccountingStatsResponse, error) {
	fundSummary, err := s.ledgerReportRepo.GetFundSummary(ownerID)
	if err != nil {
		return nil, err
	}

	expenseSummary, err := s.ledgerReportRepo.GetExpenseSummary(ownerID)
	if err != nil {
		return nil, err
	}

	monthly, err := s.ledgerReportRepo.GetMonthlyExpensesByCategory(ownerID, time.Now())
	if err != nil {
		return nil, err
	}

	recent, err := s.expenseRepo.FindRecent(ctx, ownerID, recentExpenseCount)
	if err != nil {
		return nil, err
	}

	return &AccountingStatsResponse{
		Funds:             *fundSummary,
		Expenses:          *expenseSummary,
		MonthlyByCategory: monthly,
		RecentExpenses:    appledger.ToExpenseResponses(recent),
		ComputedAt:        time.Now(),
	}, nil
}

// GetTrialBalance returns per-fund debit/credit totals over the period
func (s *AccountingStatsService) GetTrialBalance(ctx context.Context, ownerID uuid.UUID, filter TrialBalanceFilter) (*report.TrialBalance, error) {
	if filter.EndDate.Before(filter.StartDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "End date cannot precede start date")
	}

	return s.ledgerReportRepo.GetTrialBalance(report.LedgerReportFilter{
		OwnerID:   ownerID,
		StartDate: filter.StartDate,
		EndDate:   filter.EndDate,
	})
}
