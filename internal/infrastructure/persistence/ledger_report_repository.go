package persistence

import (
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerReportRepository implements LedgerReportRepository using GORM
type GormLedgerReportRepository struct {
	db *gorm.DB
}

// NewGormLedgerReportRepository creates a new GormLedgerReportRepository
func NewGormLedgerReportRepository(db *gorm.DB) *GormLedgerReportRepository {
	return &GormLedgerReportRepository{db: db}
}

// GetFundSummary returns aggregate fund figures for an owner
func (r *GormLedgerReportRepository) GetFundSummary(ownerID uuid.UUID) (*report.FundSummary, error) {
	var row struct {
		TotalBalance decimal.Decimal
		TotalInitial decimal.Decimal
		TotalFunds   int64
	}
	if err := r.db.Table("imprest_funds").
		Select("COALESCE(SUM(current_balance), 0) as total_balance, COALESCE(SUM(initial_amount), 0) as total_initial, COUNT(*) as total_funds").
		Where("owner_id = ?", ownerID).
		Scan(&row).Error; err != nil {
		return nil, err
	}

	var activeFunds int64
	if err := r.db.Table("imprest_funds").
		Where("owner_id = ? AND status = ?", ownerID, ledger.FundStatusActive).
		Count(&activeFunds).Error; err != nil {
		return nil, err
	}

	return &report.FundSummary{
		OwnerID:      ownerID,
		TotalBalance: row.TotalBalance,
		TotalInitial: row.TotalInitial,
		ActiveFunds:  activeFunds,
		TotalFunds:   row.TotalFunds,
	}, nil
}

// GetExpenseSummary returns aggregate expense figures for an owner
func (r *GormLedgerReportRepository) GetExpenseSummary(ownerID uuid.UUID) (*report.ExpenseSummary, error) {
	var totalAmount decimal.Decimal
	if err := r.db.Table("expenses").
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ?", ownerID).
		Scan(&totalAmount).Error; err != nil {
		return nil, err
	}

	countByStatus := func(status ledger.ExpenseStatus) (int64, error) {
		var count int64
		err := r.db.Table("expenses").
			Where("owner_id = ? AND status = ?", ownerID, status).
			Count(&count).Error
		return count, err
	}

	pending, err := countByStatus(ledger.ExpenseStatusPending)
	if err != nil {
		return nil, err
	}
	approved, err := countByStatus(ledger.ExpenseStatusApproved)
	if err != nil {
		return nil, err
	}
	paid, err := countByStatus(ledger.ExpenseStatusPaid)
	if err != nil {
		return nil, err
	}
	rejected, err := countByStatus(ledger.ExpenseStatusRejected)
	if err != nil {
		return nil, err
	}

	return &report.ExpenseSummary{
		OwnerID:       ownerID,
		TotalAmount:   totalAmount,
		PendingCount:  pending,
		ApprovedCount: approved,
		PaidCount:     paid,
		RejectedCount: rejected,
	}, nil
}

// GetMonthlyExpensesByCategory returns per-category expense totals for the
// month containing the given date. Allocated carries the largest initial
// allocation among active funds linked to the category's expenses.
func (r *GormLedgerReportRepository) GetMonthlyExpensesByCategory(ownerID uuid.UUID, month time.Time) ([]report.MonthlyCategoryExpense, error) {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var rows []struct {
		CategoryID   uuid.UUID
		CategoryName string
		IsMajor      bool
		Total        decimal.Decimal
		Allocated    decimal.Decimal
	}

	if err := r.db.Table("expenses e").
		Select("c.id as category_id, c.name as category_name, c.is_major, COALESCE(SUM(e.amount), 0) as total, COALESCE(MAX(f.initial_amount), 0) as allocated").
		Joins("JOIN expense_categories c ON c.id = e.category_id").
		Joins("LEFT JOIN imprest_funds f ON f.id = e.imprest_id AND f.status = ?", ledger.FundStatusActive).
		Where("e.owner_id = ?", ownerID).
		Where("e.expense_date >= ? AND e.expense_date < ?", monthStart, monthEnd).
		Group("c.id, c.name, c.is_major").
		Order("total DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]report.MonthlyCategoryExpense, len(rows))
	for i, row := range rows {
		result[i] = report.MonthlyCategoryExpense{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			IsMajor:      row.IsMajor,
			Total:        row.Total,
			Allocated:    row.Allocated,
		}
	}
	return result, nil
}

// GetTrialBalance returns per-fund debit/credit totals over the period.
// Opening balances are reconstructed from the transaction log so the
// statement stays consistent with the conservation invariant.
func (r *GormLedgerReportRepository) GetTrialBalance(filter report.LedgerReportFilter) (*report.TrialBalance, error) {
	var funds []struct {
		ID            uuid.UUID
		Reference     string
		AccountHolder string
		InitialAmount decimal.Decimal
	}
	if err := r.db.Table("imprest_funds").
		Select("id, reference, account_holder, initial_amount").
		Where("owner_id = ?", filter.OwnerID).
		Order("reference ASC").
		Scan(&funds).Error; err != nil {
		return nil, err
	}

	type sumRow struct {
		ImprestID uuid.UUID
		Total     decimal.Decimal
	}

	sumByFund := func(rows []sumRow) map[uuid.UUID]decimal.Decimal {
		m := make(map[uuid.UUID]decimal.Decimal, len(rows))
		for _, row := range rows {
			m[row.ImprestID] = row.Total
		}
		return m
	}

	creditTypes := []string{ledger.TransactionTypeDeposit.String(), ledger.TransactionTypeRefund.String()}

	// Signed movement before the period start, per fund
	var openingRows []sumRow
	if err := r.db.Table("imprest_transactions").
		Select("imprest_id, COALESCE(SUM(CASE WHEN type IN ? THEN amount ELSE -amount END), 0) as total", creditTypes).
		Where("owner_id = ? AND transaction_date < ?", filter.OwnerID, filter.StartDate).
		Group("imprest_id").
		Scan(&openingRows).Error; err != nil {
		return nil, err
	}
	openingMovement := sumByFund(openingRows)

	periodSum := func(types []string) (map[uuid.UUID]decimal.Decimal, error) {
		var rows []sumRow
		if err := r.db.Table("imprest_transactions").
			Select("imprest_id, COALESCE(SUM(amount), 0) as total").
			Where("owner_id = ? AND type IN ?", filter.OwnerID, types).
			Where("transaction_date >= ? AND transaction_date <= ?", filter.StartDate, filter.EndDate).
			Group("imprest_id").
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		return sumByFund(rows), nil
	}

	debits, err := periodSum([]string{ledger.TransactionTypeWithdrawal.String(), ledger.TransactionTypeExpense.String()})
	if err != nil {
		return nil, err
	}
	credits, err := periodSum(creditTypes)
	if err != nil {
		return nil, err
	}

	trialBalance := &report.TrialBalance{
		OwnerID:     filter.OwnerID,
		PeriodStart: filter.StartDate,
		PeriodEnd:   filter.EndDate,
		Lines:       make([]report.TrialBalanceLine, 0, len(funds)),
		DebitTotal:  decimal.Zero,
		CreditTotal: decimal.Zero,
	}

	for _, fund := range funds {
		opening := fund.InitialAmount.Add(openingMovement[fund.ID])
		debit := debits[fund.ID]
		credit := credits[fund.ID]
		closing := opening.Add(credit).Sub(debit)

		trialBalance.Lines = append(trialBalance.Lines, report.TrialBalanceLine{
			ImprestID:      fund.ID,
			FundReference:  fund.Reference,
			AccountHolder:  fund.AccountHolder,
			OpeningBalance: opening,
			DebitTotal:     debit,
			CreditTotal:    credit,
			ClosingBalance: closing,
		})
		trialBalance.DebitTotal = trialBalance.DebitTotal.Add(debit)
		trialBalance.CreditTotal = trialBalance.CreditTotal.Add(credit)
	}

	return trialBalance, nil
}

// Ensure GormLedgerReportRepository implements LedgerReportRepository
var _ report.LedgerReportRepository = (*GormLedgerReportRepository)(nil)
