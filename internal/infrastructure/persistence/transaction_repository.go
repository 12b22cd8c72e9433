package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/gescom/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

func (r *GormTransactionRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create appends a new transaction
func (r *GormTransactionRepository) Create(ctx context.Context, transaction *ledger.ImprestTransaction) error {
	model := models.ImprestTransactionModelFromDomain(transaction)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// FindByID finds a transaction by ID within an owner scope
func (r *GormTransactionRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ImprestTransaction, error) {
	var model models.ImprestTransactionModel
	if err := r.conn(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists transactions with filtering
func (r *GormTransactionRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.TransactionFilter) ([]*ledger.ImprestTransaction, int64, error) {
	var transactionModels []models.ImprestTransactionModel
	var total int64

	base := func() *gorm.DB {
		query := r.conn(ctx).Model(&models.ImprestTransactionModel{}).
			Where("owner_id = ?", ownerID)
		return r.applyFilter(query, filter)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Most recent first
	query = query.Order("transaction_date DESC")

	if err := query.Find(&transactionModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*ledger.ImprestTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = model.ToDomain()
	}
	return transactions, total, nil
}

// FindByExpenseID finds transactions originated by an expense
func (r *GormTransactionRepository) FindByExpenseID(ctx context.Context, ownerID, expenseID uuid.UUID) ([]*ledger.ImprestTransaction, error) {
	var transactionModels []models.ImprestTransactionModel
	if err := r.conn(ctx).
		Where("owner_id = ? AND expense_id = ?", ownerID, expenseID).
		Order("transaction_date ASC").
		Find(&transactionModels).Error; err != nil {
		return nil, err
	}

	transactions := make([]*ledger.ImprestTransaction, len(transactionModels))
	for i, model := range transactionModels {
		transactions[i] = model.ToDomain()
	}
	return transactions, nil
}

// DeleteByImprestID removes all transactions of a fund
func (r *GormTransactionRepository) DeleteByImprestID(ctx context.Context, ownerID, imprestID uuid.UUID) error {
	return r.conn(ctx).
		Where("owner_id = ? AND imprest_id = ?", ownerID, imprestID).
		Delete(&models.ImprestTransactionModel{}).Error
}

// SumSignedByImprestID sums the signed amounts of a fund's transactions
// created before the cutoff
func (r *GormTransactionRepository) SumSignedByImprestID(ctx context.Context, ownerID, imprestID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}

	if err := r.conn(ctx).
		Model(&models.ImprestTransactionModel{}).
		Select("COALESCE(SUM(CASE WHEN type IN ? THEN amount ELSE -amount END), 0) as total",
			[]string{ledger.TransactionTypeDeposit.String(), ledger.TransactionTypeRefund.String()}).
		Where("owner_id = ? AND imprest_id = ? AND transaction_date < ?", ownerID, imprestID, before).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}

	return result.Total, nil
}

// CountCreatedInMonth counts transactions created in the month containing at
func (r *GormTransactionRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	return countCreatedInMonth(r.conn(ctx), &models.ImprestTransactionModel{}, at)
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter ledger.TransactionFilter) *gorm.DB {
	if filter.ImprestID != nil {
		query = query.Where("imprest_id = ?", *filter.ImprestID)
	}

	if filter.Type != nil {
		query = query.Where("type = ?", strings.ToUpper(string(*filter.Type)))
	}

	if filter.DateFrom != nil {
		query = query.Where("transaction_date >= ?", *filter.DateFrom)
	}

	if filter.DateTo != nil {
		query = query.Where("transaction_date <= ?", *filter.DateTo)
	}

	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ ledger.TransactionRepository = (*GormTransactionRepository)(nil)
