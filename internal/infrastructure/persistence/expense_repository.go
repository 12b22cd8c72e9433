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
	"gorm.io/gorm"
)

// GormExpenseRepository implements ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

func (r *GormExpenseRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create creates a new expense
func (r *GormExpenseRepository) Create(ctx context.Context, expense *ledger.Expense) error {
	model := models.ExpenseModelFromDomain(expense)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// FindByID finds an expense by ID within an owner scope
func (r *GormExpenseRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.Expense, error) {
	var model models.ExpenseModel
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

// List lists expenses with filtering
func (r *GormExpenseRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.ExpenseFilter) ([]*ledger.Expense, int64, error) {
	var expenseModels []models.ExpenseModel
	var total int64

	base := func() *gorm.DB {
		query := r.conn(ctx).Model(&models.ExpenseModel{}).
			Where("owner_id = ?", ownerID)
		return r.applyFilter(query, filter)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	orderBy := ValidateSortField(filter.OrderBy, ExpenseSortFields, "expense_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&expenseModels).Error; err != nil {
		return nil, 0, err
	}

	expenses := make([]*ledger.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = model.ToDomain()
	}
	return expenses, total, nil
}

// Save persists changes to an existing expense with optimistic locking
func (r *GormExpenseRepository) Save(ctx context.Context, expense *ledger.Expense) error {
	expense.IncrementVersion()
	model := models.ExpenseModelFromDomain(expense)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", expense.ID, expense.Version-1).
		Select("*").
		Omit("created_at").
		Updates(model)

	if result.Error != nil {
		expense.Version--
		return result.Error
	}
	if result.RowsAffected == 0 {
		expense.Version--
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an expense within an owner scope
func (r *GormExpenseRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindRecent returns the most recently created expenses
func (r *GormExpenseRepository) FindRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*ledger.Expense, error) {
	var expenseModels []models.ExpenseModel
	if err := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&expenseModels).Error; err != nil {
		return nil, err
	}

	expenses := make([]*ledger.Expense, len(expenseModels))
	for i, model := range expenseModels {
		expenses[i] = model.ToDomain()
	}
	return expenses, nil
}

// CountCreatedInMonth counts expenses created in the month containing at
func (r *GormExpenseRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	return countCreatedInMonth(r.conn(ctx), &models.ExpenseModel{}, at)
}

// applyFilter applies filter options to the query
func (r *GormExpenseRepository) applyFilter(query *gorm.DB, filter ledger.ExpenseFilter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", strings.ToUpper(string(*filter.Status)))
	}

	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}

	if filter.ImprestID != nil {
		query = query.Where("imprest_id = ?", *filter.ImprestID)
	}

	if filter.DateFrom != nil {
		query = query.Where("expense_date >= ?", *filter.DateFrom)
	}

	if filter.DateTo != nil {
		query = query.Where("expense_date <= ?", *filter.DateTo)
	}

	if filter.Search != "" {
		query = query.Where("description LIKE ? OR reference LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	return query
}

// Ensure GormExpenseRepository implements ExpenseRepository
var _ ledger.ExpenseRepository = (*GormExpenseRepository)(nil)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create creates a new category
func (r *GormCategoryRepository) Create(ctx context.Context, category *ledger.ExpenseCategory) error {
	model := models.ExpenseCategoryModelFromDomain(category)
	return r.conn(ctx).Create(model).Error
}

// FindByID finds a category by ID within an owner scope
func (r *GormCategoryRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ExpenseCategory, error) {
	var model models.ExpenseCategoryModel
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

// FindByName finds a category by name within an owner scope
func (r *GormCategoryRepository) FindByName(ctx context.Context, ownerID uuid.UUID, name string) (*ledger.ExpenseCategory, error) {
	var model models.ExpenseCategoryModel
	if err := r.conn(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists all categories of an owner
func (r *GormCategoryRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*ledger.ExpenseCategory, error) {
	var categoryModels []models.ExpenseCategoryModel
	if err := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&categoryModels).Error; err != nil {
		return nil, err
	}

	categories := make([]*ledger.ExpenseCategory, len(categoryModels))
	for i, model := range categoryModels {
		categories[i] = model.ToDomain()
	}
	return categories, nil
}

// Save persists changes to an existing category
func (r *GormCategoryRepository) Save(ctx context.Context, category *ledger.ExpenseCategory) error {
	category.IncrementVersion()
	model := models.ExpenseCategoryModelFromDomain(category)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", category.ID, category.Version-1).
		Select("*").
		Omit("created_at").
		Updates(model)

	if result.Error != nil {
		category.Version--
		return result.Error
	}
	if result.RowsAffected == 0 {
		category.Version--
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a category within an owner scope
func (r *GormCategoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.ExpenseCategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormCategoryRepository implements CategoryRepository
var _ ledger.CategoryRepository = (*GormCategoryRepository)(nil)
