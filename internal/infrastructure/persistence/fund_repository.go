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
	"gorm.io/gorm/clause"
)

// GormFundRepository implements FundRepository using GORM
type GormFundRepository struct {
	db *gorm.DB
}

// NewGormFundRepository creates a new GormFundRepository
func NewGormFundRepository(db *gorm.DB) *GormFundRepository {
	return &GormFundRepository{db: db}
}

func (r *GormFundRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create creates a new fund
func (r *GormFundRepository) Create(ctx context.Context, fund *ledger.ImprestFund) error {
	model := models.ImprestFundModelFromDomain(fund)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// FindByID finds a fund by ID within an owner scope
func (r *GormFundRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ImprestFund, error) {
	return r.findOne(ctx, ownerID, id, false)
}

// FindByIDForUpdate finds a fund by ID and locks the row until the
// surrounding transaction ends. Must be called inside WithinTransaction.
func (r *GormFundRepository) FindByIDForUpdate(ctx context.Context, ownerID, id uuid.UUID) (*ledger.ImprestFund, error) {
	return r.findOne(ctx, ownerID, id, true)
}

func (r *GormFundRepository) findOne(ctx context.Context, ownerID, id uuid.UUID, forUpdate bool) (*ledger.ImprestFund, error) {
	var model models.ImprestFundModel
	query := r.conn(ctx).Where("owner_id = ? AND id = ?", ownerID, id)
	if forUpdate {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByReference finds a fund by its reference within an owner scope
func (r *GormFundRepository) FindByReference(ctx context.Context, ownerID uuid.UUID, reference string) (*ledger.ImprestFund, error) {
	var model models.ImprestFundModel
	if err := r.conn(ctx).
		Where("owner_id = ? AND reference = ?", ownerID, reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List lists funds with filtering
func (r *GormFundRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.FundFilter) ([]*ledger.ImprestFund, int64, error) {
	var fundModels []models.ImprestFundModel
	var total int64

	base := func() *gorm.DB {
		query := r.conn(ctx).Model(&models.ImprestFundModel{}).
			Where("owner_id = ?", ownerID)
		if filter.Status != nil {
			query = query.Where("status = ?", strings.ToUpper(string(*filter.Status)))
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			query = query.Where("reference ILIKE ? OR account_holder ILIKE ? OR purpose ILIKE ?", pattern, pattern, pattern)
		}
		return query
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base()
	orderBy := ValidateSortField(filter.OrderBy, FundSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&fundModels).Error; err != nil {
		return nil, 0, err
	}

	funds := make([]*ledger.ImprestFund, len(fundModels))
	for i, model := range fundModels {
		funds[i] = model.ToDomain()
	}
	return funds, total, nil
}

// Save persists changes to an existing fund with optimistic locking.
// Returns a conflict error if the version has changed underneath us.
func (r *GormFundRepository) Save(ctx context.Context, fund *ledger.ImprestFund) error {
	fund.IncrementVersion()
	model := models.ImprestFundModelFromDomain(fund)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", fund.ID, fund.Version-1).
		Select("*").
		Omit("created_at").
		Updates(model)

	if result.Error != nil {
		fund.Version--
		return result.Error
	}
	if result.RowsAffected == 0 {
		fund.Version--
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a fund within an owner scope
func (r *GormFundRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.ImprestFundModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountCreatedInMonth counts funds created in the month containing at
func (r *GormFundRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	return countCreatedInMonth(r.conn(ctx), &models.ImprestFundModel{}, at)
}

// countCreatedInMonth counts rows of the given model created within the
// calendar month containing at. Shared by the reference generators.
func countCreatedInMonth(db *gorm.DB, model interface{}, at time.Time) (int64, error) {
	monthStart := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int64
	err := db.Model(model).
		Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
		Count(&count).Error
	return count, err
}

// isDuplicateKeyError reports whether err is a unique-constraint violation
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint failed")
}

// Ensure GormFundRepository implements FundRepository
var _ ledger.FundRepository = (*GormFundRepository)(nil)
