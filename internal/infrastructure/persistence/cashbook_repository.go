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

// GormCashBookRepository implements CashBookRepository using GORM
type GormCashBookRepository struct {
	db *gorm.DB
}

// NewGormCashBookRepository creates a new GormCashBookRepository
func NewGormCashBookRepository(db *gorm.DB) *GormCashBookRepository {
	return &GormCashBookRepository{db: db}
}

func (r *GormCashBookRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create creates a new cash book entry
func (r *GormCashBookRepository) Create(ctx context.Context, entry *ledger.CashBookEntry) error {
	model := models.CashBookEntryModelFromDomain(entry)
	if err := r.conn(ctx).Create(model).Error; err != nil {
		if isDuplicateKeyError(err) {
			return shared.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// FindByID finds an entry by ID within an owner scope
func (r *GormCashBookRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.CashBookEntry, error) {
	var model models.CashBookEntryModel
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

// List lists entries with filtering
func (r *GormCashBookRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.CashBookFilter) ([]*ledger.CashBookEntry, int64, error) {
	var entryModels []models.CashBookEntryModel
	var total int64

	base := func() *gorm.DB {
		query := r.conn(ctx).Model(&models.CashBookEntryModel{}).
			Where("owner_id = ?", ownerID)
		return r.applyFilter(query, filter)
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base().Order("entry_date DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*ledger.CashBookEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, total, nil
}

// Save persists changes to an existing entry
func (r *GormCashBookRepository) Save(ctx context.Context, entry *ledger.CashBookEntry) error {
	entry.IncrementVersion()
	model := models.CashBookEntryModelFromDomain(entry)
	result := r.conn(ctx).
		Model(model).
		Where("id = ? AND version = ?", entry.ID, entry.Version-1).
		Select("*").
		Omit("created_at").
		Updates(model)

	if result.Error != nil {
		entry.Version--
		return result.Error
	}
	if result.RowsAffected == 0 {
		entry.Version--
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes an entry within an owner scope
func (r *GormCashBookRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.CashBookEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountCreatedInMonth counts entries created in the month containing at
func (r *GormCashBookRepository) CountCreatedInMonth(ctx context.Context, at time.Time) (int64, error) {
	return countCreatedInMonth(r.conn(ctx), &models.CashBookEntryModel{}, at)
}

// applyFilter applies filter options to the query
func (r *GormCashBookRepository) applyFilter(query *gorm.DB, filter ledger.CashBookFilter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", strings.ToUpper(string(*filter.Type)))
	}

	if filter.Account != "" {
		query = query.Where("account = ?", filter.Account)
	}

	if filter.IsReconciled != nil {
		query = query.Where("is_reconciled = ?", *filter.IsReconciled)
	}

	if filter.DateFrom != nil {
		query = query.Where("entry_date >= ?", *filter.DateFrom)
	}

	if filter.DateTo != nil {
		query = query.Where("entry_date <= ?", *filter.DateTo)
	}

	if filter.Search != "" {
		query = query.Where("description LIKE ? OR counterparty LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	return query
}

// Ensure GormCashBookRepository implements CashBookRepository
var _ ledger.CashBookRepository = (*GormCashBookRepository)(nil)

// GormJournalRepository implements JournalRepository using GORM
type GormJournalRepository struct {
	db *gorm.DB
}

// NewGormJournalRepository creates a new GormJournalRepository
func NewGormJournalRepository(db *gorm.DB) *GormJournalRepository {
	return &GormJournalRepository{db: db}
}

func (r *GormJournalRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create appends a new journal entry
func (r *GormJournalRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	model := models.JournalEntryModelFromDomain(entry)
	return r.conn(ctx).Create(model).Error
}

// List lists journal entries with filtering
func (r *GormJournalRepository) List(ctx context.Context, ownerID uuid.UUID, filter ledger.JournalFilter) ([]*ledger.JournalEntry, int64, error) {
	var entryModels []models.JournalEntryModel
	var total int64

	base := func() *gorm.DB {
		query := r.conn(ctx).Model(&models.JournalEntryModel{}).
			Where("owner_id = ?", ownerID)
		if filter.SourceModule != nil {
			query = query.Where("source_module = ?", strings.ToUpper(string(*filter.SourceModule)))
		}
		if filter.DateFrom != nil {
			query = query.Where("entry_date >= ?", *filter.DateFrom)
		}
		if filter.DateTo != nil {
			query = query.Where("entry_date <= ?", *filter.DateTo)
		}
		return query
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base().Order("entry_date DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]*ledger.JournalEntry, len(entryModels))
	for i, model := range entryModels {
		entries[i] = model.ToDomain()
	}
	return entries, total, nil
}

// Ensure GormJournalRepository implements JournalRepository
var _ ledger.JournalRepository = (*GormJournalRepository)(nil)

// GormReportSnapshotRepository implements ReportSnapshotRepository using GORM
type GormReportSnapshotRepository struct {
	db *gorm.DB
}

// NewGormReportSnapshotRepository creates a new GormReportSnapshotRepository
func NewGormReportSnapshotRepository(db *gorm.DB) *GormReportSnapshotRepository {
	return &GormReportSnapshotRepository{db: db}
}

func (r *GormReportSnapshotRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// Create persists a new report snapshot
func (r *GormReportSnapshotRepository) Create(ctx context.Context, report *ledger.AccountingReport) error {
	model := models.AccountingReportModelFromDomain(report)
	return r.conn(ctx).Create(model).Error
}

// FindByID finds a report by ID within an owner scope
func (r *GormReportSnapshotRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*ledger.AccountingReport, error) {
	var model models.AccountingReportModel
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

// List lists reports of an owner, newest first
func (r *GormReportSnapshotRepository) List(ctx context.Context, ownerID uuid.UUID, reportType *ledger.ReportType, page, pageSize int) ([]*ledger.AccountingReport, int64, error) {
	var reportModels []models.AccountingReportModel
	var total int64

	base := func() *gorm.DB {
		query := r.conn(ctx).Model(&models.AccountingReportModel{}).
			Where("owner_id = ?", ownerID)
		if reportType != nil {
			query = query.Where("type = ?", strings.ToUpper(string(*reportType)))
		}
		return query
	}

	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := base().Order("created_at DESC")
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	if err := query.Find(&reportModels).Error; err != nil {
		return nil, 0, err
	}

	reports := make([]*ledger.AccountingReport, len(reportModels))
	for i, model := range reportModels {
		reports[i] = model.ToDomain()
	}
	return reports, total, nil
}

// Delete removes a report within an owner scope
func (r *GormReportSnapshotRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	result := r.conn(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&models.AccountingReportModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormReportSnapshotRepository implements ReportSnapshotRepository
var _ ledger.ReportSnapshotRepository = (*GormReportSnapshotRepository)(nil)
