// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerMetricsProvider implements LedgerMetricsProvider using GORM.
// It queries the imprest_funds and expenses tables directly for aggregated metrics.
type GormLedgerMetricsProvider struct {
	db *gorm.DB
}

// NewGormLedgerMetricsProvider creates a new GormLedgerMetricsProvider.
func NewGormLedgerMetricsProvider(db *gorm.DB) *GormLedgerMetricsProvider {
	return &GormLedgerMetricsProvider{db: db}
}

// GetFundBalances returns the current balance per active imprest fund for an owner.
func (p *GormLedgerMetricsProvider) GetFundBalances(ctx context.Context, ownerID uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	type result struct {
		ID             uuid.UUID       `gorm:"column:id"`
		CurrentBalance decimal.Decimal `gorm:"column:current_balance"`
	}

	var results []result
	err := p.db.WithContext(ctx).
		Table("imprest_funds").
		Select("id, current_balance").
		Where("owner_id = ? AND status = ?", ownerID, "ACTIVE").
		Find(&results).Error

	if err != nil {
		return nil, err
	}

	m := make(map[uuid.UUID]decimal.Decimal, len(results))
	for _, r := range results {
		m[r.ID] = r.CurrentBalance
	}

	return m, nil
}

// GetPendingExpenseCount returns the number of expenses awaiting a decision for an owner.
func (p *GormLedgerMetricsProvider) GetPendingExpenseCount(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("expenses").
		Where("owner_id = ? AND status = ?", ownerID, "PENDING").
		Count(&count).Error

	return count, err
}

// GormOwnerProvider implements OwnerProvider using GORM.
// Owners are derived from the distinct owner IDs present in the fund store.
type GormOwnerProvider struct {
	db *gorm.DB
}

// NewGormOwnerProvider creates a new GormOwnerProvider.
func NewGormOwnerProvider(db *gorm.DB) *GormOwnerProvider {
	return &GormOwnerProvider{db: db}
}

// GetActiveOwnerIDs returns the owner IDs that have at least one imprest fund.
func (p *GormOwnerProvider) GetActiveOwnerIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := p.db.WithContext(ctx).
		Table("imprest_funds").
		Distinct("owner_id").
		Find(&ids).Error

	return ids, err
}
