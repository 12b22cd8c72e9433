package ledger

import (
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReportType classifies persisted accounting reports
type ReportType string

const (
	ReportTypeExpenseSummary ReportType = "EXPENSE_SUMMARY"
	ReportTypeImprestSummary ReportType = "IMPREST_SUMMARY"
	ReportTypeMonthly        ReportType = "MONTHLY_REPORT"
	ReportTypeYearly         ReportType = "YEARLY_REPORT"
)

// String returns the string representation of ReportType
func (t ReportType) String() string {
	return string(t)
}

// IsValid returns true if the report type is valid
func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeExpenseSummary, ReportTypeImprestSummary, ReportTypeMonthly, ReportTypeYearly:
		return true
	}
	return false
}

// AccountingReport is a persisted snapshot of a generated report.
// Data holds the rendered figures as an opaque JSON document; the
// snapshot is not recomputed when the underlying ledger changes.
type AccountingReport struct {
	shared.BaseEntity
	OwnerID     uuid.UUID  `json:"owner_id"`
	Name        string     `json:"name"`
	Type        ReportType `json:"type"`
	PeriodStart time.Time  `json:"period_start"`
	PeriodEnd   time.Time  `json:"period_end"`
	Data        string     `json:"data"` // JSON payload
	GeneratedBy uuid.UUID  `json:"generated_by"`
}

// NewAccountingReport creates a new report snapshot
func NewAccountingReport(
	ownerID uuid.UUID,
	name string,
	reportType ReportType,
	periodStart time.Time,
	periodEnd time.Time,
	data string,
	generatedBy uuid.UUID,
) (*AccountingReport, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Report name cannot be empty")
	}
	if !reportType.IsValid() {
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", "Invalid report type")
	}
	if periodEnd.Before(periodStart) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period end cannot precede period start")
	}
	if data == "" {
		return nil, shared.NewDomainError("INVALID_DATA", "Report data cannot be empty")
	}

	return &AccountingReport{
		BaseEntity:  shared.NewBaseEntity(),
		OwnerID:     ownerID,
		Name:        name,
		Type:        reportType,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Data:        data,
		GeneratedBy: generatedBy,
	}, nil
}
