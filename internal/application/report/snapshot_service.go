package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gescom/backend/internal/domain/ledger"
	"github.com/gescom/backend/internal/domain/report"
	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// GenerateReportRequest represents a request to generate a report snapshot
type GenerateReportRequest struct {
	Name        string    `json:"name" binding:"required,max=200"`
	Type        string    `json:"type" binding:"required,oneof=EXPENSE_SUMMARY IMPREST_SUMMARY MONTHLY_REPORT YEARLY_REPORT"`
	PeriodStart time.Time `json:"period_start" binding:"required"`
	PeriodEnd   time.Time `json:"period_end" binding:"required"`
}

// ReportSnapshotResponse represents a persisted report in API responses.
// Data is the rendered report figures as generated, not recomputed.
type ReportSnapshotResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Type        string          `json:"type"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Data        json.RawMessage `json:"data"`
	GeneratedBy uuid.UUID       `json:"generated_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToReportSnapshotResponse converts a domain AccountingReport to a response
func ToReportSnapshotResponse(r *ledger.AccountingReport) ReportSnapshotResponse {
	return ReportSnapshotResponse{
		ID:          r.ID,
		Name:        r.Name,
		Type:        string(r.Type),
		PeriodStart: r.PeriodStart,
		PeriodEnd:   r.PeriodEnd,
		Data:        json.RawMessage(r.Data),
		GeneratedBy: r.GeneratedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// ToReportSnapshotResponses converts a slice of domain AccountingReports
func ToReportSnapshotResponses(reports []*ledger.AccountingReport) []ReportSnapshotResponse {
	responses := make([]ReportSnapshotResponse, len(reports))
	for i, r := range reports {
		responses[i] = ToReportSnapshotResponse(r)
	}
	return responses
}

// ReportSnapshotService generates and stores point-in-time accounting
// reports. Snapshots keep the figures as they were when generated; later
// ledger changes do not rewrite history.
type ReportSnapshotService struct {
	snapshotRepo     ledger.ReportSnapshotRepository
	ledgerReportRepo report.LedgerReportRepository
}

// NewReportSnapshotService creates a new ReportSnapshotService
func NewReportSnapshotService(
	snapshotRepo ledger.ReportSnapshotRepository,
	ledgerReportRepo report.LedgerReportRepository,
) *ReportSnapshotService {
	return &ReportSnapshotService{
		snapshotRepo:     snapshotRepo,
		ledgerReportRepo: ledgerReportRepo,
	}
}

// GenerateReport computes the requested report and persists it
func (s *ReportSnapshotService) GenerateReport(ctx context.Context, ownerID, generatedBy uuid.UUID, req GenerateReportRequest) (*ReportSnapshotResponse, error) {
	reportType := ledger.ReportType(req.Type)

	payload, err := s.buildPayload(ownerID, reportType, req.PeriodStart, req.PeriodEnd)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	snapshot, err := ledger.NewAccountingReport(
		ownerID,
		req.Name,
		reportType,
		req.PeriodStart,
		req.PeriodEnd,
		string(data),
		generatedBy,
	)
	if err != nil {
		return nil, err
	}

	if err := s.snapshotRepo.Create(ctx, snapshot); err != nil {
		return nil, err
	}

	response := ToReportSnapshotResponse(snapshot)
	return &response, nil
}

// buildPayload assembles the report figures for the requested type
func (s *ReportSnapshotService) buildPayload(ownerID uuid.UUID, reportType ledger.ReportType, periodStart, periodEnd time.Time) (any, error) {
	switch reportType {
	case ledger.ReportTypeExpenseSummary:
		return s.ledgerReportRepo.GetExpenseSummary(ownerID)

	case ledger.ReportTypeImprestSummary:
		return s.ledgerReportRepo.GetFundSummary(ownerID)

	case ledger.ReportTypeMonthly:
		monthly, err := s.ledgerReportRepo.GetMonthlyExpensesByCategory(ownerID, periodStart)
		if err != nil {
			return nil, err
		}
		trialBalance, err := s.ledgerReportRepo.GetTrialBalance(report.LedgerReportFilter{
			OwnerID:   ownerID,
			StartDate: periodStart,
			EndDate:   periodEnd,
		})
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"monthly_by_category": monthly,
			"trial_balance":       trialBalance,
		}, nil

	case ledger.ReportTypeYearly:
		return s.ledgerReportRepo.GetTrialBalance(report.LedgerReportFilter{
			OwnerID:   ownerID,
			StartDate: periodStart,
			EndDate:   periodEnd,
		})

	default:
		return nil, shared.NewDomainError("INVALID_REPORT_TYPE", "Invalid report type")
	}
}

// GetReport retrieves a stored report by ID
func (s *ReportSnapshotService) GetReport(ctx context.Context, ownerID, id uuid.UUID) (*ReportSnapshotResponse, error) {
	snapshot, err := s.snapshotRepo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	response := ToReportSnapshotResponse(snapshot)
	return &response, nil
}

// ListReports lists stored reports, newest first
func (s *ReportSnapshotService) ListReports(ctx context.Context, ownerID uuid.UUID, reportType string, page, pageSize int) ([]ReportSnapshotResponse, int64, error) {
	var typeFilter *ledger.ReportType
	if reportType != "" {
		t := ledger.ReportType(reportType)
		if !t.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_REPORT_TYPE", "Invalid report type")
		}
		typeFilter = &t
	}

	snapshots, total, err := s.snapshotRepo.List(ctx, ownerID, typeFilter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	return ToReportSnapshotResponses(snapshots), total, nil
}

// DeleteReport removes a stored report
func (s *ReportSnapshotService) DeleteReport(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.snapshotRepo.Delete(ctx, ownerID, id)
}
