package handler

import (
	reportapp "github.com/gescom/backend/internal/application/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccountingReportHandler handles dashboard statistics, trial balance,
// and persisted report snapshot endpoints
type AccountingReportHandler struct {
	BaseHandler
	statsService    *reportapp.AccountingStatsService
	snapshotService *reportapp.ReportSnapshotService
}

// NewAccountingReportHandler creates a new AccountingReportHandler
func NewAccountingReportHandler(
	statsService *reportapp.AccountingStatsService,
	snapshotService *reportapp.ReportSnapshotService,
) *AccountingReportHandler {
	return &AccountingReportHandler{
		statsService:    statsService,
		snapshotService: snapshotService,
	}
}

// ReportListFilter represents filter options for listing report snapshots
type ReportListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=EXPENSE_SUMMARY IMPREST_SUMMARY MONTHLY_REPORT YEARLY_REPORT"`
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
}

// GetStats returns the accounting dashboard aggregates
func (h *AccountingReportHandler) GetStats(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	stats, err := h.statsService.GetAccountingStats(c.Request.Context(), ownerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stats)
}

// GetTrialBalance returns per-account debit/credit totals for a period
func (h *AccountingReportHandler) GetTrialBalance(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var filter reportapp.TrialBalanceFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	trialBalance, err := h.statsService.GetTrialBalance(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, trialBalance)
}

// Generate builds a report snapshot and persists it
func (h *AccountingReportHandler) Generate(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var req reportapp.GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	generatedBy, err := getUserID(c)
	if err != nil {
		generatedBy = ownerID
	}

	snapshot, err := h.snapshotService.GenerateReport(c.Request.Context(), ownerID, generatedBy, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, snapshot)
}

// Get returns a persisted report snapshot by ID
func (h *AccountingReportHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	snapshot, err := h.snapshotService.GetReport(c.Request.Context(), ownerID, reportID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, snapshot)
}

// List returns report snapshots, optionally filtered by type
func (h *AccountingReportHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var filter ReportListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	snapshots, total, err := h.snapshotService.ListReports(c.Request.Context(), ownerID, filter.Type, filter.Page, filter.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, snapshots, total, filter.Page, filter.PageSize)
}

// Delete removes a persisted report snapshot
func (h *AccountingReportHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	if err := h.snapshotService.DeleteReport(c.Request.Context(), ownerID, reportID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
