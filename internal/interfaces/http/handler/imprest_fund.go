package handler

import (
	ledgerapp "github.com/gescom/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImprestFundHandler handles imprest fund API endpoints
type ImprestFundHandler struct {
	BaseHandler
	fundService *ledgerapp.FundService
	txService   *ledgerapp.TransactionService
}

// NewImprestFundHandler creates a new ImprestFundHandler
func NewImprestFundHandler(fundService *ledgerapp.FundService, txService *ledgerapp.TransactionService) *ImprestFundHandler {
	return &ImprestFundHandler{
		fundService: fundService,
		txService:   txService,
	}
}

// Create opens a new imprest fund with its initial allocation
func (h *ImprestFundHandler) Create(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var req ledgerapp.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	fund, err := h.fundService.CreateFund(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, fund)
}

// Get returns a single fund by ID
func (h *ImprestFundHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	fund, err := h.fundService.GetFund(c.Request.Context(), ownerID, fundID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fund)
}

// GetByReference returns a single fund by its document reference
func (h *ImprestFundHandler) GetByReference(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	reference := c.Param("reference")
	if reference == "" {
		h.BadRequest(c, "Reference is required")
		return
	}

	fund, err := h.fundService.GetFundByReference(c.Request.Context(), ownerID, reference)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fund)
}

// List returns funds with optional filtering and pagination
func (h *ImprestFundHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var filter ledgerapp.FundListFilter
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

	funds, total, err := h.fundService.ListFunds(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, funds, total, filter.Page, filter.PageSize)
}

// Update changes fund details. The balance is never touched here;
// balances only move through recorded transactions.
func (h *ImprestFundHandler) Update(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	var req ledgerapp.UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	fund, err := h.fundService.UpdateFund(c.Request.Context(), ownerID, fundID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, fund)
}

// Delete removes a fund together with its transaction history
func (h *ImprestFundHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	if err := h.fundService.DeleteFund(c.Request.Context(), ownerID, fundID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// CheckBalance recomputes the fund balance from the transaction log
// and reports whether it matches the stored balance
func (h *ImprestFundHandler) CheckBalance(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	result, err := h.txService.CheckFundBalance(c.Request.Context(), ownerID, fundID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
