package handler

import (
	ledgerapp "github.com/gescom/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ImprestTransactionHandler handles imprest transaction API endpoints
type ImprestTransactionHandler struct {
	BaseHandler
	txService *ledgerapp.TransactionService
}

// NewImprestTransactionHandler creates a new ImprestTransactionHandler
func NewImprestTransactionHandler(txService *ledgerapp.TransactionService) *ImprestTransactionHandler {
	return &ImprestTransactionHandler{txService: txService}
}

// Record appends a transaction to a fund's log and moves its balance
func (h *ImprestTransactionHandler) Record(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var req ledgerapp.RecordTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	transaction, err := h.txService.RecordTransaction(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, transaction)
}

// Get returns a single transaction by ID
func (h *ImprestTransactionHandler) Get(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transaction ID format")
		return
	}

	transaction, err := h.txService.GetTransaction(c.Request.Context(), ownerID, transactionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transaction)
}

// List returns transactions with optional filtering and pagination
func (h *ImprestTransactionHandler) List(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var filter ledgerapp.TransactionListFilter
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

	transactions, total, err := h.txService.ListTransactions(c.Request.Context(), ownerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, transactions, total, filter.Page, filter.PageSize)
}
