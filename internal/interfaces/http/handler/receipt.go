package handler

import (
	ledgerapp "github.com/gescom/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// ReceiptHandler handles receipt file upload and download endpoints.
// Files go directly to object storage via presigned URLs; the API never
// proxies file bytes.
type ReceiptHandler struct {
	BaseHandler
	receiptService *ledgerapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *ledgerapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// receiptKeyQuery binds the storage key query parameter. Storage keys
// contain slashes, so they travel as a query parameter rather than a
// path segment.
type receiptKeyQuery struct {
	Key string `form:"key" binding:"required"`
}

// InitiateUpload returns a presigned upload URL and the storage key to
// set as receipt_url once the upload completes
func (h *ReceiptHandler) InitiateUpload(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var req ledgerapp.InitiateReceiptUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.InitiateUpload(c.Request.Context(), ownerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// ConfirmUpload verifies the file landed in storage and returns a download URL
func (h *ReceiptHandler) ConfirmUpload(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var query receiptKeyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.ConfirmUpload(c.Request.Context(), ownerID, query.Key)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetDownloadURL returns a presigned download URL for an existing receipt
func (h *ReceiptHandler) GetDownloadURL(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var query receiptKeyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.receiptService.GetDownloadURL(c.Request.Context(), ownerID, query.Key)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete removes a receipt file from storage
func (h *ReceiptHandler) Delete(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		h.BadRequest(c, "Invalid owner ID")
		return
	}

	var query receiptKeyQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.receiptService.DeleteReceipt(c.Request.Context(), ownerID, query.Key); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
