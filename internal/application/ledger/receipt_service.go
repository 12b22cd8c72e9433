package ledger

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AllowedReceiptContentTypes defines the whitelist of allowed content types
// for receipt uploads. Receipts are photos or scans of paper documents, so
// only image formats and PDF are accepted.
// SECURITY: SVG files are explicitly NOT allowed due to XSS risk (can contain
// <script> tags and inline event handlers like onload, onerror, etc.)
var AllowedReceiptContentTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"image/bmp":       true,
	"image/tiff":      true,
	"application/pdf": true,
}

// MaxReceiptFileSize caps receipt uploads at 10MB
const MaxReceiptFileSize = 10 << 20

// ObjectStorageService defines the interface for object storage operations.
// Implemented by the infrastructure layer (S3, MinIO, RustFS, etc.)
type ObjectStorageService interface {
	// GenerateUploadURL generates a presigned URL for uploading a file.
	// Returns the upload URL and expiration time
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL generates a presigned URL for downloading a file.
	// Returns the download URL and expiration time
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// DeleteObject deletes an object from storage
	DeleteObject(ctx context.Context, storageKey string) error

	// ObjectExists checks if an object exists in storage
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// ReceiptServiceConfig holds configuration for the receipt service
type ReceiptServiceConfig struct {
	// UploadURLExpiry is the duration for which upload URLs are valid
	UploadURLExpiry time.Duration
	// DownloadURLExpiry is the duration for which download URLs are valid
	DownloadURLExpiry time.Duration
}

// DefaultReceiptServiceConfig returns the default configuration
func DefaultReceiptServiceConfig() ReceiptServiceConfig {
	return ReceiptServiceConfig{
		UploadURLExpiry:   15 * time.Minute,
		DownloadURLExpiry: 1 * time.Hour,
	}
}

// ReceiptService issues presigned URLs for receipt files backing expenses
// and imprest transactions. There is no separate attachment table: the
// storage key returned here is stored on the document's receipt_url field.
type ReceiptService struct {
	storageService ObjectStorageService
	config         ReceiptServiceConfig
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storageService ObjectStorageService) *ReceiptService {
	return &ReceiptService{
		storageService: storageService,
		config:         DefaultReceiptServiceConfig(),
	}
}

// SetConfig sets the service configuration
func (s *ReceiptService) SetConfig(config ReceiptServiceConfig) {
	s.config = config
}

// InitiateReceiptUploadRequest represents a request for a presigned upload URL
type InitiateReceiptUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
}

// InitiateReceiptUploadResponse carries the presigned upload URL and the
// storage key the client must set as receipt_url after uploading
type InitiateReceiptUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ReceiptDownloadResponse carries a presigned download URL
type ReceiptDownloadResponse struct {
	StorageKey  string    `json:"storage_key"`
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// InitiateUpload validates the file metadata and returns a presigned upload URL
func (s *ReceiptService) InitiateUpload(
	ctx context.Context,
	ownerID uuid.UUID,
	req InitiateReceiptUploadRequest,
) (*InitiateReceiptUploadResponse, error) {
	if !isAllowedReceiptContentType(req.ContentType) {
		return nil, shared.NewDomainError("DISALLOWED_CONTENT_TYPE",
			fmt.Sprintf("Content type '%s' is not allowed. Receipts must be images or PDF.", req.ContentType))
	}
	if req.FileSize > MaxReceiptFileSize {
		return nil, shared.NewDomainError("FILE_TOO_LARGE",
			fmt.Sprintf("Receipt files cannot exceed %d bytes", MaxReceiptFileSize))
	}

	storageKey := generateReceiptStorageKey(ownerID, req.FileName)

	uploadURL, expiresAt, err := s.storageService.GenerateUploadURL(
		ctx,
		storageKey,
		req.ContentType,
		s.config.UploadURLExpiry,
	)
	if err != nil {
		return nil, shared.NewDomainError("UPLOAD_URL_FAILED", "Failed to generate upload URL")
	}

	return &InitiateReceiptUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmUpload verifies the file landed in storage and returns a download
// URL. Called before the storage key is attached to an expense or transaction.
func (s *ReceiptService) ConfirmUpload(
	ctx context.Context,
	ownerID uuid.UUID,
	storageKey string,
) (*ReceiptDownloadResponse, error) {
	if err := s.checkOwnership(ownerID, storageKey); err != nil {
		return nil, err
	}

	exists, err := s.storageService.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND",
			"File not found in storage. Please upload the file first.")
	}

	return s.downloadResponse(ctx, storageKey)
}

// GetDownloadURL returns a presigned download URL for an existing receipt
func (s *ReceiptService) GetDownloadURL(
	ctx context.Context,
	ownerID uuid.UUID,
	storageKey string,
) (*ReceiptDownloadResponse, error) {
	if err := s.checkOwnership(ownerID, storageKey); err != nil {
		return nil, err
	}

	exists, err := s.storageService.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_CHECK_FAILED", "Failed to check receipt")
	}
	if !exists {
		return nil, shared.NewDomainError("RECEIPT_NOT_FOUND", "Receipt not found in storage")
	}

	return s.downloadResponse(ctx, storageKey)
}

// DeleteReceipt removes a receipt file from storage. The caller is
// responsible for clearing the receipt_url on any document referencing it.
func (s *ReceiptService) DeleteReceipt(
	ctx context.Context,
	ownerID uuid.UUID,
	storageKey string,
) error {
	if err := s.checkOwnership(ownerID, storageKey); err != nil {
		return err
	}
	return s.storageService.DeleteObject(ctx, storageKey)
}

func (s *ReceiptService) downloadResponse(ctx context.Context, storageKey string) (*ReceiptDownloadResponse, error) {
	downloadURL, expiresAt, err := s.storageService.GenerateDownloadURL(ctx, storageKey, s.config.DownloadURLExpiry)
	if err != nil {
		return nil, shared.NewDomainError("DOWNLOAD_URL_FAILED", "Failed to generate download URL")
	}
	return &ReceiptDownloadResponse{
		StorageKey:  storageKey,
		DownloadURL: downloadURL,
		ExpiresAt:   expiresAt,
	}, nil
}

// checkOwnership rejects storage keys outside the owner's receipt prefix.
// Keys are opaque to clients but still validated server-side so one owner
// cannot read or delete another owner's files.
func (s *ReceiptService) checkOwnership(ownerID uuid.UUID, storageKey string) error {
	prefix := fmt.Sprintf("owners/%s/receipts/", ownerID.String())
	if !strings.HasPrefix(storageKey, prefix) {
		return shared.NewDomainError("RECEIPT_ACCESS_DENIED", "Receipt does not belong to this ledger")
	}
	return nil
}

// generateReceiptStorageKey generates a unique storage key for a receipt file
func generateReceiptStorageKey(ownerID uuid.UUID, fileName string) string {
	ext := filepath.Ext(fileName)
	// Format: owners/{ownerID}/receipts/{uniqueID}{ext}
	return fmt.Sprintf("owners/%s/receipts/%s%s", ownerID.String(), uuid.New().String(), ext)
}

// isAllowedReceiptContentType checks a content type against the whitelist
func isAllowedReceiptContentType(contentType string) bool {
	return AllowedReceiptContentTypes[strings.ToLower(contentType)]
}
