package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gescom/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObjectStorage is a mock implementation of ObjectStorageService
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func TestReceiptService_InitiateUpload_Success(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	expiresAt := time.Now().Add(15 * time.Minute)

	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	storage.On("GenerateUploadURL", ctx, mock.AnythingOfType("string"), "image/jpeg", 15*time.Minute).
		Return("https://storage.example.com/upload", expiresAt, nil)

	resp, err := service.InitiateUpload(ctx, ownerID, InitiateReceiptUploadRequest{
		FileName:    "taxi-receipt.jpg",
		ContentType: "image/jpeg",
		FileSize:    240_000,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/upload", resp.UploadURL)
	assert.True(t, strings.HasPrefix(resp.StorageKey, "owners/"+ownerID.String()+"/receipts/"))
	assert.True(t, strings.HasSuffix(resp.StorageKey, ".jpg"))

	storage.AssertExpectations(t)
}

func TestReceiptService_InitiateUpload_DisallowedContentType(t *testing.T) {
	ctx := context.Background()
	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	// SVG can carry scripts and is excluded from the whitelist
	_, err := service.InitiateUpload(ctx, uuid.New(), InitiateReceiptUploadRequest{
		FileName:    "receipt.svg",
		ContentType: "image/svg+xml",
		FileSize:    1024,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DISALLOWED_CONTENT_TYPE", domainErr.Code)
	storage.AssertNotCalled(t, "GenerateUploadURL")
}

func TestReceiptService_InitiateUpload_FileTooLarge(t *testing.T) {
	ctx := context.Background()
	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	_, err := service.InitiateUpload(ctx, uuid.New(), InitiateReceiptUploadRequest{
		FileName:    "scan.pdf",
		ContentType: "application/pdf",
		FileSize:    MaxReceiptFileSize + 1,
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "FILE_TOO_LARGE", domainErr.Code)
}

func TestReceiptService_ConfirmUpload_Success(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	storageKey := "owners/" + ownerID.String() + "/receipts/" + uuid.New().String() + ".pdf"
	expiresAt := time.Now().Add(time.Hour)

	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	storage.On("ObjectExists", ctx, storageKey).Return(true, nil)
	storage.On("GenerateDownloadURL", ctx, storageKey, 1*time.Hour).
		Return("https://storage.example.com/download", expiresAt, nil)

	resp, err := service.ConfirmUpload(ctx, ownerID, storageKey)

	require.NoError(t, err)
	assert.Equal(t, storageKey, resp.StorageKey)
	assert.Equal(t, "https://storage.example.com/download", resp.DownloadURL)
	storage.AssertExpectations(t)
}

func TestReceiptService_ConfirmUpload_NotUploaded(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	storageKey := "owners/" + ownerID.String() + "/receipts/" + uuid.New().String() + ".png"

	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	storage.On("ObjectExists", ctx, storageKey).Return(false, nil)

	_, err := service.ConfirmUpload(ctx, ownerID, storageKey)

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UPLOAD_NOT_FOUND", domainErr.Code)
	storage.AssertNotCalled(t, "GenerateDownloadURL")
}

func TestReceiptService_OwnershipEnforced(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	otherOwner := uuid.New()
	foreignKey := "owners/" + otherOwner.String() + "/receipts/" + uuid.New().String() + ".jpg"

	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	_, err := service.GetDownloadURL(ctx, owner, foreignKey)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RECEIPT_ACCESS_DENIED", domainErr.Code)

	err = service.DeleteReceipt(ctx, owner, foreignKey)
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RECEIPT_ACCESS_DENIED", domainErr.Code)

	storage.AssertNotCalled(t, "ObjectExists")
	storage.AssertNotCalled(t, "DeleteObject")
}

func TestReceiptService_DeleteReceipt_Success(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	storageKey := "owners/" + ownerID.String() + "/receipts/" + uuid.New().String() + ".jpg"

	storage := new(MockObjectStorage)
	service := NewReceiptService(storage)

	storage.On("DeleteObject", ctx, storageKey).Return(nil)

	require.NoError(t, service.DeleteReceipt(ctx, ownerID, storageKey))
	storage.AssertExpectations(t)
}
