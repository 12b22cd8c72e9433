package storage

import (
	"context"
	"errors"
	"time"

	ledgerapp "github.com/gescom/backend/internal/application/ledger"
)

var _ ledgerapp.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage serves development environments that run without an
// S3 backend. URLs point at BaseURL and ObjectExists always reports
// true so the receipt confirmation flow stays usable.
type StubObjectStorage struct {
	BaseURL string
}

// NewStubObjectStorage creates a stub receipt store
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{BaseURL: "https://storage.example.com"}
}

func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return s.stubURL("/upload/", storageKey, expiresIn)
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	return s.stubURL("/download/", storageKey, expiresIn)
}

func (s *StubObjectStorage) stubURL(prefix, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(expiresIn)
	return s.BaseURL + prefix + storageKey + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
