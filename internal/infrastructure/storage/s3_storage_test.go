package storage

import (
	"context"
	"testing"
	"time"

	"github.com/gescom/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func receiptStoreConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:            "ledger-receipts",
		AccessKey:         "test-key",
		SecretKey:         "test-secret",
		Endpoint:          "http://localhost:9000",
		UsePathStyle:      true,
		PresignExpiration: 15 * time.Minute,
	}
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket is required"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key is required"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := receiptStoreConfig()
			tc.mutate(cfg)

			_, err := NewS3ObjectStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("valid config", func(t *testing.T) {
		store, err := NewS3ObjectStorage(receiptStoreConfig())
		require.NoError(t, err)
		assert.Equal(t, "ledger-receipts", store.GetBucket())
		assert.Equal(t, 15*time.Minute, store.presignExpiration)
	})

	t.Run("presign expiration defaults to 15 minutes", func(t *testing.T) {
		cfg := receiptStoreConfig()
		cfg.PresignExpiration = 0

		store, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, store.presignExpiration)
	})
}

func TestResolveEndpoint(t *testing.T) {
	cases := []struct {
		name     string
		endpoint string
		useSSL   bool
		want     string
	}{
		{"empty falls back to localhost", "", false, "http://localhost:9000"},
		{"scheme preserved", "https://s3.eu-west-3.amazonaws.com", false, "https://s3.eu-west-3.amazonaws.com"},
		{"bare host gets http", "minio:9000", false, "http://minio:9000"},
		{"bare host gets https with SSL", "minio:9000", true, "https://minio:9000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveEndpoint(&config.StorageConfig{Endpoint: tc.endpoint, UseSSL: tc.useSSL})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestS3ObjectStorageOptions(t *testing.T) {
	store, err := NewS3ObjectStorage(receiptStoreConfig(),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(time.Hour),
	)
	require.NoError(t, err)
	assert.NotNil(t, store.logger)
	assert.Equal(t, time.Hour, store.presignExpiration)
}

func TestS3ObjectStorage_GenerateUploadURL(t *testing.T) {
	store, err := NewS3ObjectStorage(receiptStoreConfig())
	require.NoError(t, err)

	t.Run("empty storage key", func(t *testing.T) {
		url, _, err := store.GenerateUploadURL(context.Background(), "", "image/jpeg", time.Minute)
		require.Error(t, err)
		assert.Empty(t, url)
	})

	t.Run("presigned PUT URL", func(t *testing.T) {
		url, expiresAt, err := store.GenerateUploadURL(context.Background(), "receipts/2026/08/r-1.jpg", "image/jpeg", 15*time.Minute)
		require.NoError(t, err)
		assert.Contains(t, url, "localhost:9000")
		assert.Contains(t, url, "ledger-receipts")
		assert.True(t, expiresAt.After(time.Now()))
		assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	})

	t.Run("zero expiry uses the configured default", func(t *testing.T) {
		_, expiresAt, err := store.GenerateUploadURL(context.Background(), "receipts/r-1.jpg", "image/jpeg", 0)
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now().Add(14*time.Minute)))
	})
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	store, err := NewS3ObjectStorage(receiptStoreConfig())
	require.NoError(t, err)

	t.Run("empty storage key", func(t *testing.T) {
		url, _, err := store.GenerateDownloadURL(context.Background(), "", time.Minute)
		require.Error(t, err)
		assert.Empty(t, url)
	})

	t.Run("presigned GET URL", func(t *testing.T) {
		url, expiresAt, err := store.GenerateDownloadURL(context.Background(), "receipts/2026/08/r-1.jpg", time.Hour)
		require.NoError(t, err)
		assert.Contains(t, url, "ledger-receipts")
		assert.True(t, expiresAt.After(time.Now()))
	})
}

func TestS3ObjectStorage_KeyValidation(t *testing.T) {
	store, err := NewS3ObjectStorage(receiptStoreConfig())
	require.NoError(t, err)

	assert.Error(t, store.DeleteObject(context.Background(), ""))

	exists, err := store.ObjectExists(context.Background(), "")
	require.Error(t, err)
	assert.False(t, exists)
}
