package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COVER_MAX_BYTES", "")
	t.Setenv("GALLERY_MAX_BYTES", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()

	assert.Equal(t, int64(15<<20), cfg.CoverMaxBytes)
	assert.Equal(t, int64(20<<20), cfg.GalleryMaxBytes)
	assert.Equal(t, "gallery-images", cfg.GalleryBucket)
	assert.Equal(t, "site-assets", cfg.SiteAssetBucket)
	assert.Equal(t, "minio", cfg.StorageDriver)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("RATE_LIMIT_BURST", "9")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	assert.True(t, cfg.StorageUseSSL)
	assert.Equal(t, 9, cfg.RateLimitBurst)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestStorageConfigured(t *testing.T) {
	cfg := &Config{
		StorageDriver:    "minio",
		StorageEndpoint:  "localhost:9000",
		StorageAccessKey: "key",
		StorageSecretKey: "secret",
	}
	assert.True(t, cfg.StorageConfigured())

	cfg.StorageDriver = "none"
	assert.False(t, cfg.StorageConfigured())

	cfg.StorageDriver = "memory"
	assert.True(t, cfg.StorageConfigured())

	cfg.StorageDriver = "s3"
	cfg.StorageEndpoint = placeholderEndpoint
	assert.False(t, cfg.StorageConfigured())

	cfg.StorageEndpoint = "localhost:9000"
	cfg.StorageSecretKey = ""
	assert.False(t, cfg.StorageConfigured())
}

func TestMailConfigured(t *testing.T) {
	cfg := &Config{SMTPHost: "smtp.example.com", SMTPFrom: "site@example.com"}
	assert.False(t, cfg.MailConfigured())

	cfg.NotifyEmail = "owner@example.com"
	assert.True(t, cfg.MailConfigured())
}
