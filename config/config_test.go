package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, StorageFile, cfg.StorageDriver)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "invoice.pdf", cfg.PDFFilename)
	assert.Equal(t, 20.0, cfg.PDFMargin)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORAGE_DRIVER", "redis")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")
	t.Setenv("PDF_ORIENTATION", "landscape")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageRedis, cfg.StorageDriver)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
	assert.Equal(t, "landscape", cfg.PDFOrientation)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidOrientation(t *testing.T) {
	t.Setenv("PDF_ORIENTATION", "diagonal")
	_, err := Load()
	assert.Error(t, err)
}

func TestConfigureLogger(t *testing.T) {
	t.Cleanup(func() { logrus.SetLevel(logrus.InfoLevel) })

	cfg := &Config{LogLevel: "debug", LogFormat: "json"}
	require.NoError(t, cfg.ConfigureLogger())
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	assert.Error(t, (&Config{LogLevel: "loud"}).ConfigureLogger())
	assert.Error(t, (&Config{LogLevel: "info", LogFormat: "xml"}).ConfigureLogger())
}
