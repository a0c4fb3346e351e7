package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("GAMEHUB_SERVER_URL", "https://api.example.com/api")
	t.Setenv("GAMEHUB_REQUEST_TIMEOUT", "2s")
	t.Setenv("GAMEHUB_RESEND_NOTICE_INTERVAL", "500ms")
	t.Setenv("GAMEHUB_S3_BUCKET", "exports")
	t.Setenv("GAMEHUB_S3_BASE_ENDPOINT", "http://127.0.0.1:9000")

	cfg := defaults()
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "https://api.example.com/api", cfg.ServerURL)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ResendNoticeInterval)
	assert.Equal(t, "exports", cfg.S3Bucket)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.S3BaseEndpoint)

	// untouched
	assert.Equal(t, "gamehub.db", cfg.DatabasePath)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("GAMEHUB_SUCCESS_ACK_DELAY", "fast")

	err := parseEnv(defaults())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env")
}
