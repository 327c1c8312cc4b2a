package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_DRIVER", "")
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gcs", cfg.StorageDriver)
	assert.Equal(t, 30, cfg.AIRateLimitPerMin)
	assert.Equal(t, int64(5<<20), cfg.MaxAvatarBytes)
	assert.Equal(t, 30*24*time.Hour, cfg.CartTTL)
	assert.True(t, cfg.MailSendEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("AI_RATE_LIMIT_PER_MIN", "5")
	t.Setenv("CART_TTL", "1h")
	t.Setenv("MAIL_SEND_ENABLED", "false")
	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3", cfg.StorageDriver)
	assert.Equal(t, 5, cfg.AIRateLimitPerMin)
	assert.Equal(t, time.Hour, cfg.CartTTL)
	assert.False(t, cfg.MailSendEnabled)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AI_RATE_LIMIT_PER_MIN", "lots")
	t.Setenv("CART_TTL", "forever")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")
	cfg := Load()

	assert.Equal(t, 30, cfg.AIRateLimitPerMin)
	assert.Equal(t, 30*24*time.Hour, cfg.CartTTL)
	assert.True(t, cfg.MailSendEnabled)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "1", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:1/d?sslmode=disable", cfg.PostgresDSN())
}

func TestSplitLists(t *testing.T) {
	cfg := &Config{CORSAllowedOrigins: " http://a.test, ,http://b.test ", ElasticsearchAddrs: "", DebugTrustedCIDRs: "10.8.0.0/16"}
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ESAddrs())
	assert.Equal(t, []string{"10.8.0.0/16"}, cfg.DebugCIDRs())
}
