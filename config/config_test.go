package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-service-ext/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADAPTER_AUTH_ENC_SECRET", "")
	t.Setenv("PAGE_LIMIT_MAX", "")

	cfg := config.Load()
	require.Equal(t, "roles", cfg.RolesCollection)
	require.Equal(t, 20, cfg.PageLimitDefault)
	require.Equal(t, 100, cfg.PageLimitMax)
	require.Equal(t, "role_events", cfg.RabbitMQRoleQueue)
	require.False(t, cfg.RoleEventsEnabled)
	require.Empty(t, cfg.TokenSecrets().EncryptionSecret)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADAPTER_AUTH_ENC_SECRET", "e")
	t.Setenv("ADAPTER_AUTH_SIGN_SECRET", "s")
	t.Setenv("ADAPTER_AUTH_TOKEN_TTL", "15m")
	t.Setenv("ROLE_EVENTS_ENABLED", "true")
	t.Setenv("PAGE_LIMIT_DEFAULT", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg := config.Load()
	require.Equal(t, "e", cfg.TokenSecrets().EncryptionSecret)
	require.Equal(t, "s", cfg.TokenSecrets().SigningSecret)
	require.Equal(t, 15*time.Minute, cfg.TokenTTL)
	require.True(t, cfg.RoleEventsEnabled)
	require.Equal(t, 20, cfg.PageLimitDefault)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins())
	require.Equal(t, []string{"127.0.0.1", "::1"}, cfg.TrustedProxyList())
}

func TestPostgresDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	require.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
